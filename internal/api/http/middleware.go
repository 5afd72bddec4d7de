package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/helpdesk-labs/support-insights/internal/auth"
	"github.com/helpdesk-labs/support-insights/internal/observability"
	apperrors "github.com/helpdesk-labs/support-insights/pkg/util/errorutil"
)

const maxTrackedCallers = 1024

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// RateLimiter throttles analysis requests per authenticated staff member.
// Anonymous callers share one bucket keyed by IP.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	limiters  *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter creates a limiter allowing reqPerSec with the given burst.
// A non-positive rate disables limiting.
func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	if reqPerSec <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	limiters, _ := lru.New[string, *rate.Limiter](maxTrackedCallers)
	return &RateLimiter{perSecond: rate.Limit(reqPerSec), burst: burst, limiters: limiters}
}

// Handle rejects the request with RATE_LIMITED once the caller's bucket is empty.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if rl == nil {
		return c.Next()
	}
	if !rl.limiterFor(callerKey(c)).Allow() {
		c.Set(fiber.HeaderRetryAfter, "1")
		return apperrors.NewRateLimited("too many analysis requests")
	}
	return c.Next()
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.perSecond, rl.burst)
	if existing, ok, _ := rl.limiters.PeekOrAdd(key, limiter); ok {
		return existing
	}
	return limiter
}

func callerKey(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return "staff:" + principal.Staff.ID
	}
	return "ip:" + c.IP()
}
