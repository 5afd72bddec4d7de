package domain

import "time"

// CustomerTier is the commercial support tier of a customer.
type CustomerTier string

const (
	CustomerTierTrial      CustomerTier = "trial"
	CustomerTierPro        CustomerTier = "pro"
	CustomerTierEnterprise CustomerTier = "enterprise"
)

// HealthTrend describes the direction of an account's health score.
type HealthTrend string

const (
	HealthTrendUp     HealthTrend = "up"
	HealthTrendDown   HealthTrend = "down"
	HealthTrendStable HealthTrend = "stable"
)

// Customer is the person and company a ticket belongs to.
type Customer struct {
	ID               string       `json:"id" yaml:"id"`
	Name             string       `json:"name" yaml:"name"`
	Email            string       `json:"email" yaml:"email"`
	Company          string       `json:"company" yaml:"company"`
	Tier             CustomerTier `json:"tier" yaml:"tier"`
	MessagingChannel *string      `json:"messaging_channel,omitempty" yaml:"messaging_channel"`
	Account          *Account     `json:"account,omitempty" yaml:"account"`
}

// Account holds commercial data about a customer's company.
type Account struct {
	MRR                int64       `json:"mrr" yaml:"mrr"`
	ARR                int64       `json:"arr" yaml:"arr"`
	HealthScore        int         `json:"health_score" yaml:"health_score"`
	HealthTrend        HealthTrend `json:"health_trend" yaml:"health_trend"`
	ContractStart      time.Time   `json:"contract_start" yaml:"contract_start"`
	ContractEnd        time.Time   `json:"contract_end" yaml:"contract_end"`
	SupportPlan        string      `json:"support_plan" yaml:"support_plan"`
	SuccessManager     string      `json:"success_manager" yaml:"success_manager"`
	TotalTickets       int         `json:"total_tickets" yaml:"total_tickets"`
	AvgResolutionHours float64     `json:"avg_resolution_hours" yaml:"avg_resolution_hours"`
	NPS                int         `json:"nps" yaml:"nps"`
	Seats              int         `json:"seats" yaml:"seats"`
	Products           []string    `json:"products" yaml:"products"`
}
