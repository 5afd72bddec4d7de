package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

const minGapFrequency = 2

type tagTally struct {
	tag        string
	total      int
	unresolved int
}

// DetectKBGaps finds ticket topics the knowledge base does not cover, or
// covers only with stale articles.
func (e *Engine) DetectKBGaps(ctx context.Context, tickets []domain.Ticket, articles []domain.KBArticle) KBGapReport {
	e.simulateLatency(ctx)

	report := KBGapReport{
		Gaps:              []KBGap{},
		SuggestedArticles: []SuggestedArticle{},
		StaleArticles:     []domain.KBArticle{},
		AnalysisDate:      e.now().UTC(),
	}

	for _, tally := range tallyTags(tickets) {
		if tally.total < minGapFrequency {
			continue
		}
		needle := fold(tally.tag)

		if !anyTitleContains(articles, needle) {
			priority := "medium"
			if tally.total >= 3 {
				priority = "high"
			}
			report.Gaps = append(report.Gaps, KBGap{
				Topic:           tally.tag,
				Type:            GapMissing,
				TicketCount:     tally.total,
				UnresolvedCount: tally.unresolved,
				Suggestion:      fmt.Sprintf("Create KB article for %q - %d tickets reference this topic", tally.tag, tally.total),
				Priority:        priority,
			})
			report.SuggestedArticles = append(report.SuggestedArticles, SuggestedArticle{
				SuggestedTitle: e.articleTitle(tally.tag),
				Topic:          tally.tag,
				BasedOnTickets: tally.total,
				Outline:        append([]string{}, e.lex.ArticleOutline...),
			})
			continue
		}

		related, ok := firstRelatedArticle(articles, needle)
		if !ok || !related.Stale {
			continue
		}
		report.Gaps = append(report.Gaps, KBGap{
			Topic:           tally.tag,
			Type:            GapStale,
			TicketCount:     tally.total,
			UnresolvedCount: tally.unresolved,
			RelatedArticle:  &related,
			Suggestion:      fmt.Sprintf("Update %q - marked as stale but still referenced", related.Title),
			Priority:        "medium",
		})
	}

	for _, article := range articles {
		if article.Stale {
			report.StaleArticles = append(report.StaleArticles, article)
		}
	}
	return report
}

// tallyTags counts tag occurrences in first-seen order.
func tallyTags(tickets []domain.Ticket) []tagTally {
	index := map[string]int{}
	tallies := []tagTally{}
	for _, ticket := range tickets {
		for _, tag := range ticket.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(tallies)
				index[tag] = i
				tallies = append(tallies, tagTally{tag: tag})
			}
			tallies[i].total++
			if !ticket.Status.IsSettled() {
				tallies[i].unresolved++
			}
		}
	}
	return tallies
}

func anyTitleContains(articles []domain.KBArticle, needle string) bool {
	for _, article := range articles {
		if strings.Contains(fold(article.Title), needle) {
			return true
		}
	}
	return false
}

func firstRelatedArticle(articles []domain.KBArticle, needle string) (domain.KBArticle, bool) {
	for _, article := range articles {
		if strings.Contains(fold(article.Title), needle) || strings.Contains(fold(article.Category), needle) {
			return article, true
		}
	}
	return domain.KBArticle{}, false
}

func (e *Engine) articleTitle(tag string) string {
	if title, ok := e.lex.ArticleTitles[tag]; ok {
		return title
	}
	return "Guide: Working with " + tag
}
