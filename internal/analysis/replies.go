package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

const (
	maxSuggestions      = 3
	maxRelevantArticles = 3
	titleWordWeight     = 20
	tagArticleWeight    = 30
	articleCutoff       = 20
	minTitleWordLen     = 4
	generalTopic        = "general"
)

type replyContext struct {
	howTo         bool
	technical     bool
	needsEscalate bool
	topic         string
	tier          int
}

// SuggestReplies drafts reply candidates for the agent and lists the KB
// articles most relevant to the ticket.
func (e *Engine) SuggestReplies(ctx context.Context, ticket domain.Ticket, timeline []domain.TimelineEntry, articles []domain.KBArticle) ReplySuggestions {
	e.simulateLatency(ctx)

	lastMessage := lastCustomerMessage(timeline)
	rc := e.classifyContext(ticket, lastMessage)
	relevant := relevantArticles(ticket, lastMessage, articles)

	var ref *ScoredArticle
	if len(relevant) > 0 {
		top := relevant[0]
		ref = &top
	}

	suggestions := make([]ReplySuggestion, 0, 4)
	if rc.howTo {
		suggestions = append(suggestions, ReplySuggestion{
			ID:          "sug-1",
			Type:        ReplyHowTo,
			Title:       "Step-by-step guidance",
			Preview:     fmt.Sprintf("Here's how to %s...", rc.topic),
			Content:     howToDraft(ref),
			KBReference: ref,
		})
	}
	if rc.technical {
		suggestions = append(suggestions, ReplySuggestion{
			ID:          "sug-2",
			Type:        ReplyTroubleshooting,
			Title:       "Troubleshooting steps",
			Preview:     "Let me help diagnose this issue...",
			Content:     troubleshootingDraft(rc),
			KBReference: ref,
		})
	}
	if rc.needsEscalate {
		suggestions = append(suggestions, ReplySuggestion{
			ID:      "sug-3",
			Type:    ReplyEscalation,
			Title:   "Escalation response",
			Preview: "I'm escalating this to our specialist team...",
			Content: escalationDraft(rc),
		})
	}
	suggestions = append(suggestions, ReplySuggestion{
		ID:      "sug-4",
		Type:    ReplyClarification,
		Title:   "Request more details",
		Preview: "To help resolve this faster...",
		Content: clarificationDraft,
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return ReplySuggestions{
		Suggestions: suggestions,
		RelevantKB:  relevant,
		Confidence:  inBand(e.rand, 85, 15),
	}
}

func (e *Engine) classifyContext(ticket domain.Ticket, lastMessage string) replyContext {
	text := fold(ticket.Subject + " " + lastMessage)
	rc := replyContext{
		howTo:         containsAny(text, e.lex.HowToPhrases),
		technical:     containsAny(text, e.lex.TechnicalPhrases),
		needsEscalate: containsAny(text, e.lex.EscalationPhrases),
		topic:         generalTopic,
		tier:          ticket.Tier,
	}
	for _, topic := range e.lex.Topics {
		if strings.Contains(text, topic) {
			rc.topic = topic
			break
		}
	}
	return rc
}

// relevantArticles scores each article against the ticket: 20 per long title
// word found in the search text and 30 per ticket tag found in the article's
// category or title.
func relevantArticles(ticket domain.Ticket, lastMessage string, articles []domain.KBArticle) []ScoredArticle {
	search := fold(ticket.Subject + " " + strings.Join(ticket.Tags, " ") + " " + lastMessage)

	scored := []ScoredArticle{}
	for _, article := range articles {
		title := fold(article.Title)
		category := fold(article.Category)
		relevance := 0
		for _, w := range words(title) {
			if len([]rune(w)) >= minTitleWordLen && strings.Contains(search, w) {
				relevance += titleWordWeight
			}
		}
		for _, tag := range ticket.Tags {
			tag = fold(tag)
			if tag == "" {
				continue
			}
			if strings.Contains(category, tag) || strings.Contains(title, tag) {
				relevance += tagArticleWeight
			}
		}
		if relevance > articleCutoff {
			scored = append(scored, ScoredArticle{KBArticle: article, CalculatedRelevance: relevance})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CalculatedRelevance > scored[j].CalculatedRelevance
	})
	if len(scored) > maxRelevantArticles {
		scored = scored[:maxRelevantArticles]
	}
	return scored
}

func howToDraft(ref *ScoredArticle) string {
	kbTitle := "our documentation"
	if ref != nil {
		kbTitle = ref.Title
	}
	return fmt.Sprintf(`Hi,

Thank you for reaching out! I'd be happy to help you with this.

Based on your question, here's a step-by-step guide:

1. Navigate to the relevant section in your dashboard
2. Follow the configuration steps outlined in "%s"
3. Test the changes in a staging environment first
4. Deploy to production once verified

I've attached the relevant documentation for your reference. Please let me know if you need any clarification on these steps.

Best regards`, kbTitle)
}

func troubleshootingDraft(rc replyContext) string {
	topic := rc.topic
	if topic == generalTopic {
		topic = "workflow"
	}
	return fmt.Sprintf(`Hi,

Thank you for the detailed information. I understand this is impacting your %s.

Based on the symptoms you've described, I'd like to gather a few more details:

1. When did this issue first occur?
2. Were there any recent changes to your environment?
3. Can you share any error logs or screenshots?

In the meantime, here are some initial troubleshooting steps:
- Verify your configuration settings
- Check network connectivity
- Review recent deployment changes

I'll investigate this further and get back to you with a solution.

Best regards`, topic)
}

func escalationDraft(rc replyContext) string {
	tier := rc.tier
	if tier <= 0 {
		tier = 2
	}
	specialty := rc.topic
	if specialty == generalTopic {
		specialty = "these types of issues"
	}
	return fmt.Sprintf(`Hi,

Thank you for your patience. Based on my investigation, this issue requires deeper technical analysis.

I'm escalating this to our Tier %d team who specialize in %s. They will:

1. Review the technical details
2. Analyze system logs
3. Provide a root cause analysis

You can expect an update within the next 2-4 hours. I'll remain on this ticket to ensure continuity.

Best regards`, tier, specialty)
}

const clarificationDraft = `Hi,

Thank you for contacting support. To help resolve this as quickly as possible, could you please provide:

1. Your platform version
2. The specific steps to reproduce the issue
3. Any error messages you're seeing
4. Your environment details (Cloud/On-premise)

This information will help us diagnose the issue faster.

Best regards`
