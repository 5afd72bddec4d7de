package analysis

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// UrgencyPhrase maps a phrase found in customer text to the urgency level it signals.
type UrgencyPhrase struct {
	Phrase string       `yaml:"phrase"`
	Level  UrgencyLevel `yaml:"level"`
}

// TagRule suggests Tag when any of Keywords appears in the text.
type TagRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// CategoryRule assigns a category when any of Keywords appears in the text.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Icon     string   `yaml:"icon"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon is the static keyword and phrase data every analyzer reads.
// It is never mutated after construction, so one instance can be shared
// by concurrent analyses.
type Lexicon struct {
	PositiveWords []string        `yaml:"positive_words"`
	NegativeWords []string        `yaml:"negative_words"`
	Urgency       []UrgencyPhrase `yaml:"urgency_phrases"`
	Deadlines     []string        `yaml:"deadline_patterns"`

	PersistenceMarkers []string `yaml:"persistence_markers"`
	RecurrenceMarkers  []string `yaml:"recurrence_markers"`
	WaitingMarkers     []string `yaml:"waiting_markers"`

	TechnicalKeywords []string         `yaml:"technical_keywords"`
	CriticalKeywords  []string         `yaml:"critical_keywords"`
	UrgentKeywords    []string         `yaml:"urgent_keywords"`
	LowUrgency        []string         `yaml:"low_urgency_keywords"`
	Tags              []TagRule        `yaml:"tags"`
	Categories        []CategoryRule   `yaml:"categories"`
	DefaultCategory   CategoryRule     `yaml:"default_category"`
	AssigneePools     map[int][]string `yaml:"assignee_pools"`

	FindingMarkers []string `yaml:"finding_markers"`

	HowToPhrases      []string `yaml:"how_to_phrases"`
	TechnicalPhrases  []string `yaml:"technical_phrases"`
	EscalationPhrases []string `yaml:"escalation_phrases"`
	Topics            []string `yaml:"topics"`

	ArticleTitles  map[string]string `yaml:"article_titles"`
	ArticleOutline []string          `yaml:"article_outline"`

	deadlineRes []*regexp.Regexp
}

// DefaultLexicon returns the built-in tables.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		PositiveWords: []string{"thank", "great", "excellent", "appreciate", "helpful", "works", "resolved", "perfect"},
		NegativeWords: []string{"frustrated", "angry", "unacceptable", "terrible", "worst", "disappointed", "failed", "broken", "useless", "waste"},
		Urgency: []UrgencyPhrase{
			{Phrase: "asap", Level: UrgencyHigh},
			{Phrase: "urgent", Level: UrgencyHigh},
			{Phrase: "critical", Level: UrgencyCritical},
			{Phrase: "production down", Level: UrgencyCritical},
			{Phrase: "go-live", Level: UrgencyHigh},
			{Phrase: "deadline", Level: UrgencyHigh},
			{Phrase: "blocking", Level: UrgencyHigh},
			{Phrase: "cannot proceed", Level: UrgencyHigh},
			{Phrase: "showstopper", Level: UrgencyCritical},
		},
		Deadlines: []string{
			`(?i)(\d+)\s*days?`,
			`(?i)by\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`,
			`(?i)end\s+of\s+(week|month|day)`,
		},
		PersistenceMarkers: []string{"still", "not"},
		RecurrenceMarkers:  []string{"again", "another"},
		WaitingMarkers:     []string{"waited", "waiting"},

		TechnicalKeywords: []string{"error", "failing", "broken", "not working", "crash", "timeout", "degradation"},
		CriticalKeywords:  []string{"critical", "urgent", "production down", "major outage", "blocking"},
		UrgentKeywords:    []string{"urgent", "asap", "critical", "production", "go-live", "deadline"},
		LowUrgency:        []string{"when you get a chance", "no rush", "question about", "curious"},
		Tags: []TagRule{
			{Tag: "ivr", Keywords: []string{"ivr", "interactive voice", "phone tree", "dtmf"}},
			{Tag: "chatbot", Keywords: []string{"chatbot", "bot", "pulse", "virtual assistant", "nlu"}},
			{Tag: "voice-quality", Keywords: []string{"mos", "voice quality", "audio", "call quality", "jitter"}},
			{Tag: "load-testing", Keywords: []string{"cruncher", "load test", "concurrent", "performance", "stress test"}},
			{Tag: "monitoring", Keywords: []string{"velocity", "scheduled", "monitoring", "alerting"}},
			{Tag: "migration", Keywords: []string{"migration", "migrate", "genesys", "avaya", "cisco"}},
			{Tag: "api", Keywords: []string{"api", "integration", "webhook", "rest"}},
			{Tag: "authentication", Keywords: []string{"login", "password", "sso", "authentication", "access"}},
			{Tag: "transcription", Keywords: []string{"transcription", "speech-to-text", "resolveai", "accuracy"}},
		},
		Categories: []CategoryRule{
			{Name: "How-To", Icon: "📖", Keywords: []string{"how to", "how do i", "can i", "help with", "guide", "documentation"}},
			{Name: "Bug Report", Icon: "🐛", Keywords: []string{"error", "bug", "broken", "not working", "failing", "issue"}},
			{Name: "Feature Request", Icon: "💡", Keywords: []string{"feature", "request", "would be nice", "suggestion", "enhance"}},
			{Name: "Performance", Icon: "⚡", Keywords: []string{"slow", "performance", "timeout", "latency", "degradation"}},
		},
		DefaultCategory: CategoryRule{Name: "General Inquiry", Icon: "💬"},
		AssigneePools: map[int][]string{
			1: {"Agent Mike", "Agent Sarah", "Agent Tom"},
			2: {"Senior Engineer Tom", "Tech Lead Rachel", "Platform Specialist Kevin"},
			3: {"Engineering Manager", "Support Director", "Cloud Ops Lead"},
		},

		FindingMarkers: []string{"found", "confirmed", "root cause"},

		HowToPhrases:      []string{"how to", "how do i", "can i", "help me", "guide", "steps"},
		TechnicalPhrases:  []string{"error", "failing", "not working", "broken", "issue", "problem"},
		EscalationPhrases: []string{"urgent", "critical", "escalate", "manager", "immediate"},
		Topics:            []string{"ivr", "chatbot", "voice quality", "load testing", "monitoring", "api", "authentication", "migration"},

		ArticleTitles: map[string]string{
			"ivr":           "Troubleshooting IVR Test Failures",
			"chatbot":       "Chatbot Testing Best Practices",
			"voice-quality": "Voice Quality Optimization Guide",
			"migration":     "CCaaS Migration Checklist",
			"monitoring":    "Setting Up Automated Monitoring",
			"api":           "API Integration Guide",
			"load-testing":  "Load Testing Configuration",
		},
		ArticleOutline: []string{
			"Overview and common use cases",
			"Step-by-step configuration",
			"Troubleshooting common issues",
			"Best practices and tips",
			"Related resources",
		},
	}
	if err := lex.compile(); err != nil {
		panic(fmt.Sprintf("default lexicon: %v", err))
	}
	return lex
}

// LoadLexicon reads a YAML file and overlays it on the default tables.
// Keys absent from the file keep their default values.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes YAML lexicon overrides on top of DefaultLexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	lex := DefaultLexicon()
	if err := yaml.Unmarshal(data, lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	if err := lex.compile(); err != nil {
		return nil, err
	}
	return lex, nil
}

func (l *Lexicon) compile() error {
	compiled := make([]*regexp.Regexp, 0, len(l.Deadlines))
	for _, pattern := range l.Deadlines {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("deadline pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	for _, phrase := range l.Urgency {
		if !phrase.Level.valid() {
			return fmt.Errorf("urgency phrase %q: unknown level %q", phrase.Phrase, phrase.Level)
		}
	}
	if len(l.AssigneePools[1]) == 0 {
		return fmt.Errorf("assignee pool for tier 1 must not be empty")
	}
	l.deadlineRes = compiled
	return nil
}
