package proposal

import "encoding/json"

// Kind names a section variant.
type Kind string

const (
	KindText             Kind = "text"
	KindExecutiveSummary Kind = "executive_summary"
	KindInvestment       Kind = "investment"
	KindTimeline         Kind = "timeline"
	KindMockup           Kind = "mockup"
)

// Section is one page of the proposal body. The set of implementations is
// closed: TextSection, ExecutiveSummarySection, InvestmentSection,
// TimelineSection and MockupSection.
type Section interface {
	Title() string
	Kind() Kind
	sealed()
}

// TextSection is a generic prose section. Content is an HTML string.
type TextSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// ExecutiveSummarySection is prose followed by a pull-quote callout.
type ExecutiveSummarySection struct {
	Heading   string `json:"heading"`
	Content   string `json:"content"`
	PullQuote string `json:"pullQuote"`
}

// InvestmentItem is one priced line of the investment table.
type InvestmentItem struct {
	Item        string `json:"item"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
}

// InvestmentSection renders as a line-item table.
type InvestmentSection struct {
	Heading string           `json:"heading"`
	Items   []InvestmentItem `json:"items"`
}

// Milestone is one phase of the project timeline.
type Milestone struct {
	Phase       string `json:"phase"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// TimelineSection renders as a vertical sequence of milestones.
type TimelineSection struct {
	Heading string      `json:"heading"`
	Items   []Milestone `json:"items"`
}

// MockupSection pairs optional prose with an AI-generated illustration.
// ImageURL is empty until the image step fills it in.
type MockupSection struct {
	Heading     string `json:"heading"`
	Content     string `json:"content,omitempty"`
	ImagePrompt string `json:"mockupImagePrompt"`
	ImageURL    string `json:"mockupImageUrl,omitempty"`
}

func (s TextSection) Title() string             { return s.Heading }
func (s ExecutiveSummarySection) Title() string { return s.Heading }
func (s InvestmentSection) Title() string       { return s.Heading }
func (s TimelineSection) Title() string         { return s.Heading }
func (s MockupSection) Title() string           { return s.Heading }

func (TextSection) Kind() Kind             { return KindText }
func (ExecutiveSummarySection) Kind() Kind { return KindExecutiveSummary }
func (InvestmentSection) Kind() Kind       { return KindInvestment }
func (TimelineSection) Kind() Kind         { return KindTimeline }
func (MockupSection) Kind() Kind           { return KindMockup }

func (TextSection) sealed()             {}
func (ExecutiveSummarySection) sealed() {}
func (InvestmentSection) sealed()       {}
func (TimelineSection) sealed()         {}
func (MockupSection) sealed()           {}

// Empty item lists encode as [] so a decoded document re-decodes to the
// same variant.

func (s InvestmentSection) MarshalJSON() ([]byte, error) {
	type wire InvestmentSection
	if s.Items == nil {
		s.Items = []InvestmentItem{}
	}
	return json.Marshal(wire(s))
}

func (s TimelineSection) MarshalJSON() ([]byte, error) {
	type wire TimelineSection
	if s.Items == nil {
		s.Items = []Milestone{}
	}
	return json.Marshal(wire(s))
}
