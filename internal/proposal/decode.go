package proposal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMissingTitle    = errors.New("proposal has no title")
	ErrMissingSections = errors.New("proposal has no sections array")
)

// Headings the prompt allows for item-bearing sections besides the reserved ones.
var (
	investmentAliases = []string{"Pricing", "Budget"}
	timelineAliases   = []string{"Schedule", "Timeline"}
)

// Decode parses the text model's reply into a Document. The reply must be a
// single JSON object; every section is classified into its variant here so
// nothing downstream has to inspect raw fields again.
func Decode(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty proposal payload")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Title) == "" {
		return nil, ErrMissingTitle
	}
	return &doc, nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	type header Document
	sections := d.Sections
	if sections == nil {
		sections = []Section{}
	}
	return json.Marshal(struct {
		header
		Sections []Section `json:"sections"`
	}{header(d), sections})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	type header Document
	var wire struct {
		header
		Sections []json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode proposal: %w", err)
	}
	if wire.Sections == nil {
		return ErrMissingSections
	}
	*d = Document(wire.header)
	d.Sections = make([]Section, 0, len(wire.Sections))
	for i, raw := range wire.Sections {
		s, err := DecodeSection(raw)
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		d.Sections = append(d.Sections, s)
	}
	return nil
}

// DecodeSection classifies one raw section object. The first matching rule
// wins: executive summary (reserved heading plus a pullQuote key),
// investment and timeline (reserved headings), mockup (mockupImagePrompt
// key), item-bearing alias headings, and finally plain text.
func DecodeSection(raw json.RawMessage) (Section, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("section is not an object: %w", err)
	}
	if fields == nil {
		return nil, errors.New("section is null")
	}

	headingRaw, ok := fields["heading"]
	if !ok {
		return nil, errors.New("section has no heading")
	}
	var heading string
	if err := json.Unmarshal(headingRaw, &heading); err != nil {
		return nil, fmt.Errorf("section heading: %w", err)
	}

	_, hasPullQuote := fields["pullQuote"]
	_, hasMockupPrompt := fields["mockupImagePrompt"]
	hasItems := present(fields, "items")

	content, err := stringField(fields, "content")
	if err != nil {
		return nil, err
	}

	switch {
	case heading == HeadingExecutiveSummary && hasPullQuote:
		quote, err := stringField(fields, "pullQuote")
		if err != nil {
			return nil, err
		}
		return ExecutiveSummarySection{Heading: heading, Content: content, PullQuote: quote}, nil

	case heading == HeadingInvestment:
		return decodeInvestment(heading, fields)

	case heading == HeadingTimeline:
		return decodeTimeline(heading, fields)

	case hasMockupPrompt:
		prompt, err := stringField(fields, "mockupImagePrompt")
		if err != nil {
			return nil, err
		}
		url, err := stringField(fields, "mockupImageUrl")
		if err != nil {
			return nil, err
		}
		return MockupSection{Heading: heading, Content: content, ImagePrompt: prompt, ImageURL: url}, nil

	case hasItems && matchesAny(heading, investmentAliases):
		return decodeInvestment(heading, fields)

	case hasItems && matchesAny(heading, timelineAliases):
		return decodeTimeline(heading, fields)

	default:
		return TextSection{Heading: heading, Content: content}, nil
	}
}

func decodeInvestment(heading string, fields map[string]json.RawMessage) (Section, error) {
	var rows []struct {
		Item        looseString `json:"item"`
		Description looseString `json:"description"`
		Cost        looseString `json:"cost"`
	}
	if err := itemsField(fields, &rows); err != nil {
		return nil, err
	}
	s := InvestmentSection{Heading: heading, Items: make([]InvestmentItem, 0, len(rows))}
	for _, r := range rows {
		s.Items = append(s.Items, InvestmentItem{Item: string(r.Item), Description: string(r.Description), Cost: string(r.Cost)})
	}
	return s, nil
}

func decodeTimeline(heading string, fields map[string]json.RawMessage) (Section, error) {
	var rows []struct {
		Phase       looseString `json:"phase"`
		Description looseString `json:"description"`
		Duration    looseString `json:"duration"`
	}
	if err := itemsField(fields, &rows); err != nil {
		return nil, err
	}
	s := TimelineSection{Heading: heading, Items: make([]Milestone, 0, len(rows))}
	for _, r := range rows {
		s.Items = append(s.Items, Milestone{Phase: string(r.Phase), Description: string(r.Description), Duration: string(r.Duration)})
	}
	return s, nil
}

// itemsField decodes the items array. A missing or null value yields no rows.
func itemsField(fields map[string]json.RawMessage, dst any) error {
	if !present(fields, "items") {
		return nil
	}
	if err := json.Unmarshal(fields["items"], dst); err != nil {
		return fmt.Errorf("section items: %w", err)
	}
	return nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	if !present(fields, key) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(fields[key], &s); err != nil {
		return "", fmt.Errorf("section %s: %w", key, err)
	}
	return s, nil
}

func present(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func matchesAny(heading string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(heading), n) {
			return true
		}
	}
	return false
}

// looseString accepts strings, numbers and booleans. Models regularly emit
// costs like 7500 instead of "$7,500".
type looseString string

func (l *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = looseString(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*l = looseString(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("expected a scalar, got %s", data)
		}
		*l = looseString(data)
	}
	return nil
}
