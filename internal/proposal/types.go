package proposal

// Theme is the visual style bundle picked by the model for the whole document.
type Theme string

const (
	ThemeCorporateFormal Theme = "CORPORATE_FORMAL"
	ThemeTechModern      Theme = "TECH_MODERN"
	ThemeCreativeVibrant Theme = "CREATIVE_VIBRANT"
	ThemeAcademicClassic Theme = "ACADEMIC_CLASSIC"
)

// Themes lists the recognised theme values in prompt order.
var Themes = []Theme{ThemeCorporateFormal, ThemeTechModern, ThemeCreativeVibrant, ThemeAcademicClassic}

// Known reports whether t is one of the four recognised themes.
func (t Theme) Known() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// Reserved headings that select a section variant.
const (
	HeadingExecutiveSummary = "Executive Summary"
	HeadingInvestment       = "Investment"
	HeadingTimeline         = "Project Timeline & Milestones"
)

// Client identifies who the proposal is addressed to.
type Client struct {
	CompanyName string `json:"companyName"`
	PreparedFor string `json:"preparedFor,omitempty"` // contact person, optional
}

// Branding holds the cover-page placeholders generated by the model.
type Branding struct {
	CompanyLogoText string `json:"companyLogoText"`
	ProjectTagline  string `json:"projectTagline"`
}

// Document is one generated proposal. Sections keep the order returned by
// the text model; only mockup image URLs change after decoding.
type Document struct {
	Title    string    `json:"title"`
	Client   Client    `json:"client"`
	Date     string    `json:"date"`
	Branding Branding  `json:"branding"`
	Theme    Theme     `json:"theme"`
	Sections []Section `json:"-"`
}

// PageCount is the number of printed pages: one cover plus one per section.
func (d *Document) PageCount() int {
	return len(d.Sections) + 1
}

// Clone returns a copy whose section slice can be modified independently.
func (d *Document) Clone() *Document {
	cp := *d
	cp.Sections = make([]Section, len(d.Sections))
	copy(cp.Sections, d.Sections)
	return &cp
}

// MockupIndexes returns the positions of mockup sections that carry a
// non-empty image prompt, in document order.
func (d *Document) MockupIndexes() []int {
	var idx []int
	for i, s := range d.Sections {
		if m, ok := s.(MockupSection); ok && m.ImagePrompt != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

// WithMockupImage returns a copy of d with url set on the mockup section at
// index i. It reports false, leaving d untouched, when i is not a mockup.
func (d *Document) WithMockupImage(i int, url string) (*Document, bool) {
	if i < 0 || i >= len(d.Sections) {
		return d, false
	}
	m, ok := d.Sections[i].(MockupSection)
	if !ok {
		return d, false
	}
	cp := d.Clone()
	m.ImageURL = url
	cp.Sections[i] = m
	return cp, true
}
