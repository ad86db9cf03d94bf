package render

import (
	"strings"
	"testing"

	"proposal_ai_server/internal/proposal"
)

func sampleDoc(theme proposal.Theme, sections ...proposal.Section) *proposal.Document {
	return &proposal.Document{
		Title:    "Portal Modernisation",
		Client:   proposal.Client{CompanyName: "Acme Corp"},
		Date:     "October 19, 2026",
		Branding: proposal.Branding{CompanyLogoText: "ACME", ProjectTagline: "Clearer client service"},
		Theme:    theme,
		Sections: sections,
	}
}

func TestResolveTheme(t *testing.T) {
	for _, name := range proposal.Themes {
		if got := ResolveTheme(name); got.Name != name {
			t.Errorf("ResolveTheme(%s) returned %s", name, got.Name)
		}
	}

	def := ResolveTheme(DefaultTheme)
	for _, unknown := range []proposal.Theme{"", "NEON_PUNK", "tech_modern"} {
		if got := ResolveTheme(unknown); got != def {
			t.Errorf("ResolveTheme(%q) = %+v, want default", unknown, got)
		}
	}
	if !strings.Contains(def.CSSVariables(), "--brand-color: #0d9488;") {
		t.Errorf("unexpected default variables:\n%s", def.CSSVariables())
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#be185d")
	if err != nil || c != (RGB{190, 24, 93}) {
		t.Errorf("ParseHex(#be185d) = %+v, %v", c, err)
	}
	if c, _ := ParseHex("#fff"); c != (RGB{255, 255, 255}) {
		t.Errorf("ParseHex(#fff) = %+v", c)
	}
	if _, err := ParseHex("teal"); err == nil {
		t.Error("expected an error for a colour name")
	}
}

func TestSectionDispatch(t *testing.T) {
	tests := []struct {
		name    string
		section proposal.Section
		want    []string
	}{
		{"text", proposal.TextSection{Heading: "Scope", Content: "<p>Scope text.</p>"},
			[]string{`<div class="prose"><p>Scope text.</p></div>`}},
		{"executive summary", proposal.ExecutiveSummarySection{Heading: "Executive Summary", Content: "<p>Sum.</p>", PullQuote: "Less waiting."},
			[]string{"<p>Sum.</p>", `class="pull-quote"`, "Less waiting."}},
		{"investment", proposal.InvestmentSection{Heading: "Investment", Items: []proposal.InvestmentItem{{Item: "Build", Description: "Engineering", Cost: "$25,000"}}},
			[]string{"<table", `<td class="cost">$25,000</td>`, `<th class="cost">Cost</th>`}},
		{"timeline", proposal.TimelineSection{Heading: "Project Timeline & Milestones", Items: []proposal.Milestone{{Phase: "Discovery", Duration: "2 weeks", Description: "Research"}, {Phase: "Build", Duration: "6 weeks"}}},
			[]string{`<ol class="timeline">`, "Discovery", "(2 weeks)", "Build"}},
		{"mockup pending", proposal.MockupSection{Heading: "Preview", ImagePrompt: "a dashboard"},
			[]string{"mockup-placeholder", "Generating mockup image..."}},
		{"mockup ready", proposal.MockupSection{Heading: "Preview", Content: "<p>Main view.</p>", ImagePrompt: "a dashboard", ImageURL: "https://img.example/a.png"},
			[]string{"<p>Main view.</p>", `<img src="https://img.example/a.png" alt="a dashboard">`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Section(tt.section)
			if err != nil {
				t.Fatalf("Section failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(string(out), w) {
					t.Errorf("expected %q in:\n%s", w, out)
				}
			}
		})
	}
}

func TestTimelineKeepsOrder(t *testing.T) {
	out, err := Section(proposal.TimelineSection{Items: []proposal.Milestone{{Phase: "First"}, {Phase: "Second"}, {Phase: "Third"}}})
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	s := string(out)
	if !(strings.Index(s, "First") < strings.Index(s, "Second") && strings.Index(s, "Second") < strings.Index(s, "Third")) {
		t.Errorf("milestones out of order:\n%s", s)
	}
}

func TestMockupImageSources(t *testing.T) {
	data := "data:image/png;base64,iVBORw0KGgo="
	out, err := Section(proposal.MockupSection{ImagePrompt: "p", ImageURL: data})
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if !strings.Contains(string(out), `src="`+data+`"`) {
		t.Errorf("expected inline image to be kept:\n%s", out)
	}

	out, err = Section(proposal.MockupSection{ImagePrompt: "p", ImageURL: "javascript:alert(1)"})
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if strings.Contains(string(out), "javascript:") {
		t.Errorf("expected unsafe url to be neutralised:\n%s", out)
	}
}

func TestContentMarkdownFallback(t *testing.T) {
	if got := Content("<p>Already HTML.</p>"); got != "<p>Already HTML.</p>" {
		t.Errorf("HTML content changed: %s", got)
	}
	got := string(Content("First paragraph with **bold**.\n\nSecond paragraph."))
	if !strings.Contains(got, "<strong>bold</strong>") || strings.Count(got, "<p>") != 2 {
		t.Errorf("unexpected markdown rendering: %s", got)
	}
	if Content("   ") != "" {
		t.Error("expected blank content to render nothing")
	}
}

func TestDocumentPages(t *testing.T) {
	doc := sampleDoc("TECH_MODERN",
		proposal.TextSection{Heading: "Introduction", Content: "<p>Intro.</p>"},
		proposal.TextSection{Heading: "Scope of Work", Content: "<p>Scope.</p>"},
		proposal.TextSection{Heading: "Governance", Content: "<p>Gov.</p>"},
	)

	out, err := Document(doc)
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	s := string(out)

	if got := strings.Count(s, `class="a4-page `); got != 4 {
		t.Errorf("expected 4 pages, got %d", got)
	}
	for _, w := range []string{
		`id="` + RenderAreaID + `"`,
		"--brand-color: #0d9488;",
		"Portal Modernisation",
		"Prepared for",
		"Page 2 of 4",
		"Page 4 of 4",
	} {
		if !strings.Contains(s, w) {
			t.Errorf("expected %q in document", w)
		}
	}
	if strings.Contains(s, "Attn:") {
		t.Error("expected no Attn line without preparedFor")
	}
	if i, j := strings.Index(s, "Introduction"), strings.Index(s, "Governance"); i < 0 || j < i {
		t.Error("sections not in document order")
	}
}

func TestDocumentEscapesPlainFields(t *testing.T) {
	doc := sampleDoc("UNKNOWN", proposal.TextSection{Heading: "<script>alert(1)</script>"})
	doc.Client.PreparedFor = "Jane <Doe>"

	out, err := Document(doc)
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Error("heading was not escaped")
	}
	if !strings.Contains(s, "Attn: Jane &lt;Doe&gt;") {
		t.Error("expected escaped Attn line")
	}
	if !strings.Contains(s, "--brand-color: #0d9488;") {
		t.Error("expected unknown theme to fall back to the default variables")
	}
}

func TestPageAndIndex(t *testing.T) {
	page, err := Page("abc-123", sampleDoc("CORPORATE_FORMAL", proposal.TextSection{Heading: "Intro"}))
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	for _, w := range []string{"<!DOCTYPE html>", "/proposal/abc-123/export", "window.print()", "--brand-color: #1e40af;"} {
		if !strings.Contains(string(page), w) {
			t.Errorf("expected %q in page", w)
		}
	}

	index, err := Index(IndexData{SessionID: "abc-123", Error: "project notes are empty"})
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	for _, w := range []string{`action="/generate"`, `value="abc-123"`, "project notes are empty"} {
		if !strings.Contains(string(index), w) {
			t.Errorf("expected %q in index", w)
		}
	}
}
