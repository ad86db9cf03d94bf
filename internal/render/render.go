package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"proposal_ai_server/internal/proposal"
)

// RenderAreaID is the id of the element that wraps the rendered proposal.
const RenderAreaID = "proposal-render-area"

// FontsURL is the stylesheet for the heading and body fonts used by every theme.
const FontsURL = "https://fonts.googleapis.com/css2?family=Lora:wght@400;500;700&family=Poppins:wght@400;500;600;700&display=swap"

// Base colours shared by all themes.
const baseVariables = `  --text-color: #334155;
  --light-text-color: #64748b;
  --heading-color: #0f172a;
  --border-color: #e2e8f0;
  --page-bg: #ffffff;
  --spacing-unit: 2.5cm;
`

//go:embed templates/*.tmpl templates/styles.css
var templateFS embed.FS

var (
	pageCSS   string
	templates *template.Template
)

func init() {
	css, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		panic(fmt.Sprintf("render: missing stylesheet: %v", err))
	}
	pageCSS = string(css)

	templates = template.Must(template.New("proposal").Funcs(template.FuncMap{
		"content":    Content,
		"section":    Section,
		"safeImage":  safeImage,
		"pageNumber": func(i int) int { return i + 2 },
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

// Section renders the body of one section. The switch covers every
// variant, so no section value is left unrendered.
func Section(s proposal.Section) (template.HTML, error) {
	var name string
	switch s.(type) {
	case proposal.ExecutiveSummarySection:
		name = "section-executive-summary"
	case proposal.InvestmentSection:
		name = "section-investment"
	case proposal.TimelineSection:
		name = "section-timeline"
	case proposal.MockupSection:
		name = "section-mockup"
	case proposal.TextSection:
		name = "section-text"
	default:
		return "", fmt.Errorf("unknown section type %T", s)
	}
	return execute(name, s)
}

// Stylesheet returns the complete style rules for a theme.
func Stylesheet(th Theme) string {
	return ":root {\n" + th.CSSVariables() + baseVariables + "}\n" + pageCSS
}

type documentData struct {
	Doc    *proposal.Document
	Theme  Theme
	Styles template.CSS
	Total  int
}

// Document renders the cover page and one page per section, wrapped in the
// render area together with the theme's style rules.
func Document(doc *proposal.Document) (template.HTML, error) {
	th := ResolveTheme(doc.Theme)
	return execute("document", documentData{
		Doc:    doc,
		Theme:  th,
		Styles: template.CSS(Stylesheet(th)),
		Total:  doc.PageCount(),
	})
}

type pageData struct {
	ID       string
	Title    string
	FontsURL string
	Body     template.HTML
}

// Page wraps the rendered document in the preview screen with the
// download and print controls for session id.
func Page(id string, doc *proposal.Document) ([]byte, error) {
	body, err := Document(doc)
	if err != nil {
		return nil, err
	}
	out, err := execute("page", pageData{ID: id, Title: doc.Title, FontsURL: FontsURL, Body: body})
	return []byte(out), err
}

// IndexData fills the notes form.
type IndexData struct {
	SessionID string
	Notes     string
	Error     string
}

// Index renders the notes form.
func Index(data IndexData) ([]byte, error) {
	out, err := execute("index", struct {
		IndexData
		FontsURL string
	}{data, FontsURL})
	return []byte(out), err
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// safeImage lets generated image references through the URL sanitiser:
// http(s) links and inline image data. Anything else is left for
// html/template to neutralise.
func safeImage(ref string) any {
	lower := strings.ToLower(strings.TrimSpace(ref))
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "data:image/") {
		return template.URL(ref)
	}
	return ref
}
