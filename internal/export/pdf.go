package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"regexp"
	"strings"

	"proposal_ai_server/internal/proposal"
	"proposal_ai_server/internal/render"
	fileutils "proposal_ai_server/internal/utils"

	"github.com/jung-kurt/gofpdf"
)

// A4 portrait in millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	pageMargin   = 25.0
	footerHeight = 15.0
	sidebarRatio = 0.38
)

var (
	textColor  = render.RGB{R: 51, G: 65, B: 85}
	lightColor = render.RGB{R: 100, G: 116, B: 139}
	headColor  = render.RGB{R: 15, G: 23, B: 42}
	lineColor  = render.RGB{R: 226, G: 232, B: 240}
	paperColor = render.RGB{R: 255, G: 255, B: 255}
)

// PDF renders doc as an A4 PDF with the same page structure as the HTML
// preview: a cover page followed by one page per section. Footers carry the
// section's page number, so a section that runs over keeps its number on
// every physical page. Mockup images that cannot be loaded are drawn as
// placeholders.
func (e *Exporter) PDF(ctx context.Context, doc *proposal.Document) (*Result, error) {
	return e.renderPDF(ctx, doc, true)
}

func (e *Exporter) renderPDF(ctx context.Context, doc *proposal.Document, compress bool) (*Result, error) {
	th := render.ResolveTheme(doc.Theme)
	w := &pdfWriter{
		pdf:   gofpdf.New("P", "mm", "A4", ""),
		theme: th,
		brand: render.ColorOf(th.BrandColor),
		doc:   doc,
	}
	w.tr = w.pdf.UnicodeTranslatorFromDescriptor("")
	w.pdf.SetCompression(compress)
	w.pdf.SetTitle(doc.Title, true)
	w.pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	w.pdf.SetAutoPageBreak(true, pageMargin)
	w.pdf.SetFooterFunc(w.footer)

	w.cover()
	images, failed := e.loadImages(ctx, doc)
	for i, s := range doc.Sections {
		w.section(i, s, images[i])
	}
	failed += w.failed

	if err := w.pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return &Result{
		Filename:    fileutils.SanitizeFilename(doc.Title, ".pdf"),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
		Embedded:    len(images) - w.failed,
		Failed:      failed,
	}, nil
}

type pdfImage struct {
	data      []byte
	imageType string
}

// loadImages fetches mockup images that gofpdf can embed, keyed by section index.
func (e *Exporter) loadImages(ctx context.Context, doc *proposal.Document) (map[int]pdfImage, int) {
	images := make(map[int]pdfImage)
	failed := 0
	for i, s := range doc.Sections {
		m, ok := s.(proposal.MockupSection)
		if !ok || m.ImageURL == "" {
			continue
		}
		data, contentType, err := e.fetcher.Fetch(ctx, m.ImageURL)
		if err != nil {
			log.Printf("WARN: Failed to load image for section %d: %v", i, err)
			failed++
			continue
		}
		imageType := fileutils.PDFImageType(fileutils.DetermineImageType(contentType, m.ImageURL, data))
		if imageType == "" {
			log.Printf("WARN: Image for section %d has a type the PDF renderer cannot embed", i)
			failed++
			continue
		}
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			log.Printf("WARN: Image for section %d is not a readable %s: %v", i, imageType, err)
			failed++
			continue
		}
		images[i] = pdfImage{data: data, imageType: imageType}
	}
	return images, failed
}

type pdfWriter struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	theme   render.Theme
	brand   render.RGB
	doc     *proposal.Document
	onCover bool
	current int // section index shown in the footer
	failed  int // images gofpdf rejected while drawing
}

func (w *pdfWriter) color(c render.RGB) { w.pdf.SetTextColor(c.R, c.G, c.B) }
func (w *pdfWriter) fill(c render.RGB)  { w.pdf.SetFillColor(c.R, c.G, c.B) }
func (w *pdfWriter) draw(c render.RGB)  { w.pdf.SetDrawColor(c.R, c.G, c.B) }

func (w *pdfWriter) cover() {
	w.onCover = true
	w.pdf.SetAutoPageBreak(false, 0)
	w.pdf.AddPage()

	sidebar := pageWidth * sidebarRatio
	w.fill(render.ColorOf(w.theme.CoverSidebarBG))
	w.pdf.Rect(0, 0, sidebar, pageHeight, "F")
	w.fill(paperColor)
	w.pdf.Rect(sidebar, 0, pageWidth-sidebar, pageHeight, "F")

	sideText := render.ColorOf(w.theme.CoverSidebarText)
	w.color(sideText)
	w.pdf.SetFont("Helvetica", "B", 12)
	w.pdf.SetXY(pageMargin, pageMargin)
	w.pdf.MultiCell(sidebar-2*pageMargin+10, 6, w.tr(strings.ToUpper(w.doc.Branding.CompanyLogoText)), "", "L", false)

	w.pdf.SetFont("Helvetica", "", 9)
	w.pdf.SetXY(pageMargin, pageHeight-pageMargin-20)
	w.pdf.MultiCell(sidebar-2*pageMargin+10, 5, w.tr(w.doc.Date), "", "L", false)
	w.pdf.SetX(pageMargin)
	w.pdf.MultiCell(sidebar-2*pageMargin+10, 5, w.tr(w.doc.Branding.ProjectTagline), "", "L", false)

	left := sidebar + 20
	width := pageWidth - left - 20
	w.color(headColor)
	w.pdf.SetFont("Helvetica", "B", 30)
	w.pdf.SetXY(left, 95)
	w.pdf.MultiCell(width, 13, w.tr(w.doc.Title), "", "L", false)

	w.pdf.Ln(14)
	w.pdf.SetX(left)
	w.color(lightColor)
	w.pdf.SetFont("Helvetica", "B", 8)
	w.pdf.CellFormat(width, 5, "PREPARED FOR", "", 1, "L", false, 0, "")
	w.pdf.SetX(left)
	w.color(headColor)
	w.pdf.SetFont("Helvetica", "B", 18)
	w.pdf.MultiCell(width, 9, w.tr(w.doc.Client.CompanyName), "", "L", false)
	if w.doc.Client.PreparedFor != "" {
		w.pdf.SetX(left)
		w.color(textColor)
		w.pdf.SetFont("Helvetica", "", 11)
		w.pdf.MultiCell(width, 6, w.tr("Attn: "+w.doc.Client.PreparedFor), "", "L", false)
	}

	w.pdf.SetAutoPageBreak(true, pageMargin)
}

func (w *pdfWriter) footer() {
	if w.onCover {
		return
	}
	w.pdf.SetY(-footerHeight)
	w.draw(lineColor)
	w.pdf.Line(pageMargin, pageHeight-footerHeight, pageWidth-pageMargin, pageHeight-footerHeight)
	w.color(lightColor)
	w.pdf.SetFont("Helvetica", "", 8)
	half := (pageWidth - 2*pageMargin) / 2
	w.pdf.CellFormat(half, footerHeight, w.tr(w.doc.Branding.ProjectTagline), "", 0, "L", false, 0, "")
	w.pdf.CellFormat(half, footerHeight, w.pageLabel(), "", 0, "R", false, 0, "")
}

// pageLabel numbers pages like the HTML preview: the cover is page 1 and
// section i is page i+2.
func (w *pdfWriter) pageLabel() string {
	return fmt.Sprintf("Page %d of %d", w.current+2, w.doc.PageCount())
}

func (w *pdfWriter) section(i int, s proposal.Section, img pdfImage) {
	w.pdf.AddPage()
	w.onCover = false
	w.current = i

	w.color(headColor)
	w.pdf.SetFont("Helvetica", "B", 20)
	w.pdf.MultiCell(0, 10, w.tr(s.Title()), "", "L", false)
	y := w.pdf.GetY() + 2
	w.draw(lineColor)
	w.pdf.SetLineWidth(0.3)
	w.pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
	w.fill(w.brand)
	w.pdf.Rect(pageMargin, y-0.5, 16, 1, "F")
	w.pdf.SetY(y + 8)

	switch v := s.(type) {
	case proposal.ExecutiveSummarySection:
		w.prose(v.Content)
		w.pullQuote(v.PullQuote)
	case proposal.InvestmentSection:
		w.investment(v.Items)
	case proposal.TimelineSection:
		w.timeline(v.Items)
	case proposal.MockupSection:
		w.prose(v.Content)
		w.mockup(fmt.Sprintf("mockup-%d", i), img)
	case proposal.TextSection:
		w.prose(v.Content)
	}
}

var (
	paragraphBreak = regexp.MustCompile(`(?i)</p>\s*|<br\s*/?>`)
	blockTags      = regexp.MustCompile(`(?i)</?(p|div|ul|ol|h[1-6])[^>]*>`)
	listItem       = regexp.MustCompile(`(?i)<li[^>]*>`)
	strongTags     = regexp.MustCompile(`(?i)<(/?)strong>`)
	emTags         = regexp.MustCompile(`(?i)<(/?)em>`)
	entities       = strings.NewReplacer("&amp;", "&", "&quot;", `"`, "&#34;", `"`, "&#39;", "'", "&nbsp;", " ")
)

// prose writes section HTML using gofpdf's basic HTML support, which knows
// inline tags only; block tags are reduced to line breaks.
func (w *pdfWriter) prose(content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	s := string(render.Content(content))
	s = listItem.ReplaceAllString(s, "<br>- ")
	s = strings.ReplaceAll(s, "</li>", "")
	s = paragraphBreak.ReplaceAllString(s, "<br><br>")
	s = blockTags.ReplaceAllString(s, "")
	s = strongTags.ReplaceAllString(s, "<${1}b>")
	s = emTags.ReplaceAllString(s, "<${1}i>")
	s = strings.TrimSuffix(strings.TrimSpace(s), "<br><br>")
	s = entities.Replace(s)

	w.color(textColor)
	w.pdf.SetFont("Times", "", 11)
	html := w.pdf.HTMLBasicNew()
	html.Write(5.5, w.tr(s))
	w.pdf.Ln(8)
}

func (w *pdfWriter) pullQuote(quote string) {
	if quote == "" {
		return
	}
	y := w.pdf.GetY()
	w.pdf.SetX(pageMargin + 6)
	w.color(textColor)
	w.pdf.SetFont("Times", "I", 14)
	w.pdf.MultiCell(pageWidth-2*pageMargin-10, 7, w.tr("“"+quote+"”"), "", "L", false)
	w.fill(w.brand)
	w.pdf.Rect(pageMargin, y, 1.5, w.pdf.GetY()-y, "F")
	w.pdf.Ln(6)
}

func (w *pdfWriter) investment(items []proposal.InvestmentItem) {
	width := pageWidth - 2*pageMargin
	cols := []float64{width * 0.3, width * 0.48, width * 0.22}

	w.fill(render.RGB{R: 248, G: 250, B: 252})
	w.draw(lineColor)
	w.color(lightColor)
	w.pdf.SetFont("Helvetica", "B", 8)
	w.pdf.CellFormat(cols[0], 9, "ITEM", "B", 0, "L", true, 0, "")
	w.pdf.CellFormat(cols[1], 9, "DESCRIPTION", "B", 0, "L", true, 0, "")
	w.pdf.CellFormat(cols[2], 9, "COST", "B", 1, "R", true, 0, "")

	for _, it := range items {
		w.pdf.SetFont("Helvetica", "", 9)
		lines := w.pdf.SplitLines([]byte(w.tr(it.Description)), cols[1]-2)
		h := float64(len(lines))*5 + 4
		if h < 9 {
			h = 9
		}
		x, y := w.pdf.GetX(), w.pdf.GetY()
		if y+h > pageHeight-pageMargin {
			w.pdf.AddPage()
			x, y = w.pdf.GetX(), w.pdf.GetY()
		}

		w.color(headColor)
		w.pdf.SetFont("Helvetica", "B", 9)
		w.pdf.MultiCell(cols[0], 5, w.tr(it.Item), "", "L", false)

		w.pdf.SetXY(x+cols[0], y)
		w.color(textColor)
		w.pdf.SetFont("Helvetica", "", 9)
		w.pdf.MultiCell(cols[1], 5, w.tr(it.Description), "", "L", false)

		w.pdf.SetXY(x+cols[0]+cols[1], y)
		w.color(headColor)
		w.pdf.SetFont("Courier", "", 9)
		w.pdf.CellFormat(cols[2], 5, w.tr(it.Cost), "", 0, "R", false, 0, "")

		w.pdf.Line(x, y+h, x+width, y+h)
		w.pdf.SetXY(x, y+h)
	}
	w.pdf.Ln(6)
}

func (w *pdfWriter) timeline(items []proposal.Milestone) {
	lineX := pageMargin + 4
	textX := pageMargin + 14
	width := pageWidth - textX - pageMargin

	for i, m := range items {
		if w.pdf.GetY() > pageHeight-pageMargin-30 {
			w.pdf.AddPage()
		}
		top := w.pdf.GetY()

		w.pdf.SetX(textX)
		w.color(w.brand)
		w.pdf.SetFont("Helvetica", "B", 12)
		w.pdf.MultiCell(width, 6, w.tr(m.Phase), "", "L", false)
		w.pdf.SetX(textX)
		w.color(lightColor)
		w.pdf.SetFont("Helvetica", "", 9)
		w.pdf.MultiCell(width, 5, w.tr("("+m.Duration+")"), "", "L", false)
		w.pdf.SetX(textX)
		w.color(textColor)
		w.pdf.SetFont("Times", "", 11)
		w.pdf.MultiCell(width, 5.5, w.tr(m.Description), "", "L", false)
		bottom := w.pdf.GetY() + 8

		if i < len(items)-1 {
			w.draw(lineColor)
			w.pdf.SetLineWidth(0.6)
			w.pdf.Line(lineX, top+3, lineX, bottom+3)
		}
		w.draw(w.brand)
		w.fill(paperColor)
		w.pdf.SetLineWidth(0.5)
		w.pdf.Circle(lineX, top+3, 3, "FD")
		w.fill(w.brand)
		w.pdf.Circle(lineX, top+3, 1.8, "F")

		w.pdf.SetY(bottom)
	}
}

func (w *pdfWriter) mockup(name string, img pdfImage) {
	width := pageWidth - 2*pageMargin - 20
	height := width * 9 / 16
	x := pageMargin + 10
	if w.pdf.GetY()+height+16 > pageHeight-pageMargin {
		w.pdf.AddPage()
	}
	y := w.pdf.GetY() + 4

	w.fill(render.RGB{R: 30, G: 41, B: 59})
	w.pdf.Rect(x-3, y-3, width+6, height+6, "F")

	embedded := false
	if img.data != nil {
		opts := gofpdf.ImageOptions{ImageType: img.imageType}
		w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.data))
		if w.pdf.Err() {
			// gofpdf errors are sticky; drop this image and keep the document.
			log.Printf("WARN: PDF renderer rejected image %s: %v", name, w.pdf.Error())
			w.pdf.ClearError()
			w.failed++
		} else {
			w.pdf.ImageOptions(name, x, y, width, height, false, opts, 0, "")
			embedded = true
		}
	}
	if !embedded {
		w.fill(lineColor)
		w.pdf.Rect(x, y, width, height, "F")
		w.color(render.RGB{R: 148, G: 163, B: 184})
		w.pdf.SetFont("Helvetica", "", 11)
		w.pdf.SetXY(x, y+height/2-3)
		w.pdf.CellFormat(width, 6, "Mockup image unavailable", "", 0, "C", false, 0, "")
	}

	w.fill(render.RGB{R: 51, G: 65, B: 85})
	w.pdf.Rect(x-10, y+height+3, width+20, 5, "F")
	w.pdf.SetY(y + height + 14)
}
