package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"proposal_ai_server/internal/proposal"
)

func TestPDF(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"https://img.example/ok.png": pngPixel}}
	doc := testDoc(
		proposal.ExecutiveSummarySection{Heading: "Executive Summary", Content: "<p>We will <strong>rebuild</strong> the portal &amp; its API.</p>", PullQuote: "Less waiting."},
		proposal.MockupSection{Heading: "Dashboard", ImagePrompt: "a dashboard", ImageURL: "https://img.example/ok.png"},
		proposal.MockupSection{Heading: "Mobile", ImagePrompt: "a phone app", ImageURL: "https://img.example/gone.png"},
		proposal.MockupSection{Heading: "Pending", ImagePrompt: "a report"},
		proposal.InvestmentSection{Heading: "Investment", Items: []proposal.InvestmentItem{
			{Item: "Discovery", Description: "Workshops and research", Cost: "$5,000"},
			{Item: "Build", Description: "Engineering", Cost: "$25,000"},
		}},
		proposal.TimelineSection{Heading: "Project Timeline & Milestones", Items: []proposal.Milestone{
			{Phase: "Discovery", Duration: "2 weeks", Description: "Research"},
			{Phase: "Build", Duration: "6 weeks", Description: "Delivery"},
		}},
	)

	res, err := New(fetcher).PDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", res.Data[:min(len(res.Data), 16)])
	}
	if got, want := bytes.Count(res.Data, []byte("<</Type /Page\n")), doc.PageCount(); got != want {
		t.Errorf("expected %d pages, got %d", want, got)
	}
	if res.Embedded != 1 || res.Failed != 1 {
		t.Errorf("expected 1 embedded and 1 failed image, got %d/%d", res.Embedded, res.Failed)
	}
	if res.Filename != "Client_Portal_Phase_12.pdf" || res.ContentType != "application/pdf" {
		t.Errorf("unexpected file metadata %q %q", res.Filename, res.ContentType)
	}
}

func TestPDFSkipsUnsupportedImages(t *testing.T) {
	svg := "data:image/svg+xml;base64,PHN2Zy8+"
	doc := testDoc(proposal.MockupSection{Heading: "Preview", ImagePrompt: "x", ImageURL: svg})

	res, err := New(NewHTTPFetcher(0)).PDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if res.Embedded != 0 || res.Failed != 1 {
		t.Errorf("expected the svg to fall back to a placeholder, got %d/%d", res.Embedded, res.Failed)
	}
}

func TestPDFSurvivesBrokenImage(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://img.example/truncated.png": pngPixel[:20],
		"https://img.example/cut.png":       pngPixel[:45], // header intact, image data cut short
		"https://img.example/ok.png":        pngPixel,
	}}
	doc := testDoc(
		proposal.MockupSection{Heading: "Broken", ImagePrompt: "x", ImageURL: "https://img.example/truncated.png"},
		proposal.MockupSection{Heading: "Cut", ImagePrompt: "z", ImageURL: "https://img.example/cut.png"},
		proposal.MockupSection{Heading: "Fine", ImagePrompt: "y", ImageURL: "https://img.example/ok.png"},
	)

	res, err := New(fetcher).PDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("a broken image should not fail the document: %v", err)
	}
	if res.Embedded != 1 || res.Failed != 2 {
		t.Errorf("expected 1 embedded and 2 failed images, got %d/%d", res.Embedded, res.Failed)
	}
	if got, want := bytes.Count(res.Data, []byte("<</Type /Page\n")), doc.PageCount(); got != want {
		t.Errorf("expected %d pages, got %d", want, got)
	}
}

func TestPDFFooterNumbersBySection(t *testing.T) {
	long := strings.Repeat("<p>"+strings.Repeat("The portal replaces three legacy intake forms. ", 12)+"</p>", 30)
	doc := testDoc(
		proposal.TextSection{Heading: "Scope", Content: long},
		proposal.TextSection{Heading: "Next", Content: "<p>Short.</p>"},
	)

	res, err := New(&fakeFetcher{}).renderPDF(context.Background(), doc, false)
	if err != nil {
		t.Fatalf("renderPDF failed: %v", err)
	}
	if pages := bytes.Count(res.Data, []byte("<</Type /Page\n")); pages <= doc.PageCount() {
		t.Fatalf("expected the long section to run over, got %d pages", pages)
	}
	if n := bytes.Count(res.Data, []byte("(Page 2 of 3)")); n < 2 {
		t.Errorf("expected every page of the first section to read Page 2 of 3, found %d", n)
	}
	if n := bytes.Count(res.Data, []byte("(Page 3 of 3)")); n != 1 {
		t.Errorf("expected one Page 3 of 3 footer, found %d", n)
	}
	if bytes.Contains(res.Data, []byte("(Page 4 of")) {
		t.Error("footer counted physical pages")
	}
}
