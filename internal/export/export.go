// Package export turns a rendered proposal into standalone files: a
// self-contained HTML document and a printable PDF.
package export

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"strings"

	"proposal_ai_server/internal/ai/utils"
	"proposal_ai_server/internal/proposal"
	"proposal_ai_server/internal/render"
	fileutils "proposal_ai_server/internal/utils"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNoRenderArea = errors.New("rendered document has no render area")

//go:embed export.tmpl
var exportFS embed.FS

var exportTemplate = template.Must(template.ParseFS(exportFS, "export.tmpl"))

// Result is one exported file.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
	Embedded    int // images converted to data URLs
	Failed      int // images left pointing at their original source
}

type Exporter struct {
	fetcher ImageFetcher
}

func New(fetcher ImageFetcher) *Exporter {
	return &Exporter{fetcher: fetcher}
}

// ExportDocument renders doc and exports the result as standalone HTML.
func (e *Exporter) ExportDocument(ctx context.Context, doc *proposal.Document) (*Result, error) {
	rendered, err := render.Document(doc)
	if err != nil {
		return nil, err
	}
	return e.Export(ctx, doc.Title, rendered)
}

// Export builds a standalone HTML document from the rendered render area.
// The input is parsed into a fresh node tree and never modified. Remote
// images are inlined as base64 data URLs; an image that cannot be fetched
// keeps its original src.
func (e *Exporter) Export(ctx context.Context, title string, rendered template.HTML) (*Result, error) {
	nodes, err := html.ParseFragment(strings.NewReader(string(rendered)), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered document: %w", err)
	}

	var area *html.Node
	for _, n := range nodes {
		if area = findByID(n, render.RenderAreaID); area != nil {
			break
		}
	}
	if area == nil {
		return nil, ErrNoRenderArea
	}

	embedded, failed := e.inlineImages(ctx, area)

	var styles strings.Builder
	var content bytes.Buffer
	for c := area.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Style {
			for t := c.FirstChild; t != nil; t = t.NextSibling {
				styles.WriteString(t.Data)
			}
			continue
		}
		if err := html.Render(&content, c); err != nil {
			return nil, fmt.Errorf("failed to serialise rendered document: %w", err)
		}
	}

	var out bytes.Buffer
	err = exportTemplate.ExecuteTemplate(&out, "export", struct {
		Title    string
		FontsURL string
		Styles   template.CSS
		Content  template.HTML
	}{
		Title:    title,
		FontsURL: render.FontsURL,
		Styles:   template.CSS(styles.String()),
		Content:  template.HTML(content.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble export: %w", err)
	}

	log.Printf("Exported %q: %d images embedded, %d left as links", title, embedded, failed)
	return &Result{
		Filename:    fileutils.SanitizeFilename(title, ".html"),
		ContentType: "text/html; charset=utf-8",
		Data:        out.Bytes(),
		Embedded:    embedded,
		Failed:      failed,
	}, nil
}

type inlineOutcome struct {
	img *html.Node
	src string
	url string
	err error
}

// inlineImages fetches every non-data image under root concurrently and
// waits for all of them before rewriting the src attributes.
func (e *Exporter) inlineImages(ctx context.Context, root *html.Node) (embedded, failed int) {
	var imgs []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			imgs = append(imgs, n)
		}
	})

	p := pool.NewWithResults[inlineOutcome]()
	for _, img := range imgs {
		src := attr(img, "src")
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		p.Go(func() inlineOutcome {
			data, contentType, err := e.fetcher.Fetch(ctx, src)
			if err != nil {
				return inlineOutcome{img: img, src: src, err: err}
			}
			mime := fileutils.DetermineImageType(contentType, src, data)
			return inlineOutcome{img: img, src: src, url: utils.EncodeDataURL(mime, data)}
		})
	}

	for _, out := range p.Wait() {
		if out.err != nil {
			log.Printf("WARN: Error converting image %.80s to base64: %v", out.src, out.err)
			failed++
			continue
		}
		setAttr(out.img, "src", out.url)
		embedded++
	}
	return embedded, failed
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found == nil && c.Type == html.ElementNode && attr(c, "id") == id {
			found = c
		}
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
