package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"proposal_ai_server/internal/ai/prompts"
	"proposal_ai_server/internal/ai/utils"
	"proposal_ai_server/internal/proposal"

	"github.com/sourcegraph/conc/pool"
)

// ErrEmptyInput is returned before any model call when the notes are blank.
var ErrEmptyInput = errors.New("project notes are empty")

// TextGenerator produces the raw proposal reply for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces one image reference for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Report summarises the image step of one generation.
type Report struct {
	ImagesRequested int `json:"imagesRequested"`
	ImagesGenerated int `json:"imagesGenerated"`
	ImagesFailed    int `json:"imagesFailed"`
}

// Orchestrator runs one text generation followed by the mockup images.
type Orchestrator struct {
	text  TextGenerator
	image ImageGenerator
	now   func() time.Time
}

func New(text TextGenerator, image ImageGenerator) *Orchestrator {
	return &Orchestrator{text: text, image: image, now: time.Now}
}

// imageOutcome is the result of one image task, keyed by section index.
type imageOutcome struct {
	index int
	url   string
	err   error
}

// Generate turns notes into a finished proposal. A failure of the text step
// aborts everything; a failed image only leaves its own section without a
// picture.
func (o *Orchestrator) Generate(ctx context.Context, notes string) (*proposal.Document, Report, error) {
	var report Report
	if strings.TrimSpace(notes) == "" {
		return nil, report, ErrEmptyInput
	}

	prompt := prompts.GetProposalPrompt(notes, o.now())
	reply, err := o.text.GenerateText(ctx, prompt)
	if err != nil {
		return nil, report, fmt.Errorf("text generation failed: %w", err)
	}

	doc, err := proposal.Decode([]byte(utils.CleanJSONOutput(reply)))
	if err != nil {
		log.Printf("Failed to parse proposal reply: %v. Cleaned output: %.500s", err, utils.CleanJSONOutput(reply))
		return nil, report, fmt.Errorf("failed to parse proposal JSON: %w", err)
	}
	log.Printf("Parsed proposal %q: %d sections, theme %s", doc.Title, len(doc.Sections), doc.Theme)

	indexes := doc.MockupIndexes()
	report.ImagesRequested = len(indexes)
	if len(indexes) == 0 {
		return doc, report, nil
	}

	// Indexes are captured here and the section slice is not reordered
	// before the patch-back below.
	p := pool.NewWithResults[imageOutcome]()
	for _, i := range indexes {
		prompt := doc.Sections[i].(proposal.MockupSection).ImagePrompt
		p.Go(func() imageOutcome {
			url, err := o.image.GenerateImage(ctx, prompt)
			if err == nil && url == "" {
				err = errors.New("empty image reference")
			}
			return imageOutcome{index: i, url: url, err: err}
		})
	}

	for _, out := range p.Wait() {
		if out.err != nil {
			log.Printf("WARN: Failed to generate image for section %d: %v", out.index, out.err)
			report.ImagesFailed++
			continue
		}
		patched, ok := doc.WithMockupImage(out.index, out.url)
		if !ok {
			log.Printf("WARN: Section %d is no longer a mockup; dropping its image.", out.index)
			report.ImagesFailed++
			continue
		}
		doc = patched
		report.ImagesGenerated++
	}

	log.Printf("Image step for %q: %d requested, %d generated, %d failed", doc.Title, report.ImagesRequested, report.ImagesGenerated, report.ImagesFailed)
	return doc, report, nil
}
