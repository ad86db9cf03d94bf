package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"proposal_ai_server/internal/ai/utils"
)

// Offline is a stand-in for the model endpoints, used for local runs and
// demos. It never calls the network.
type Offline struct {
	Now func() time.Time
}

// GenerateText returns a small but complete proposal built around the notes.
func (o Offline) GenerateText(_ context.Context, prompt string) (string, error) {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	title := firstLine(prompt, "Project Proposal")
	escaped := html.EscapeString(title)

	reply := map[string]any{
		"title":  title,
		"client": map[string]any{"companyName": "Client Company", "preparedFor": nil},
		"date":   now().Format("January 2, 2006"),
		"branding": map[string]string{
			"companyLogoText": "CLIENT CO",
			"projectTagline":  "A structured plan for " + title,
		},
		"theme": "TECH_MODERN",
		"sections": []map[string]any{
			{"heading": "Executive Summary", "pullQuote": "A clear plan with measurable milestones.", "content": "<p>This proposal outlines " + escaped + ".</p>"},
			{"heading": "Scope of Work", "content": "<p>The scope covers discovery, delivery and handover.</p>"},
			{"heading": "Solution Preview", "content": "<p>The main screen of the delivered product.</p>", "mockupImagePrompt": "A clean dashboard for " + title},
			{"heading": "Investment", "items": []map[string]string{
				{"item": "Discovery", "description": "Stakeholder interviews and planning.", "cost": "$5,000"},
				{"item": "Delivery", "description": "Implementation of the agreed scope.", "cost": "$20,000"},
			}},
			{"heading": "Project Timeline & Milestones", "items": []map[string]string{
				{"phase": "Discovery", "description": "Interviews and requirements.", "duration": "2 weeks"},
				{"phase": "Delivery", "description": "Build and review cycles.", "duration": "6 weeks"},
			}},
		},
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GenerateImage returns an inline SVG placeholder captioned with the prompt.
func (o Offline) GenerateImage(_ context.Context, prompt string) (string, error) {
	caption := html.EscapeString(firstLine(prompt, "Mockup"))
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="576">`+
		`<rect width="100%%" height="100%%" fill="#1e293b"/>`+
		`<text x="50%%" y="50%%" fill="#f1f5f9" font-family="sans-serif" font-size="28" text-anchor="middle">%s</text></svg>`, caption)
	return utils.EncodeDataURL("image/svg+xml", []byte(svg)), nil
}

// firstLine picks the first non-empty line of the notes section of the
// prompt, or of the text itself when there is no notes block.
func firstLine(text, fallback string) string {
	if _, after, ok := strings.Cut(text, "---"); ok {
		if notes, _, ok := strings.Cut(after, "---"); ok {
			text = notes
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > 80 {
			line = strings.TrimSpace(string(r[:80]))
		}
		return line
	}
	return fallback
}
