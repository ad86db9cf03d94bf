package prompts

import (
	"fmt"
	"time"
)

const ProposalSystemPrompt = `You are an expert business proposal writer. You answer with a single valid JSON object and nothing else.`

// GetProposalPrompt embeds the user's notes and today's date into the
// proposal-writing instructions.
func GetProposalPrompt(notes string, today time.Time) string {
	return fmt.Sprintf(proposalPromptTemplate, notes, today.Format("January 2, 2006"))
}

const proposalPromptTemplate = `
		You are a business proposal writer and analyst with twenty years of experience.
		Work **only** from the unstructured project details below.

		1.  **Analyze & Extract**: identify the project's title and the client's company name.
		2.  **Determine Theme**: choose exactly one of 'CORPORATE_FORMAL', 'TECH_MODERN', 'CREATIVE_VIBRANT', 'ACADEMIC_CLASSIC'.
		3.  **Generate**: write a comprehensive, detailed proposal as one JSON object.

		**UNSTRUCTURED PROJECT DETAILS:**
		---
		%s
		---

		**THEME GUIDELINES:**
		*   'CORPORATE_FORMAL': law, finance, government, traditional business. Solemn, reserved, authoritative.
		*   'TECH_MODERN': software, AI, IT services, startups. Innovative, efficient, clear.
		*   'CREATIVE_VIBRANT': design, marketing, media, video. Energetic, bold, confident.
		*   'ACADEMIC_CLASSIC': training, education, research, non-profits. Scholarly, trustworthy, formal.

		**RULES:**
		1.  **Length**: 8-12 fully developed sections. Text sections carry at least 300 words.
		2.  **Client**: use "%s" as the date. Put a named contact person, if the notes mention one, in 'preparedFor'; otherwise use null.
		3.  **Branding**: 'projectTagline' is a short tagline in the theme's tone; 'companyLogoText' is a short stylised client name such as "ACME CORP".
		4.  **Voice**: impersonal third person only. Never use "I", "we", "you" or "your"; refer to the client by company name.
		5.  **Restrictions**: no marketing language, buzzwords, ROI calculations, exclamation marks or "Next Steps" sections. Do not invent technologies or team members.
		6.  **HTML**: every 'content' value is an HTML string such as "<p>First.</p><p>Second.</p>". No markdown, no newlines.
		7.  **Section shapes**:
			*   "Executive Summary": 'heading', 'pullQuote' (one sentence) and 'content' (3-4 paragraphs).
			*   "Investment" (or "Pricing", "Budget"): 'heading' and 'items', an array of {"item", "description", "cost"} with 3-5 entries.
			*   "Project Timeline & Milestones" (or "Schedule", "Timeline"): 'heading' and 'items', an array of {"phase", "description", "duration"} with 4-5 entries.
			*   Visual mockups: when the project has a visual deliverable (application, website, dashboard, report layout) include 2 to 4 sections with 'heading' (e.g. "Solution Preview", "Dashboard Mockup"), 'content' (1-2 paragraphs describing the view) and 'mockupImagePrompt'. All mockup prompts describe different views of the **same** product in one consistent visual style and are detailed enough for an image model.
			*   Every other section: 'heading' and 'content' only.

		Respond with a JSON object in the following format:

		` + "```json" + `
		{
		"title": "...",
		"client": { "companyName": "...", "preparedFor": "..." },
		"date": "...",
		"branding": { "companyLogoText": "...", "projectTagline": "..." },
		"theme": "TECH_MODERN",
		"sections": [
			{ "heading": "Executive Summary", "pullQuote": "...", "content": "<p>...</p>" },
			{ "heading": "Scope of Work", "content": "<p>...</p>" },
			{ "heading": "Investment", "items": [ { "item": "...", "description": "...", "cost": "..." } ] }
		]
		}
		` + "```" + `

		Only return the JSON object. No extra explanation.
	`
