package render

import (
	"fmt"
	"strconv"
	"strings"

	"proposal_ai_server/internal/proposal"
)

// DefaultTheme is used for missing or unrecognised theme values.
const DefaultTheme = proposal.ThemeTechModern

// Theme is the set of style variables one theme value resolves to.
type Theme struct {
	Name             proposal.Theme
	BrandColor       string
	HeadingFont      string
	BodyFont         string
	CoverSidebarBG   string
	CoverSidebarText string
}

var themes = map[proposal.Theme]Theme{
	proposal.ThemeCorporateFormal: {
		Name:             proposal.ThemeCorporateFormal,
		BrandColor:       "#1e40af",
		HeadingFont:      "'Poppins', sans-serif",
		BodyFont:         "'Lora', serif",
		CoverSidebarBG:   "#1e293b",
		CoverSidebarText: "#f1f5f9",
	},
	proposal.ThemeTechModern: {
		Name:             proposal.ThemeTechModern,
		BrandColor:       "#0d9488",
		HeadingFont:      "'Poppins', sans-serif",
		BodyFont:         "'Lora', serif",
		CoverSidebarBG:   "#18181b",
		CoverSidebarText: "#f4f4f5",
	},
	proposal.ThemeCreativeVibrant: {
		Name:             proposal.ThemeCreativeVibrant,
		BrandColor:       "#be185d",
		HeadingFont:      "'Poppins', sans-serif",
		BodyFont:         "'Lora', serif",
		CoverSidebarBG:   "#581c87",
		CoverSidebarText: "#ffffff",
	},
	proposal.ThemeAcademicClassic: {
		Name:             proposal.ThemeAcademicClassic,
		BrandColor:       "#881337",
		HeadingFont:      "'Poppins', sans-serif",
		BodyFont:         "'Lora', serif",
		CoverSidebarBG:   "#fdf2f8",
		CoverSidebarText: "#881337",
	},
}

// ResolveTheme maps a theme value to its style variables, falling back to
// DefaultTheme.
func ResolveTheme(t proposal.Theme) Theme {
	if th, ok := themes[t]; ok {
		return th
	}
	return themes[DefaultTheme]
}

// CSSVariables renders the theme as custom property declarations for :root.
func (t Theme) CSSVariables() string {
	var b strings.Builder
	for _, v := range [][2]string{
		{"--brand-color", t.BrandColor},
		{"--heading-font", t.HeadingFont},
		{"--body-font", t.BodyFont},
		{"--cover-sidebar-bg", t.CoverSidebarBG},
		{"--cover-sidebar-text", t.CoverSidebarText},
	} {
		fmt.Fprintf(&b, "  %s: %s;\n", v[0], v[1])
	}
	return b.String()
}

// RGB is a colour split into components for the PDF renderer.
type RGB struct{ R, G, B int }

// ParseHex reads "#rrggbb" or "#rgb".
func ParseHex(hex string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// ColorOf is ParseHex for the fixed palette above; bad input yields black.
func ColorOf(hex string) RGB {
	c, _ := ParseHex(hex)
	return c
}
