package render

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

var detectDarkMode = darkmode.IsDarkMode

// Palette holds the lane accent styles and the ref badge styles for one
// theme. Accents cycle per lane color index.
type Palette struct {
	Dark    bool
	Accents []lipgloss.Style

	head   lipgloss.Style
	tag    lipgloss.Style
	remote lipgloss.Style
	branch lipgloss.Style
}

// Based on gitk's default colors; keep a small, high-contrast palette.
var (
	lightAccents = []string{"#00cc00", "#cc0000", "#0055cc", "#aa00aa", "#555555", "#8b4513", "#ff8c00"}
	darkAccents  = []string{"#00ff00", "#ff5c5c", "#4fa3ff", "#d56bff", "#a0a0a0", "#d09a6b", "#ffb347"}
)

func PaletteFor(pref ThemePreference) Palette {
	switch pref {
	case ThemeDark:
		return newPalette(true)
	case ThemeLight:
		return newPalette(false)
	default:
		if detectDarkMode != nil {
			if dark, err := detectDarkMode(); err == nil {
				if dark {
					return newPalette(true)
				}
			} else {
				slog.Warn("detect dark-mode", slog.Any("error", err))
			}
		}
		return newPalette(false)
	}
}

func newPalette(dark bool) Palette {
	hexes := lightAccents
	headHex, remoteHex, tagHex := "#c9a300", "#2563eb", "#8a8a8a"
	if dark {
		hexes = darkAccents
		headHex, remoteHex, tagHex = "#b58900", "#4fa3ff", "#6b6b6b"
	}
	accents := make([]lipgloss.Style, len(hexes))
	for i, hex := range hexes {
		accents[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return Palette{
		Dark:    dark,
		Accents: accents,
		head:    lipgloss.NewStyle().Foreground(lipgloss.Color(headHex)).Bold(true),
		tag:     lipgloss.NewStyle().Foreground(lipgloss.Color(tagHex)),
		remote:  lipgloss.NewStyle().Foreground(lipgloss.Color(remoteHex)),
		branch:  accents[0],
	}
}

func (p Palette) accent(colorIdx int) lipgloss.Style {
	if len(p.Accents) == 0 {
		return lipgloss.NewStyle()
	}
	if colorIdx < 0 {
		colorIdx = 0
	}
	return p.Accents[colorIdx%len(p.Accents)]
}

func (p Palette) badgeStyle(label string) lipgloss.Style {
	switch {
	case strings.HasPrefix(label, "HEAD"):
		return p.head
	case strings.HasPrefix(strings.ToLower(label), "tag:"):
		return p.tag
	case strings.Contains(label, "/"):
		return p.remote
	default:
		return p.branch
	}
}
