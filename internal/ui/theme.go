package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Theme defines the colors used for terminal messages.
type Theme struct {
	Name string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Plain reports whether the theme renders without any color.
func (t Theme) Plain() bool {
	return t.Name == ThemePlain
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	if t.Plain() {
		plain := lipgloss.NewStyle()
		return Styles{
			Text:        plain,
			MutedText:   plain,
			WarningText: plain,
			DangerText:  plain,
			Path:        plain,
			theme:       t,
		}
	}
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Path: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Underline(true),

		theme: t,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	Path        lipgloss.Style

	theme Theme
}

// Theme returns the theme the styles were built from.
func (s Styles) Theme() Theme {
	return s.theme
}

// Theme names accepted by GetTheme and Resolve.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemePlain = "plain"
)

var themes = map[string]Theme{
	ThemeDark:  darkTheme(),
	ThemeLight: lightTheme(),
	ThemePlain: {Name: ThemePlain},
}

// GetTheme returns a theme by name, defaulting to dark.
func GetTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return darkTheme()
}

// Resolve picks the theme for messages written to w. Anything that is not a
// terminal gets the plain theme, as does NO_COLOR. "auto" follows the
// terminal background.
func Resolve(name string, w io.Writer) Theme {
	if !IsTerminal(w) || os.Getenv("NO_COLOR") != "" {
		return GetTheme(ThemePlain)
	}
	if strings.EqualFold(strings.TrimSpace(name), ThemeAuto) {
		if lipgloss.HasDarkBackground() {
			return darkTheme()
		}
		return lightTheme()
	}
	return GetTheme(name)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func darkTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name:    ThemeDark,
		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
	}
}

func lightTheme() Theme {
	// Dayfox palette, the light sibling of Nightfox
	return Theme{
		Name:    ThemeLight,
		Text:    "#3d2b5a", // fg1
		Muted:   "#837a72", // comment
		Accent:  "#2848a9", // blue
		Success: "#396847", // green
		Warning: "#ac5402", // yellow
		Danger:  "#a5222f", // red
	}
}
