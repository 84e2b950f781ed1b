package tui

import (
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ValidThemes is the list of supported theme names.
var ValidThemes = []string{"stamp", "base", "base16", "catppuccin", "charm", "dracula"}

var (
	stampAmberPrimary     = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f59e0b"}
	stampAmberBright      = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
	stampTextStrong       = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"}
	stampTextNormal       = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
	stampTextMuted        = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	stampBorderFocused    = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#f59e0b"}
	stampButtonBg         = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f59e0b"}
	stampButtonBgBlurred  = lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#374151"}
	stampButtonText       = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#111827"}
	stampButtonTextMuted  = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
	stampErrorForeground  = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	stampHelpKeyColor     = lipgloss.AdaptiveColor{Light: "#92400e", Dark: "#fcd34d"}
	stampHelpSepColor     = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#4b5563"}
	stampHelpDescColor    = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	stampDescriptionColor = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
)

// currentTheme holds the configured theme. nil means stampTheme.
var currentTheme *huh.Theme

// IsValidTheme returns true if the given theme name is valid.
func IsValidTheme(name string) bool {
	return slices.Contains(ValidThemes, name)
}

// SetTheme sets the current theme by name. Empty or unknown names select
// the stamp theme.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
	if name == "stamp" {
		currentTheme = nil
	}
}

// GetTheme returns the huh.Theme for the given theme name, or nil.
func GetTheme(name string) *huh.Theme {
	switch name {
	case "stamp":
		return stampTheme()
	case "base":
		return huh.ThemeBase()
	case "base16":
		return huh.ThemeBase16()
	case "catppuccin":
		return huh.ThemeCatppuccin()
	case "charm":
		return huh.ThemeCharm()
	case "dracula":
		return huh.ThemeDracula()
	default:
		return nil
	}
}

func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return stampTheme()
	}
	return currentTheme
}

// stampTheme builds the default prompt theme on top of huh.ThemeBase.
func stampTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(stampBorderFocused)
	t.Focused.Title = t.Focused.Title.Foreground(stampAmberPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(stampDescriptionColor)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(stampErrorForeground)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(stampErrorForeground)
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(stampButtonText).
		Background(stampButtonBg)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(stampButtonTextMuted).
		Background(stampButtonBgBlurred)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(stampAmberBright)
	t.Focused.TextInput.Text = t.Focused.TextInput.Text.Foreground(stampTextStrong)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(stampTextMuted)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = t.Blurred.Title.Foreground(stampTextNormal).Bold(false)

	t.Help.ShortKey = lipgloss.NewStyle().Foreground(stampHelpKeyColor)
	t.Help.ShortDesc = lipgloss.NewStyle().Foreground(stampHelpDescColor)
	t.Help.ShortSeparator = lipgloss.NewStyle().Foreground(stampHelpSepColor)
	t.Help.FullKey = t.Help.ShortKey
	t.Help.FullDesc = t.Help.ShortDesc
	t.Help.FullSeparator = t.Help.ShortSeparator

	return t
}
