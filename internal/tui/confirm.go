package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrNotInteractive is returned when a prompt is requested without a terminal.
var ErrNotInteractive = errors.New("confirmation requires an interactive terminal")

// IsInteractiveFn and RunFormFn are variables so tests can substitute them.
var (
	IsInteractiveFn = IsInteractive
	RunFormFn       = func(f *huh.Form) error { return f.Run() }
)

// Confirm asks a yes/no question. Aborting the prompt counts as "no".
func Confirm(title, description string) (bool, error) {
	if !IsInteractiveFn() {
		return false, ErrNotInteractive
	}

	var ok bool
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)

	form := huh.NewForm(huh.NewGroup(field)).WithTheme(currentThemeOrDefault())
	if err := RunFormFn(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}
