package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/pattern"
)

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Patterns", "Update Files").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validator validates a loaded configuration.
type Validator struct {
	fs          core.FileSystem
	cfg         *Config
	rootDir     string
	validations []ValidationResult
}

// NewValidator creates a new configuration validator. Relative input and
// update paths are checked for existence against rootDir.
func NewValidator(fs core.FileSystem, cfg *Config, rootDir string) *Validator {
	return &Validator{
		fs:          fs,
		cfg:         cfg,
		rootDir:     rootDir,
		validations: make([]ValidationResult, 0),
	}
}

// Validate runs all validation checks and returns the results.
func (v *Validator) Validate(ctx context.Context) ([]ValidationResult, error) {
	v.validations = make([]ValidationResult, 0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.validateDefaults()
	v.validateInputs(ctx)
	v.validateUpdates(ctx)

	return v.validations, nil
}

// ValidateRules runs only the checks that do not touch the filesystem.
// The engine uses it to reject a bad configuration before any file is read.
func ValidateRules(cfg *Config) []ValidationResult {
	v := &Validator{cfg: cfg}
	v.validateDefaults()
	for i, src := range cfg.Sources() {
		v.validateInputRules(i, src)
	}
	for i, target := range cfg.UpdateFiles {
		v.validateUpdateRules(i, target)
	}
	return v.validations
}

func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

func (v *Validator) validateDefaults() {
	d := v.cfg.Defaults
	v.checkPattern("Defaults", "regex-input", d.RegexInput)
	v.checkPattern("Defaults", "regex-output", d.RegexOutput)
	v.checkReplacement("Defaults", "regex-replace", d.RegexReplace)

	if !d.DropRevision.IsValid() {
		v.addValidation("Defaults", false, fmt.Sprintf("drop-revision %q is not one of keep, never, always", d.DropRevision), false)
	}
	if d.MaxMatch < 1 {
		v.addValidation("Defaults", false, fmt.Sprintf("max-match %d is below 1; at least one match is always attempted", d.MaxMatch), true)
	}
}

func (v *Validator) validateInputs(ctx context.Context) {
	sources := v.cfg.Sources()
	if len(sources) == 0 {
		v.addValidation("Input Files", true, "No input files configured; conventional files will be discovered", true)
	}
	for i, src := range sources {
		v.validateInputRules(i, src)
		if strings.TrimSpace(src.Path) != "" {
			v.checkExists(ctx, "Input Files", src.Path)
		}
	}
}

func (v *Validator) validateInputRules(i int, src InputSource) {
	category := "Input Files"
	if strings.TrimSpace(src.Path) == "" {
		v.addValidation(category, false, fmt.Sprintf("input-files[%d] has an empty path", i), false)
		return
	}
	if src.Regex != "" {
		v.checkPattern(category, src.Path+" regex", src.Regex)
	}
	v.checkLimit(category, src.Path, src.MaxMatch, src.Max)
}

func (v *Validator) validateUpdates(ctx context.Context) {
	for i, target := range v.cfg.UpdateFiles {
		v.validateUpdateRules(i, target)
		if strings.TrimSpace(target.Path) != "" {
			v.checkExists(ctx, "Update Files", target.Path)
		}
	}
}

func (v *Validator) validateUpdateRules(i int, target UpdateTarget) {
	category := "Update Files"
	if strings.TrimSpace(target.Path) == "" {
		v.addValidation(category, false, fmt.Sprintf("update-files[%d] has an empty path", i), false)
		return
	}
	if target.Regex != "" {
		v.checkPattern(category, target.Path+" regex", target.Regex)
	}
	if target.Replacement != "" {
		v.checkReplacement(category, target.Path+" replacement", target.Replacement)
	}
	if !target.DropRevision.IsValid() {
		v.addValidation(category, false, fmt.Sprintf("%s: drop-revision %q is not one of keep, never, always", target.Path, target.DropRevision), false)
	}
	v.checkLimit(category, target.Path, target.MaxMatch, target.Max)
}

func (v *Validator) checkPattern(category, name, expr string) {
	if _, err := pattern.Compile(expr); err != nil {
		v.addValidation(category, false, fmt.Sprintf("%s: %v", name, err), false)
		return
	}
	v.addValidation(category, true, fmt.Sprintf("%s compiles", name), false)
}

func (v *Validator) checkReplacement(category, name, tmpl string) {
	if !strings.Contains(tmpl, "{version}") {
		v.addValidation(category, false, fmt.Sprintf("%s %q does not contain {version}", name, tmpl), true)
	}
}

func (v *Validator) checkLimit(category, path string, maxMatch, maxAlias *int) {
	if maxMatch != nil && maxAlias != nil && *maxMatch != *maxAlias {
		v.addValidation(category, false, fmt.Sprintf("%s: both max-match (%d) and max (%d) set; max-match wins", path, *maxMatch, *maxAlias), true)
	}
	if limit, ok := matchLimit(maxMatch, maxAlias); ok && limit < 1 {
		v.addValidation(category, false, fmt.Sprintf("%s: max-match %d is below 1; at least one match is always attempted", path, limit), true)
	}
}

func (v *Validator) checkExists(ctx context.Context, category, path string) {
	full := path
	if !filepath.IsAbs(path) && v.rootDir != "" {
		full = filepath.Join(v.rootDir, path)
	}
	if !core.Exists(ctx, v.fs, full) {
		v.addValidation(category, false, fmt.Sprintf("%s does not exist (it will be skipped)", path), true)
	}
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if !r.Passed && !r.Warning {
			return true
		}
	}
	return false
}

// Errors returns the messages of failed, non-warning validations.
func Errors(results []ValidationResult) []string {
	var msgs []string
	for _, r := range results {
		if !r.Passed && !r.Warning {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warnings.
func WarningCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if r.Warning {
			count++
		}
	}
	return count
}
