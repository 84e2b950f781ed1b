package initialize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/indaco/stamp/internal/config"
)

// Template is a ready-made configuration for a common project layout.
type Template struct {
	Name        string
	Description string

	Inputs       []config.InputSource
	Updates      []config.UpdateTarget
	AutoIncrease bool
}

func intPtr(n int) *int { return &n }

// AllTemplates returns all available templates.
func AllTemplates() []Template {
	return []Template{
		{
			Name:        "changelog",
			Description: "Read the newest changelog entry and stamp it into every project file",
			Inputs:      []config.InputSource{{Path: "changelog.md"}},
			Updates:     []config.UpdateTarget{{Path: "**/*.csproj"}},
		},
		{
			Name:         "assembly-info",
			Description:  "Bump the revision in Properties/AssemblyInfo.cs on every build",
			Inputs:       []config.InputSource{{Path: "Properties/AssemblyInfo.cs", Max: intPtr(2)}},
			Updates:      []config.UpdateTarget{{Path: "Properties/AssemblyInfo.cs", Max: intPtr(2)}},
			AutoIncrease: true,
		},
		{
			Name:        "version-file",
			Description: "Keep a plain VERSION file as the source and update package.json",
			Inputs:      []config.InputSource{{Path: "VERSION"}},
			Updates: []config.UpdateTarget{{
				Path:         "package.json",
				Regex:        `"version":\s*"(?P<version>\d+(?:\.\d+){2,3})(?P<suffix>[0-9A-Za-z-]*)"`,
				Replacement:  `"version": "{version}{suffix}"`,
				DropRevision: config.DropRevisionAlways,
			}},
		},
	}
}

// TemplateNames returns the names of all available templates.
func TemplateNames() []string {
	templates := AllTemplates()
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return names
}

// GetTemplate returns the template with the given name, or an error if not found.
func GetTemplate(name string) (*Template, error) {
	for _, t := range AllTemplates() {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(TemplateNames(), ", "))
}

// IsValidTemplate checks if the given name is a valid template.
func IsValidTemplate(name string) bool {
	return slices.Contains(TemplateNames(), name)
}

// Apply writes the template into cfg.
func (t *Template) Apply(cfg *config.Config) {
	cfg.InputFile = ""
	cfg.InputFiles = slices.Clone(t.Inputs)
	cfg.UpdateFiles = slices.Clone(t.Updates)
	cfg.AutoIncrease = t.AutoIncrease
}
