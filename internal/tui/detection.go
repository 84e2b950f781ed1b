package tui

import (
	"os"

	"golang.org/x/term"
)

// ciEnvs are environment variables whose presence marks a CI run.
var ciEnvs = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"GITLAB_CI",              // GitLab CI
	"TRAVIS",                 // Travis CI
	"JENKINS_HOME",           // Jenkins
	"BUILDKITE",              // Buildkite
	"APPVEYOR",               // AppVeyor
	"TF_BUILD",               // Azure Pipelines
	"TEAMCITY_VERSION",       // TeamCity
}

// IsInteractive determines if the current environment supports interactive prompts.
// It returns false when stdout is not a terminal or when running in CI.
func IsInteractive() bool {
	return IsTTY() && !IsCI(os.Getenv)
}

// IsCI reports whether any known CI variable is set according to getenv.
func IsCI(getenv func(string) string) bool {
	for _, env := range ciEnvs {
		if getenv(env) != "" {
			return true
		}
	}
	return false
}

// IsTTY checks if stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}
