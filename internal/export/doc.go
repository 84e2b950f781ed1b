// Package export renders the outputs of a run as text, JSON, YAML, TOML or
// KEY=VALUE lines, for stdout or for an outputs file.
package export
