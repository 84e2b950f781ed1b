// Package discovery finds conventional version sources when none are
// configured and expands glob patterns in configured input and update paths.
package discovery
