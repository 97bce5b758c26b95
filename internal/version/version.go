// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Solver runner, solution store watcher, terminal viewer
// 0.2.0 - Label layout engine, overlap index, catalog matching
// 0.1.0 - Initial release: WCS reader, pixel/sky projection, annotate command
