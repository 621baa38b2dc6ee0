// Package app contains the core application logic. It wires the block
// registry, the workspace loader and the session together and exposes the
// operations the CLI runs, decoupled from any specific entrypoint.
package app
