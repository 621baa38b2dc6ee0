// Package session ties one workspace to its instance directory, validation
// engine and code generator.
//
// A Session subscribes to its workspace and routes every edit event: config
// blocks are registered in and removed from the directory, and the usage and
// configuration blocks of the affected component kind are revalidated. Loading a workspace is a
// full reset: the graph is rebuilt and the directory is produced by a
// rescan rather than by replaying events.
//
// Sessions are not safe for concurrent use. Edits are serialized by the
// caller, as an editing surface would.
package session
