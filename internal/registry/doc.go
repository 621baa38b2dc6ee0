// Package registry provides the central "glue" between block kinds and the
// Go code that implements them.
//
// Every block kind is described by a Descriptor registered at startup by a
// Module. The core never switches on kind strings: it asks the registry for the
// descriptor and discovers what the kind can do through the optional
// capability interfaces (Typed, FieldUpdater, StatementEmitter, ValueEmitter,
// Declarer, Referrer).
package registry
