// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package instance implements the lookup index from a (component kind,
// instance name) pair to the configuration block that declares it.
//
// A Directory belongs to exactly one session. It is a pure function of the
// configuration blocks currently in that session's workspace: Rebuild produces
// the same mapping from a scan of the graph as the incremental Register and
// Unregister calls that replayed the edits did.
package instance
