// Package core holds the bar chart race model: the table of rows and steps,
// the text codec, ranking, and timer-driven playback.
//
// This package has no UI dependencies. The web server and the terminal UI
// both drive it through Session.
//
// # Model
//
// A [Table] is a list of [Row]s, each holding one value per step label. A
// [Store] pairs a table with the current step index and enforces the shape
// invariant on every edit: a row that doesn't have exactly one value per step
// is rejected and nothing changes.
//
// # Ranking
//
// [Rank] is a pure function of (Table, step). It sorts rows by descending
// value with a stable sort, so equal values keep their table order and bars
// don't swap back and forth during playback. Colours come from [Palette] by
// table position, not by rank.
//
// # Playback
//
// [Playback] is a two-state machine (Stopped, Playing) that owns one [Timer].
// It never loops: reaching the last step stops it. Every stop cancels the
// timer and bumps a generation counter so a tick already in flight is
// dropped.
//
// # Sessions
//
// [Session] wraps a Store and a Playback behind one mutex and publishes a
// [Frame] to subscribers on every change. [Service] keeps sessions by id and
// sweeps idle ones.
//
// # Error Handling
//
// Failures are sentinel errors wrapped with context (check with errors.Is).
// [MapError] turns them into user messages with support codes:
//
//   - EDT001-EDT003: editing errors
//   - IMP001-IMP006: import errors
//   - SES001-SES004: session errors
package core
