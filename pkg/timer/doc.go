// Package timer owns the cooking timers and their countdown state.
//
// The Store is the only writer of timer fields. Every mutator and Tick run
// under one mutex, so a tick is observed either completely or not at all.
// Callers only ever see copies (models.Timer values).
//
// # Ticking
//
// Tick advances every active timer by exactly one second. A timer that
// reaches zero is marked inactive within the same tick and is reported once.
// Reported timers are ordered by creation so simultaneous completions have a
// deterministic order.
//
// # Elapsed timers
//
// A timer at zero cannot be started again until it is reset.
package timer
