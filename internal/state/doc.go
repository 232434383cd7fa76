// Package state provides thread-safe state management for buddyctl's watch
// dashboard.
//
// # Overview
//
// Store is the coordination point between the background poller, which asks
// Buddy for host info and power state, and the UI, which renders whatever was
// seen last.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ HostInfo()     │            │                 │
//	│ PcState()      │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	└────────────────┘  (mutex)   └─────────────────┘
//
// # Update Semantics
//
// A successful poll replaces the host info and power state and resets the
// failure counter. A failed poll keeps the previous data, records the error
// and increments ConsecutiveFailures. Two or more consecutive failures mark
// the host offline.
//
// Snapshots are copies. The optional updating app id pointer and the error
// are cloned so the UI never shares memory with the poller.
//
// The zero Store is ready to use.
package state
