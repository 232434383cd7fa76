// Package ui provides the Bubble Tea dashboard behind `buddyctl watch`.
//
// The dashboard renders the latest state.Snapshot (power state, stream state,
// Steam status) next to an on-demand list of gamestream app names, plus the
// tail of the activity log. Host actions run through a Controller so the UI
// never touches a Buddy session directly.
//
// Keys: x end stream, s close Steam, z restore resolution, a load app names,
// r refresh, T cycle theme, ? help, q quit. Only one host action runs at a
// time; keys pressed while one is in flight are ignored.
package ui
