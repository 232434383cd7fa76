// Package app provides the orchestration layer for buddyctl.
//
// # Overview
//
// This package wires configuration, the Buddy client, state management and the
// dashboard together. It also holds the multi-step flows that sit above single
// Buddy operations, such as pairing.
//
// # Components
//
//   - host.go: Host, the "open a scope, run, close" seam used by everything else
//   - pairing.go: StartPairing and AbortPairing
//   - poller.go: Background goroutine that fetches host info and power state
//   - app.go: Run for `buddyctl watch` and the dashboard controller
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Validate config, build host
//	└──────┬───────┘
//	       │
//	       ├─────> NewHost()           One buddy scope per Do
//	       ├─────> state.Store{}       Shared state container
//	       ├─────> StartPoller()       Launch background updates
//	       └─────> ui.Run()            Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> host.Do(                           │
//	│  │     HostInfo()                       │
//	│  │     PcState())                       │
//	│  └─> store.Update()  (atomic)           │
//	└─────────────────────────────────────────┘
//
// Each poll enters a fresh scope, so a failed or timed out poll never leaves
// a session behind. Errors are logged and recorded in the store; polling
// continues. Two consecutive failures mark the host offline.
//
// # Pairing
//
// StartPairing mirrors the MoonDeck handshake:
//
//  1. An empty client id yields NoClientId without contacting Buddy
//  2. GET /apiVersion; a version other than the supported one yields VersionMismatch
//  3. GET /pairingState/{id}; Paired yields AlreadyPaired, Pairing yields Pairing
//  4. POST /pair; a true result yields PairingStarted
//
// Transport failures map to Offline. Everything else, including a false
// result, maps to Failed with the cause returned alongside.
//
// # Dashboard Actions
//
// Key actions (end stream, close Steam, restore resolution) go through the
// same Host and trigger an immediate refresh so the screen reflects the change
// without waiting for the next tick.
package app
