// Package buddy provides a typed client for the Buddy host companion service.
//
// # Overview
//
// Buddy runs on the gaming PC and exposes host control over HTTPS: pairing,
// power state changes, resolution changes, and Steam and gamestream session
// control. This package maps every Buddy endpoint onto a Go method, sends a
// JSON body where the endpoint takes one, and coerces the JSON response into a
// fixed record type.
//
// # Architecture
//
//   - scope.go: Config, Scope and Session lifetime (pinned TLS, auth header)
//   - client.go: one method per endpoint plus the request primitive
//   - coerce.go: schema-validated decoding into response records
//   - types.go: enums with their wire ordinals and the response records
//   - errors.go: ConnectionError, TransportError, ProtocolError, DecodeError
//   - metrics.go: optional Prometheus collectors
//
// # Sessions
//
// A Scope owns at most one live Session. Enter loads the pinned certificate
// and builds the transport; Exit closes it. Do pairs the two so the
// transport is released on every path:
//
//	scope := buddy.NewScope(cfg, certPath, buddy.WithLogger(log.Logger))
//	err := scope.Do(ctx, func(ctx context.Context, s *buddy.Session) error {
//		info, err := s.HostInfo(ctx)
//		if err != nil {
//			return err
//		}
//		fmt.Println(info.StreamState)
//		return nil
//	})
//
// Calls on a closed Session fail immediately with ErrSessionClosed.
//
// # Endpoints
//
//	GET  /apiVersion              APIVersion
//	GET  /pairingState/{clientId} PairingState
//	POST /pair                    StartPairing
//	POST /abortPairing            AbortPairing
//	POST /launchSteamApp          LaunchSteamApp
//	POST /closeSteam              CloseSteam
//	GET  /pcState                 PcState
//	POST /changePcState           ChangePcState
//	POST /changeResolution        ChangeResolution
//	POST /restoreResolution       RestoreResolution
//	GET  /hostInfo                HostInfo
//	POST /endStream               EndStream
//	GET  /gamestreamAppNames      GamestreamAppNames
//
// Request fields are snake_case and response fields camelCase on the wire.
// Inputs are passed through as given; Buddy is the authority on validity.
//
// # Authentication
//
// Every request carries "Authorization: basic <base64(clientId)>". Despite
// the scheme name this is a single opaque token, not username:password.
// The pairing request's hashed_id is likewise plain base64 of the client id
// followed by the decimal pin.
//
// # Error Handling
//
//   - ConnectionError: certificate missing or unreadable, scope misuse,
//     calls after Close
//   - TransportError: network failure or per-request timeout (Timeout set)
//   - ProtocolError: any non-2xx status, with the server's message
//   - DecodeError: body is not JSON or does not match the record
//
// Nothing is retried. Coercion is all-or-nothing: a missing required field
// or an unknown enum member is an error, never a zero value.
package buddy
