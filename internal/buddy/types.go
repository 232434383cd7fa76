package buddy

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// PairingState reports whether this client is paired with Buddy.
type PairingState int

const (
	PairingStatePaired    PairingState = 0
	PairingStatePairing   PairingState = 1
	PairingStateNotPaired PairingState = 2
)

// PcState is the power state Buddy observes on the host.
type PcState int

const (
	PcStateNormal       PcState = 0
	PcStateRestarting   PcState = 1
	PcStateShuttingDown PcState = 2
	PcStateSuspending   PcState = 3
)

// PcStateChange is a commanded power transition. It is sent by name.
type PcStateChange int

const (
	PcChangeRestart  PcStateChange = 0
	PcChangeShutdown PcStateChange = 1
	PcChangeSuspend  PcStateChange = 2
)

// StreamState reports the gamestream session state on the host.
type StreamState int

const (
	StreamStateNotStreaming StreamState = 0
	StreamStateStreaming    StreamState = 1
	StreamStateStreamEnding StreamState = 2
)

// Wire names. Ordinals are fixed by Buddy and must not be renumbered.
var (
	pairingStateNames = map[PairingState]string{
		PairingStatePaired:    "Paired",
		PairingStatePairing:   "Pairing",
		PairingStateNotPaired: "NotPaired",
	}
	pcStateNames = map[PcState]string{
		PcStateNormal:       "Normal",
		PcStateRestarting:   "Restarting",
		PcStateShuttingDown: "ShuttingDown",
		PcStateSuspending:   "Suspending",
	}
	pcStateChangeNames = map[PcStateChange]string{
		PcChangeRestart:  "Restart",
		PcChangeShutdown: "Shutdown",
		PcChangeSuspend:  "Suspend",
	}
	streamStateNames = map[StreamState]string{
		StreamStateNotStreaming: "NotStreaming",
		StreamStateStreaming:    "Streaming",
		StreamStateStreamEnding: "StreamEnding",
	}
)

func (s PairingState) String() string  { return enumName(s, pairingStateNames, "PairingState") }
func (s PcState) String() string       { return enumName(s, pcStateNames, "PcState") }
func (s PcStateChange) String() string { return enumName(s, pcStateChangeNames, "PcStateChange") }
func (s StreamState) String() string   { return enumName(s, streamStateNames, "StreamState") }

// MarshalText emits the member name so JSON output stays readable.
func (s PairingState) MarshalText() ([]byte, error)  { return []byte(s.String()), nil }
func (s PcState) MarshalText() ([]byte, error)       { return []byte(s.String()), nil }
func (s PcStateChange) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s StreamState) MarshalText() ([]byte, error)   { return []byte(s.String()), nil }

func (s *PairingState) decodeWire(v any) (err error) {
	*s, err = decodeEnum(v, pairingStateNames, "PairingState")
	return err
}

func (s *PcState) decodeWire(v any) (err error) {
	*s, err = decodeEnum(v, pcStateNames, "PcState")
	return err
}

func (s *PcStateChange) decodeWire(v any) (err error) {
	*s, err = decodeEnum(v, pcStateChangeNames, "PcStateChange")
	return err
}

func (s *StreamState) decodeWire(v any) (err error) {
	*s, err = decodeEnum(v, streamStateNames, "StreamState")
	return err
}

// ParsePcStateChange resolves a member name such as "Suspend".
func ParsePcStateChange(name string) (PcStateChange, error) {
	return decodeEnum(name, pcStateChangeNames, "PcStateChange")
}

// wireEnum is implemented by every enum that can be read off the wire.
type wireEnum interface {
	decodeWire(v any) error
}

func enumName[T ~int](v T, names map[T]string, kind string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return kind + "(" + strconv.Itoa(int(v)) + ")"
}

// decodeEnum accepts either the ordinal or the exact member name.
func decodeEnum[T ~int](v any, names map[T]string, kind string) (T, error) {
	switch raw := v.(type) {
	case string:
		for member, name := range names {
			if name == raw {
				return member, nil
			}
		}
		return 0, fmt.Errorf("%q is not a %s member", raw, kind)
	case json.Number:
		if i, err := raw.Int64(); err == nil {
			return enumOrdinal(i, names, kind)
		}
		f, err := raw.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("%s is not a %s ordinal", raw, kind)
		}
		return enumOrdinal(int64(f), names, kind)
	case float64:
		if raw != math.Trunc(raw) {
			return 0, fmt.Errorf("%v is not a %s ordinal", raw, kind)
		}
		return enumOrdinal(int64(raw), names, kind)
	case int:
		return enumOrdinal(int64(raw), names, kind)
	case int64:
		return enumOrdinal(raw, names, kind)
	case T:
		return enumOrdinal(int64(raw), names, kind)
	default:
		return 0, fmt.Errorf("%T cannot hold a %s", v, kind)
	}
}

func enumOrdinal[T ~int](i int64, names map[T]string, kind string) (T, error) {
	member := T(i)
	if int64(member) != i {
		return 0, fmt.Errorf("%d is not a %s ordinal", i, kind)
	}
	if _, ok := names[member]; !ok {
		return 0, fmt.Errorf("%d is not a %s ordinal", i, kind)
	}
	return member, nil
}

// enumWireValues lists ordinals followed by names, ordered by ordinal.
func enumWireValues[T ~int](names map[T]string) []any {
	members := make([]T, 0, len(names))
	for member := range names {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	out := make([]any, 0, 2*len(members))
	for _, member := range members {
		out = append(out, int(member))
	}
	for _, member := range members {
		out = append(out, names[member])
	}
	return out
}

// APIVersionResponse mirrors /apiVersion.
type APIVersionResponse struct {
	Version int `json:"version"`
}

// PairingStateResponse mirrors /pairingState/{clientId}.
type PairingStateResponse struct {
	State PairingState `json:"state"`
}

// PcStateResponse mirrors /pcState.
type PcStateResponse struct {
	State PcState `json:"state"`
}

// ResultLikeResponse is returned by every command endpoint.
type ResultLikeResponse struct {
	Result bool `json:"result"`
}

// GamestreamAppNamesResponse mirrors /gamestreamAppNames. A nil AppNames
// means Buddy could not tell; an empty slice means there are none.
type GamestreamAppNamesResponse struct {
	AppNames []string `json:"appNames"`
}

// HostInfoResponse mirrors /hostInfo.
type HostInfoResponse struct {
	SteamIsRunning            bool        `json:"steamIsRunning"`
	SteamRunningAppID         int         `json:"steamRunningAppId"`
	SteamTrackedUpdatingAppID *int        `json:"steamTrackedUpdatingAppId"`
	StreamState               StreamState `json:"streamState"`
}
