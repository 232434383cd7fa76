package buddy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Operations defines the Buddy capabilities. It is implemented by *Session
// and can be faked in tests.
type Operations interface {
	APIVersion(ctx context.Context) (APIVersionResponse, error)
	PairingState(ctx context.Context) (PairingStateResponse, error)
	StartPairing(ctx context.Context, pin int) (ResultLikeResponse, error)
	AbortPairing(ctx context.Context) (ResultLikeResponse, error)
	LaunchSteamApp(ctx context.Context, appID int) (ResultLikeResponse, error)
	CloseSteam(ctx context.Context, gracePeriod *int) (ResultLikeResponse, error)
	PcState(ctx context.Context) (PcStateResponse, error)
	ChangePcState(ctx context.Context, state PcStateChange, gracePeriod int) (ResultLikeResponse, error)
	ChangeResolution(ctx context.Context, width, height int, manual bool) (ResultLikeResponse, error)
	RestoreResolution(ctx context.Context, manual bool) (ResultLikeResponse, error)
	HostInfo(ctx context.Context) (HostInfoResponse, error)
	EndStream(ctx context.Context) (ResultLikeResponse, error)
	GamestreamAppNames(ctx context.Context) (GamestreamAppNamesResponse, error)
}

// Ensure Session implements Operations at compile time.
var _ Operations = (*Session)(nil)

type endpoint struct {
	name   string
	method string
	path   string
	shape  *Shape
}

var (
	epAPIVersion         = endpoint{"getApiVersion", http.MethodGet, "/apiVersion", APIVersionShape}
	epPairingState       = endpoint{"getPairingState", http.MethodGet, "/pairingState/", PairingStateShape}
	epStartPairing       = endpoint{"startPairing", http.MethodPost, "/pair", ResultLikeShape}
	epAbortPairing       = endpoint{"abortPairing", http.MethodPost, "/abortPairing", ResultLikeShape}
	epLaunchSteamApp     = endpoint{"launchSteamApp", http.MethodPost, "/launchSteamApp", ResultLikeShape}
	epCloseSteam         = endpoint{"closeSteam", http.MethodPost, "/closeSteam", ResultLikeShape}
	epPcState            = endpoint{"getPcState", http.MethodGet, "/pcState", PcStateShape}
	epChangePcState      = endpoint{"changePcState", http.MethodPost, "/changePcState", ResultLikeShape}
	epChangeResolution   = endpoint{"changeResolution", http.MethodPost, "/changeResolution", ResultLikeShape}
	epRestoreResolution  = endpoint{"restoreResolution", http.MethodPost, "/restoreResolution", ResultLikeShape}
	epHostInfo           = endpoint{"getHostInfo", http.MethodGet, "/hostInfo", HostInfoShape}
	epEndStream          = endpoint{"endStream", http.MethodPost, "/endStream", ResultLikeShape}
	epGamestreamAppNames = endpoint{"getGamestreamAppNames", http.MethodGet, "/gamestreamAppNames", GamestreamAppNamesShape}
)

type pairRequest struct {
	ID       string `json:"id"`
	HashedID string `json:"hashed_id"`
}

type abortPairingRequest struct {
	ID string `json:"id"`
}

type launchSteamAppRequest struct {
	AppID int `json:"app_id"`
}

type closeSteamRequest struct {
	GracePeriod *int `json:"grace_period"`
}

type changePcStateRequest struct {
	State       string `json:"state"`
	GracePeriod int    `json:"grace_period"`
}

type changeResolutionRequest struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Manual bool `json:"manual"`
}

type restoreResolutionRequest struct {
	Manual bool `json:"manual"`
}

// PairingHash returns the hashed_id Buddy expects: base64 of the client id
// immediately followed by the decimal pin. It is an encoding, not a hash.
func PairingHash(clientID string, pin int) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + strconv.Itoa(pin)))
}

// APIVersion retrieves the Buddy API version.
func (s *Session) APIVersion(ctx context.Context) (APIVersionResponse, error) {
	var out APIVersionResponse
	err := s.call(ctx, epAPIVersion, epAPIVersion.path, nil, &out)
	return out, err
}

// PairingState retrieves the pairing state of this client.
func (s *Session) PairingState(ctx context.Context) (PairingStateResponse, error) {
	var out PairingStateResponse
	err := s.call(ctx, epPairingState, epPairingState.path+s.ClientID(), nil, &out)
	return out, err
}

// StartPairing asks Buddy to start pairing with the given pin.
func (s *Session) StartPairing(ctx context.Context, pin int) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	id := s.ClientID()
	body := pairRequest{ID: id, HashedID: PairingHash(id, pin)}
	err := s.call(ctx, epStartPairing, epStartPairing.path, body, &out)
	return out, err
}

// AbortPairing cancels a pairing in progress.
func (s *Session) AbortPairing(ctx context.Context) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	err := s.call(ctx, epAbortPairing, epAbortPairing.path, abortPairingRequest{ID: s.ClientID()}, &out)
	return out, err
}

// LaunchSteamApp launches a Steam app by id on the host.
func (s *Session) LaunchSteamApp(ctx context.Context, appID int) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	err := s.call(ctx, epLaunchSteamApp, epLaunchSteamApp.path, launchSteamAppRequest{AppID: appID}, &out)
	return out, err
}

// CloseSteam closes Steam on the host. A nil gracePeriod is sent as null so
// Buddy applies its own default.
func (s *Session) CloseSteam(ctx context.Context, gracePeriod *int) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	err := s.call(ctx, epCloseSteam, epCloseSteam.path, closeSteamRequest{GracePeriod: gracePeriod}, &out)
	return out, err
}

// PcState retrieves the host power state.
func (s *Session) PcState(ctx context.Context) (PcStateResponse, error) {
	var out PcStateResponse
	err := s.call(ctx, epPcState, epPcState.path, nil, &out)
	return out, err
}

// ChangePcState requests a power transition after gracePeriod seconds.
func (s *Session) ChangePcState(ctx context.Context, state PcStateChange, gracePeriod int) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	body := changePcStateRequest{State: state.String(), GracePeriod: gracePeriod}
	err := s.call(ctx, epChangePcState, epChangePcState.path, body, &out)
	return out, err
}

// ChangeResolution changes the host display resolution.
func (s *Session) ChangeResolution(ctx context.Context, width, height int, manual bool) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	body := changeResolutionRequest{Width: width, Height: height, Manual: manual}
	err := s.call(ctx, epChangeResolution, epChangeResolution.path, body, &out)
	return out, err
}

// RestoreResolution restores the host display resolution.
func (s *Session) RestoreResolution(ctx context.Context, manual bool) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	err := s.call(ctx, epRestoreResolution, epRestoreResolution.path, restoreResolutionRequest{Manual: manual}, &out)
	return out, err
}

// HostInfo retrieves Steam and stream status from the host.
func (s *Session) HostInfo(ctx context.Context) (HostInfoResponse, error) {
	var out HostInfoResponse
	err := s.call(ctx, epHostInfo, epHostInfo.path, nil, &out)
	return out, err
}

// EndStream ends the current gamestream session.
func (s *Session) EndStream(ctx context.Context) (ResultLikeResponse, error) {
	var out ResultLikeResponse
	err := s.call(ctx, epEndStream, epEndStream.path, nil, &out)
	return out, err
}

// GamestreamAppNames lists the app names known to the gamestream server.
func (s *Session) GamestreamAppNames(ctx context.Context) (GamestreamAppNamesResponse, error) {
	var out GamestreamAppNamesResponse
	err := s.call(ctx, epGamestreamAppNames, epGamestreamAppNames.path, nil, &out)
	return out, err
}

// call issues one request and coerces the response into dest.
func (s *Session) call(ctx context.Context, ep endpoint, path string, body any, dest any) error {
	if s.Closed() {
		return &ConnectionError{Op: "request", Err: ErrSessionClosed}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", ep.name, err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := s.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, ep.method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", s.auth)
	req.Header.Set("User-Agent", s.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	raw, status, err := s.roundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		te := newTransportError(ep.method, path, err)
		outcome := outcomeTransport
		if te.Timeout {
			outcome = outcomeTimeout
		}
		s.metrics.observe(ep.name, outcome, elapsed)
		s.log.Debug().Err(err).Str("endpoint", ep.name).Dur("elapsed", elapsed).Msg("buddy request failed")
		return te
	}

	logEvent := s.log.Debug().Str("endpoint", ep.name).Str("method", ep.method).Int("status", status).Dur("elapsed", elapsed)
	if status < 200 || status > 299 {
		s.metrics.observe(ep.name, outcomeProtocol, elapsed)
		logEvent.Msg("buddy request rejected")
		return &ProtocolError{Method: ep.method, Path: path, StatusCode: status, Message: serverMessage(raw)}
	}
	if err := Coerce(ep.shape, raw, dest); err != nil {
		s.metrics.observe(ep.name, outcomeDecode, elapsed)
		logEvent.Err(err).Msg("buddy response invalid")
		return err
	}
	s.metrics.observe(ep.name, outcomeOK, elapsed)
	logEvent.Msg("buddy request")
	return nil
}

func (s *Session) roundTrip(req *http.Request) ([]byte, int, error) {
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

// IsTimeout reports whether err is a TransportError caused by a deadline.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}
