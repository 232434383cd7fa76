package app

import (
	"context"
	"sync"

	"github.com/five82/buddyctl/internal/buddy"
)

// fakeOps answers every operation from fixed values and records call names.
type fakeOps struct {
	mu    sync.Mutex
	calls []string

	version   int
	pairing   buddy.PairingState
	result    bool
	hostInfo  buddy.HostInfoResponse
	pcState   buddy.PcState
	appNames  []string
	failOn    string
	failError error
}

func (f *fakeOps) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return f.failError
	}
	return nil
}

func (f *fakeOps) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeOps) APIVersion(context.Context) (buddy.APIVersionResponse, error) {
	return buddy.APIVersionResponse{Version: f.version}, f.hit("APIVersion")
}

func (f *fakeOps) PairingState(context.Context) (buddy.PairingStateResponse, error) {
	return buddy.PairingStateResponse{State: f.pairing}, f.hit("PairingState")
}

func (f *fakeOps) StartPairing(context.Context, int) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("StartPairing")
}

func (f *fakeOps) AbortPairing(context.Context) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("AbortPairing")
}

func (f *fakeOps) LaunchSteamApp(context.Context, int) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("LaunchSteamApp")
}

func (f *fakeOps) CloseSteam(context.Context, *int) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("CloseSteam")
}

func (f *fakeOps) PcState(context.Context) (buddy.PcStateResponse, error) {
	return buddy.PcStateResponse{State: f.pcState}, f.hit("PcState")
}

func (f *fakeOps) ChangePcState(context.Context, buddy.PcStateChange, int) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("ChangePcState")
}

func (f *fakeOps) ChangeResolution(context.Context, int, int, bool) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("ChangeResolution")
}

func (f *fakeOps) RestoreResolution(context.Context, bool) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("RestoreResolution")
}

func (f *fakeOps) HostInfo(context.Context) (buddy.HostInfoResponse, error) {
	return f.hostInfo, f.hit("HostInfo")
}

func (f *fakeOps) EndStream(context.Context) (buddy.ResultLikeResponse, error) {
	return buddy.ResultLikeResponse{Result: f.result}, f.hit("EndStream")
}

func (f *fakeOps) GamestreamAppNames(context.Context) (buddy.GamestreamAppNamesResponse, error) {
	return buddy.GamestreamAppNamesResponse{AppNames: f.appNames}, f.hit("GamestreamAppNames")
}

var _ buddy.Operations = (*fakeOps)(nil)

// fakeHost hands the same fakeOps to every Do, or fails before fn runs.
type fakeHost struct {
	ops     *fakeOps
	openErr error

	mu     sync.Mutex
	scopes int
}

func (h *fakeHost) Do(ctx context.Context, fn func(ctx context.Context, ops buddy.Operations) error) error {
	h.mu.Lock()
	h.scopes++
	h.mu.Unlock()
	if h.openErr != nil {
		return h.openErr
	}
	return fn(ctx, h.ops)
}

func (h *fakeHost) opened() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scopes
}
