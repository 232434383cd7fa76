package app

import (
	"context"
	"encoding/pem"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/buddyctl/internal/buddy"
	"github.com/five82/buddyctl/internal/state"
	"github.com/five82/buddyctl/internal/ui"
)

func TestRefresh_UpdatesStore(t *testing.T) {
	updating := 570
	ops := &fakeOps{
		hostInfo: buddy.HostInfoResponse{SteamIsRunning: true, SteamRunningAppID: 730, SteamTrackedUpdatingAppID: &updating, StreamState: buddy.StreamStateStreaming},
		pcState:  buddy.PcStateSuspending,
	}
	host := &fakeHost{ops: ops}
	store := &state.Store{}

	refresh(context.Background(), store, host, zerolog.Nop())

	snap := store.Snapshot()
	require.True(t, snap.HasStatus)
	assert.Equal(t, 730, snap.HostInfo.SteamRunningAppID)
	assert.Equal(t, buddy.PcStateSuspending, snap.PcState)
	assert.Equal(t, []string{"HostInfo", "PcState"}, ops.called())
	assert.Equal(t, 1, host.opened(), "both calls share one scope")
}

func TestRefresh_FailureCountsTowardOffline(t *testing.T) {
	ops := &fakeOps{failOn: "HostInfo", failError: &buddy.TransportError{Method: "GET", Path: "/hostInfo", Err: errors.New("refused")}}
	host := &fakeHost{ops: ops}
	store := &state.Store{}

	refresh(context.Background(), store, host, zerolog.Nop())
	refresh(context.Background(), store, host, zerolog.Nop())

	snap := store.Snapshot()
	assert.True(t, snap.IsOffline())
	assert.False(t, snap.HasStatus)
	assert.Equal(t, []string{"HostInfo", "HostInfo"}, ops.called(), "PcState is skipped once HostInfo fails")
}

func TestRefresh_CancelledContextLeavesStoreAlone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	host := &fakeHost{ops: &fakeOps{failOn: "HostInfo", failError: context.Canceled}}
	store := &state.Store{}

	refresh(ctx, store, host, zerolog.Nop())

	assert.Equal(t, 0, store.Snapshot().ConsecutiveFailures)
}

func TestStartPoller_PollsUntilCancelled(t *testing.T) {
	ops := &fakeOps{pcState: buddy.PcStateNormal}
	host := &fakeHost{ops: ops}
	store := &state.Store{}

	ctx, cancel := context.WithCancel(context.Background())
	done := StartPoller(ctx, store, host, 10*time.Millisecond, zerolog.Nop())

	require.Eventually(t, func() bool { return host.opened() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not exit after cancel")
	}
	settled := host.opened()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, host.opened())
	assert.True(t, store.Snapshot().HasStatus)
}

func TestRun_StopsPollerWhenDashboardExits(t *testing.T) {
	host := &fakeHost{ops: &fakeOps{pcState: buddy.PcStateNormal}}
	opts := Options{PollEvery: 5 * time.Millisecond, Logger: zerolog.Nop()}

	var dashCtx context.Context
	err := run(context.Background(), host, opts, func(o ui.Options) error {
		dashCtx = o.Context
		require.Eventually(t, func() bool { return host.opened() >= 2 }, 2*time.Second, time.Millisecond)
		return nil
	})
	require.NoError(t, err)

	// The poller has already exited; no further scopes are opened.
	settled := host.opened()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, host.opened())
	assert.ErrorIs(t, dashCtx.Err(), context.Canceled)
}

func TestRun_WrapsDashboardError(t *testing.T) {
	host := &fakeHost{ops: &fakeOps{}}
	err := run(context.Background(), host, Options{Logger: zerolog.Nop()}, func(ui.Options) error {
		return errors.New("no tty")
	})
	require.Error(t, err)
	assert.Equal(t, "run dashboard: no tty", err.Error())
}

func TestController_CommandRefreshesAfterSuccess(t *testing.T) {
	ops := &fakeOps{result: true}
	store := &state.Store{}
	c := &controller{host: &fakeHost{ops: ops}, store: store, log: zerolog.Nop()}

	require.NoError(t, c.EndStream(context.Background()))
	require.NoError(t, c.CloseSteam(context.Background()))
	require.NoError(t, c.RestoreResolution(context.Background()))

	assert.Equal(t, []string{
		"EndStream", "HostInfo", "PcState",
		"CloseSteam", "HostInfo", "PcState",
		"RestoreResolution", "HostInfo", "PcState",
	}, ops.called())
	assert.True(t, store.Snapshot().HasStatus)
}

func TestController_RejectedCommand(t *testing.T) {
	ops := &fakeOps{result: false}
	c := &controller{host: &fakeHost{ops: ops}, store: &state.Store{}, log: zerolog.Nop()}

	err := c.EndStream(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end stream")
	assert.Equal(t, []string{"EndStream"}, ops.called())
}

func TestController_AppNames(t *testing.T) {
	c := &controller{host: &fakeHost{ops: &fakeOps{appNames: []string{"Desktop"}}}, store: &state.Store{}, log: zerolog.Nop()}
	names, err := c.AppNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Desktop"}, names)

	failing := &controller{host: &fakeHost{openErr: errors.New("no cert")}, store: &state.Store{}, log: zerolog.Nop()}
	_, err = failing.AppNames(context.Background())
	assert.ErrorContains(t, err, "list gamestream apps")
}

func TestNewHost_OpensScopePerCall(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/hostInfo":
			_, _ = w.Write([]byte(`{"steamIsRunning":false,"steamRunningAppId":0,"steamTrackedUpdatingAppId":null,"streamState":0}`))
		case "/pcState":
			_, _ = w.Write([]byte(`{"state":0}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	certPath := filepath.Join(t.TempDir(), "buddy.pem")
	block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(certPath, block, 0o600))

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	h := NewHost(buddy.Config{Address: host, Port: port, ClientID: "deck", Timeout: 2 * time.Second}, certPath)
	store := &state.Store{}
	refresh(context.Background(), store, h, zerolog.Nop())
	refresh(context.Background(), store, h, zerolog.Nop())

	snap := store.Snapshot()
	require.NoError(t, snap.LastError)
	assert.True(t, snap.HasStatus)
	assert.Equal(t, buddy.StreamStateNotStreaming, snap.HostInfo.StreamState)
}
