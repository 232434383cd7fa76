package main

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/pem"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type recorded struct {
	method string
	path   string
	body   string
}

type fakeBuddy struct {
	mu       sync.Mutex
	requests []recorded
}

func (f *fakeBuddy) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request reached the fake buddy")
	}
	return f.requests[len(f.requests)-1]
}

// startBuddy serves routes over TLS and points the BUDDY_* environment at it.
func startBuddy(t *testing.T, routes map[string]string) *fakeBuddy {
	t.Helper()
	f := &fakeBuddy{}
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
		f.mu.Unlock()

		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	certPath := filepath.Join(dir, "buddy.pem")
	block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(certPath, block, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	t.Setenv("HOME", dir)
	t.Setenv("BUDDY_ADDRESS", host)
	t.Setenv("BUDDY_PORT", port)
	t.Setenv("BUDDY_CERT_PATH", certPath)
	t.Setenv("BUDDY_CLIENT_ID", "deck")
	t.Setenv("BUDDY_TIMEOUT", "2s")
	return f
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_SendExpectedRequests(t *testing.T) {
	ok := `{"result": true}`
	f := startBuddy(t, map[string]string{
		"POST /launchSteamApp":    ok,
		"POST /closeSteam":        ok,
		"POST /changePcState":     ok,
		"POST /changeResolution":  ok,
		"POST /restoreResolution": ok,
		"POST /endStream":         ok,
		"POST /abortPairing":      ok,
	})

	tests := []struct {
		args     []string
		wantPath string
		wantBody string
	}{
		{[]string{"launch", "730"}, "/launchSteamApp", `{"app_id":730}`},
		{[]string{"close-steam"}, "/closeSteam", `{"grace_period":null}`},
		{[]string{"close-steam", "--grace", "0"}, "/closeSteam", `{"grace_period":0}`},
		{[]string{"pc", "suspend", "--grace", "5"}, "/changePcState", `{"state":"Suspend","grace_period":5}`},
		{[]string{"resolution", "set", "1280", "800", "--manual"}, "/changeResolution", `{"width":1280,"height":800,"manual":true}`},
		{[]string{"resolution", "restore"}, "/restoreResolution", `{"manual":false}`},
		{[]string{"end-stream"}, "/endStream", ``},
		{[]string{"abort-pairing"}, "/abortPairing", `{"id":"deck"}`},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute(%v) error = %v", tt.args, err)
			}
			if !strings.Contains(out, "[OK]") {
				t.Errorf("output = %q, want [OK]", out)
			}
			got := f.last(t)
			if got.method != http.MethodPost || got.path != tt.wantPath {
				t.Fatalf("request = %s %s, want POST %s", got.method, got.path, tt.wantPath)
			}
			if tt.wantBody == "" {
				if got.body != "" {
					t.Fatalf("body = %q, want empty", got.body)
				}
				return
			}
			var gotBody, wantBody any
			if err := json.Unmarshal([]byte(got.body), &gotBody); err != nil {
				t.Fatalf("body %q is not JSON: %v", got.body, err)
			}
			_ = json.Unmarshal([]byte(tt.wantBody), &wantBody)
			gotJSON, _ := json.Marshal(gotBody)
			wantJSON, _ := json.Marshal(wantBody)
			if string(gotJSON) != string(wantJSON) {
				t.Fatalf("body = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestCommand_RejectedResultFails(t *testing.T) {
	startBuddy(t, map[string]string{"POST /endStream": `{"result": false}`})

	out, err := execute(t, "end-stream")
	if err != errRejected {
		t.Fatalf("error = %v, want errRejected", err)
	}
	if !strings.Contains(out, "[REJECTED]") {
		t.Fatalf("output = %q, want [REJECTED]", out)
	}
}

func TestHostInfo_HumanAndJSON(t *testing.T) {
	startBuddy(t, map[string]string{
		"GET /hostInfo": `{"steamIsRunning": true, "steamRunningAppId": 730, "steamTrackedUpdatingAppId": null, "streamState": 1}`,
	})

	out, err := execute(t, "host-info")
	if err != nil {
		t.Fatalf("host-info error = %v", err)
	}
	for _, want := range []string{"steam running", "true", "730", "Streaming"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "host-info", "--json")
	if err != nil {
		t.Fatalf("host-info --json error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["streamState"] != "Streaming" || decoded["steamTrackedUpdatingAppId"] != nil {
		t.Fatalf("decoded = %v, want streamState Streaming and null updating app", decoded)
	}
}

func TestApps_DistinguishesUnknownFromEmpty(t *testing.T) {
	startBuddy(t, map[string]string{"GET /gamestreamAppNames": `{"appNames": null}`})
	out, err := execute(t, "apps")
	if err != nil {
		t.Fatalf("apps error = %v", err)
	}
	if !strings.Contains(out, "could not determine") {
		t.Fatalf("output = %q, want unknown message", out)
	}
}

func TestPair_AlreadyPaired(t *testing.T) {
	f := startBuddy(t, map[string]string{
		"GET /apiVersion":        `{"version": 4}`,
		"GET /pairingState/deck": `{"state": 0}`,
	})

	out, err := execute(t, "pair", "--pin", "1234")
	if err != nil {
		t.Fatalf("pair error = %v", err)
	}
	if !strings.Contains(out, "already paired") {
		t.Fatalf("output = %q, want already paired", out)
	}
	if got := f.last(t); got.path != "/pairingState/deck" {
		t.Fatalf("last request = %s, want /pairingState/deck", got.path)
	}
}

func TestPair_VersionMismatchFails(t *testing.T) {
	startBuddy(t, map[string]string{"GET /apiVersion": `{"version": 99}`})

	out, err := execute(t, "pair", "--pin", "1234", "--json")
	if err == nil {
		t.Fatal("pair returned nil error on version mismatch")
	}
	if !strings.Contains(out, `"VersionMismatch"`) {
		t.Fatalf("output = %q, want VersionMismatch status", out)
	}
}

func TestPc_RejectsUnknownTransition(t *testing.T) {
	startBuddy(t, nil)
	if _, err := execute(t, "pc", "hibernate"); err == nil {
		t.Fatal("pc hibernate returned nil error")
	}
}

func TestProtocolErrorSurfaces(t *testing.T) {
	startBuddy(t, nil)
	_, err := execute(t, "pc-state")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("pc-state error = %v, want 404 protocol error", err)
	}
}

func TestLoadConfig_MissingAddress(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BUDDY_ADDRESS", "")
	t.Setenv("BUDDY_CLIENT_ID", "deck")
	_, err := execute(t, "pc-state")
	if err == nil || !strings.Contains(err.Error(), "Address") {
		t.Fatalf("error = %v, want missing Address", err)
	}
}

func TestLoadConfig_GeneratesClientID(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BUDDY_ADDRESS", "10.0.0.5")
	t.Setenv("BUDDY_CLIENT_ID", "")
	cfgFile = filepath.Join(home, "none.toml")
	prefsFile = filepath.Join(home, "prefs.toml")
	envFile = ""
	t.Cleanup(func() { cfgFile, prefsFile = "", "" })

	first, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig error = %v", err)
	}
	if first.ClientID == "" {
		t.Fatal("ClientID is empty, want a generated id")
	}
	second, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig error = %v", err)
	}
	if second.ClientID != first.ClientID {
		t.Fatalf("ClientID = %q on reload, want %q", second.ClientID, first.ClientID)
	}
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	want := []string{
		"version", "pairing-state", "pair", "abort-pairing", "launch", "close-steam",
		"apps", "end-stream", "pc-state", "pc", "resolution", "host-info", "watch",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestOpenActivityLog_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	resolved, file, err := openActivityLog("~/state/buddyctl/watch.log")
	if err != nil {
		t.Fatalf("openActivityLog returned error: %v", err)
	}
	defer file.Close()

	want := filepath.Join(home, "state", "buddyctl", "watch.log")
	if resolved != want {
		t.Fatalf("path = %q, want %q", resolved, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("activity log not created: %v", err)
	}
}
