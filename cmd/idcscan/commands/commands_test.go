package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idcscan/idcscan/internal/session"
)

// setTestHome isolates a test behind a fresh HOME so the default config and
// profile paths resolve inside a temp dir, and clears every IDCSCAN_*
// override so the developer's environment cannot leak in.
func setTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"IDCSCAN_SERVER_URL",
		"IDCSCAN_PROFILE",
		"IDCSCAN_STORE_BACKEND",
		"IDCSCAN_REDIS_ADDR",
		"IDCSCAN_REQUEST_TIMEOUT",
		"IDCSCAN_PREDICT_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	return home
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// seedVerifiedSession writes a verified session into the default profile
// under the given HOME, the same file the commands read.
func seedVerifiedSession(t *testing.T, home string) {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(home, ".config", "idcscan", "default", "session.yml"))
	require.NoError(t, err)
	require.NoError(t, store.SetVerified(context.Background(), "jo", "jo@example.com", ""))
}

func TestGuardedCommandsRequireLogin(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "report show", args: []string{"report", "show"}},
		{name: "report download", args: []string{"report", "download"}},
		{name: "report send", args: []string{"report", "send", "--email", "doctor@example.com"}},
		{name: "analyze", args: []string{"analyze", "--image", "tile.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTestHome(t)

			err := execute(t, tt.args...)
			require.Error(t, err)
			assert.EqualError(t, err, "not logged in")
		})
	}
}

func TestGuardAdmitsVerifiedSession(t *testing.T) {
	home := setTestHome(t)
	seedVerifiedSession(t, home)

	require.NoError(t, execute(t, "whoami"))

	// No analysis has run, so the report view renders its empty state
	// rather than failing.
	require.NoError(t, execute(t, "report", "show"))
}

func TestReportSendRequiresDestination(t *testing.T) {
	setTestHome(t)

	// Any request reaching the server is a failure: the refusal is local.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("IDCSCAN_SERVER_URL", srv.URL)

	reportSendEmail = ""
	reportSendWhatsApp = ""
	err := execute(t, "report", "send")
	require.Error(t, err)
	assert.EqualError(t, err, "no destination given")
}

func TestVerifyRejectionSurfacesFailure(t *testing.T) {
	setTestHome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-otp", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid OTP"})
	}))
	t.Cleanup(srv.Close)
	t.Setenv("IDCSCAN_SERVER_URL", srv.URL)

	// No pending registration and no --email: the command warns and lets
	// the server arbitrate.
	verifyEmail = ""
	err := execute(t, "verify", "--code", "000000")
	require.Error(t, err)
	assert.EqualError(t, err, "verification failed")
}

func TestUnreachableSessionStore(t *testing.T) {
	setTestHome(t)
	t.Setenv("IDCSCAN_STORE_BACKEND", "redis")
	t.Setenv("IDCSCAN_REDIS_ADDR", "127.0.0.1:1")

	err := execute(t, "whoami")
	require.Error(t, err)
	assert.EqualError(t, err, "cannot reach session store")
}
