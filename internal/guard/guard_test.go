package guard

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freePort asks the OS for an unused port so tests do not collide with a
// real bot instance on the well-known one.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestAcquireWritesMarkerAndRelease(t *testing.T) {
	port := freePort(t)
	marker := filepath.Join(t.TempDir(), "bot_instance.json")

	g := New(port, marker, zerolog.Nop())
	require.NoError(t, g.Acquire())

	raw, err := os.ReadFile(marker)
	require.NoError(t, err)
	var info markerInfo
	require.NoError(t, json.Unmarshal(raw, &info))
	assert.Equal(t, os.Getpid(), info.PID)
	assert.NotEmpty(t, info.StartTime)
	assert.NotEmpty(t, info.EntryPoint)

	g.Release()

	_, err = os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "release must remove the marker")

	// the port must be free again immediately
	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	require.NoError(t, err)
	_ = ln.Close()
}

func TestSecondAcquireFails(t *testing.T) {
	port := freePort(t)
	dir := t.TempDir()

	first := New(port, filepath.Join(dir, "first.json"), zerolog.Nop())
	require.NoError(t, first.Acquire())
	defer first.Release()

	second := New(port, filepath.Join(dir, "second.json"), zerolog.Nop())
	err := second.Acquire()
	require.ErrorIs(t, err, ErrAlreadyRunning)

	// the first instance must be unaffected
	_, statErr := os.Stat(filepath.Join(dir, "first.json"))
	assert.NoError(t, statErr)
}

func TestStaleMarkerWithDeadPid(t *testing.T) {
	port := freePort(t)
	marker := filepath.Join(t.TempDir(), "bot_instance.json")

	stale := markerInfo{PID: 99999999, StartTime: "2025-01-01 00:00:00", EntryPoint: "/usr/local/bin/chatkeeper"}
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(marker, raw, 0o644))

	g := New(port, marker, zerolog.Nop())
	require.NoError(t, g.Acquire())
	defer g.Release()

	// the marker now belongs to us
	raw, err = os.ReadFile(marker)
	require.NoError(t, err)
	var info markerInfo
	require.NoError(t, json.Unmarshal(raw, &info))
	assert.Equal(t, os.Getpid(), info.PID)
}

func TestStaleMarkerUnparseable(t *testing.T) {
	port := freePort(t)
	marker := filepath.Join(t.TempDir(), "bot_instance.json")
	require.NoError(t, os.WriteFile(marker, []byte("garbage"), 0o644))

	g := New(port, marker, zerolog.Nop())
	require.NoError(t, g.Acquire())
	defer g.Release()
}

func TestStaleMarkerUnrelatedProcessIsNotKilled(t *testing.T) {
	port := freePort(t)
	marker := filepath.Join(t.TempDir(), "bot_instance.json")

	// pid 1 is alive but certainly not running our entry point
	stale := markerInfo{PID: 1, StartTime: "2025-01-01 00:00:00", EntryPoint: "/no/such/binary-zzz"}
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(marker, raw, 0o644))

	g := New(port, marker, zerolog.Nop())
	require.NoError(t, g.Acquire())
	defer g.Release()
}

func TestReleaseWithoutAcquireIsSafe(t *testing.T) {
	g := New(freePort(t), filepath.Join(t.TempDir(), "m.json"), zerolog.Nop())
	g.Release()
}
