// Package guard enforces single-instance execution. Two copies of the bot
// long-polling the same account would both consume updates and double-reply,
// so startup is gated on an exclusive claim: a loopback port bind (the OS
// frees it on process death, no unlock needed) plus a marker file used to
// reap instances left over from an ungraceful exit.
package guard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
)

// ErrAlreadyRunning means another live instance holds the exclusivity port.
// Fatal: the caller must exit without touching the store or the transport.
var ErrAlreadyRunning = errors.New("another bot instance is already running")

const (
	// DefaultPort is the well-known loopback port occupied for the process
	// lifetime. It never receives traffic.
	DefaultPort = 48735

	terminateWait = 3 * time.Second
)

type markerInfo struct {
	PID        int    `json:"pid"`
	StartTime  string `json:"start_time"`
	EntryPoint string `json:"entry_point"`
}

type Guard struct {
	port       int
	markerPath string
	log        zerolog.Logger
	ln         net.Listener
}

func New(port int, markerPath string, log zerolog.Logger) *Guard {
	if port <= 0 {
		port = DefaultPort
	}
	return &Guard{
		port:       port,
		markerPath: markerPath,
		log:        log,
	}
}

// Acquire takes the exclusive claim: reap any stale previous instance, bind
// the port, then record this process in the marker file. On any failure the
// partially acquired state is released and an error returned; ErrAlreadyRunning
// when the port is held by a live instance.
func (g *Guard) Acquire() error {
	g.cleanupStale()

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", g.port))
	if err != nil {
		return fmt.Errorf("%w: port %d is busy", ErrAlreadyRunning, g.port)
	}
	g.ln = ln

	if err := g.writeMarker(); err != nil {
		g.Release()
		return fmt.Errorf("write instance marker: %w", err)
	}
	return nil
}

// Release closes the listener and removes the marker. Failure to remove is
// logged only: the next Acquire treats a mismatched marker as stale.
func (g *Guard) Release() {
	if g.ln != nil {
		if err := g.ln.Close(); err != nil {
			g.log.Warn().Err(err).Msg("failed to close guard listener")
		}
		g.ln = nil
	}
	if err := os.Remove(g.markerPath); err != nil && !os.IsNotExist(err) {
		g.log.Warn().Err(err).Str("path", g.markerPath).Msg("failed to remove instance marker")
	}
}

func (g *Guard) writeMarker() error {
	entry, err := os.Executable()
	if err != nil {
		entry = os.Args[0]
	}
	info := markerInfo{
		PID:        os.Getpid(),
		StartTime:  time.Now().Format("2006-01-02 15:04:05"),
		EntryPoint: entry,
	}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return os.WriteFile(g.markerPath, data, 0o644)
}

// cleanupStale reads the previous instance's marker and, when it points at a
// live process running the same entry point, terminates it: SIGTERM first,
// SIGKILL after a bounded wait. Dead pids, foreign processes and unreadable
// markers are discarded without touching anything.
func (g *Guard) cleanupStale() {
	raw, err := os.ReadFile(g.markerPath)
	if err != nil {
		return
	}

	var info markerInfo
	if err := json.Unmarshal(raw, &info); err != nil || info.PID <= 0 {
		g.log.Warn().Str("path", g.markerPath).Msg("stale marker unreadable, discarding")
		g.removeMarker()
		return
	}

	proc, err := process.NewProcess(int32(info.PID))
	if err != nil {
		// pid no longer exists
		g.removeMarker()
		return
	}

	if !g.isOurEntryPoint(proc, info.EntryPoint) {
		g.log.Warn().Int("pid", info.PID).Msg("marker pid belongs to an unrelated process, discarding")
		g.removeMarker()
		return
	}

	g.log.Info().Int("pid", info.PID).Msg("terminating previous bot instance")
	if err := proc.Terminate(); err != nil {
		g.log.Warn().Err(err).Int("pid", info.PID).Msg("terminate failed")
	}
	if !waitForExit(proc, terminateWait) {
		if err := proc.Kill(); err != nil {
			g.log.Warn().Err(err).Int("pid", info.PID).Msg("kill failed")
		}
	}
	g.removeMarker()
}

func (g *Guard) removeMarker() {
	if err := os.Remove(g.markerPath); err != nil && !os.IsNotExist(err) {
		g.log.Warn().Err(err).Str("path", g.markerPath).Msg("failed to remove stale marker")
	}
}

// isOurEntryPoint guards against pid reuse: the recorded pid must still be
// running the same binary before we are allowed to kill it.
func (g *Guard) isOurEntryPoint(proc *process.Process, entryPoint string) bool {
	entry := filepath.Base(strings.TrimSpace(entryPoint))
	if entry == "" || entry == "." {
		return false
	}
	args, err := proc.CmdlineSlice()
	if err != nil || len(args) == 0 {
		return false
	}
	for _, arg := range args {
		if strings.Contains(strings.ToLower(arg), strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

func waitForExit(proc *process.Process, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		running, err := proc.IsRunning()
		if err != nil || !running {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	running, err := proc.IsRunning()
	return err != nil || !running
}
