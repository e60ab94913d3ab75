package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// MPVSource plays a stream URL in an external mpv process and surfaces
// its pause and time-pos signals over mpv's JSON IPC socket. It is the
// production Source; tests and the manual flow use in-memory sources.
type MPVSource struct {
	cmd    *exec.Cmd
	conn   net.Conn
	events chan Event
	socket string
}

// ipcMessage is one line of mpv's JSON IPC protocol.
type ipcMessage struct {
	Event string      `json:"event"`
	Name  string      `json:"name"`
	Data  interface{} `json:"data"`
}

const (
	observeTimePos = `{"command":["observe_property",1,"time-pos"]}` + "\n"
	observePause   = `{"command":["observe_property",2,"pause"]}` + "\n"
)

// LaunchMPV starts mpv against the stream URL, resuming at startSeconds,
// and begins forwarding playback events. The caller must Close the source
// when done; the event channel closes when mpv exits.
func LaunchMPV(ctx context.Context, mpvPath, streamURL string, startSeconds float64) (*MPVSource, error) {
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("streamhub-mpv-%d.sock", os.Getpid()))

	args := []string{
		"--input-ipc-server=" + socket,
		"--no-terminal",
		fmt.Sprintf("--start=%f", startSeconds),
		streamURL,
	}
	cmd := exec.CommandContext(ctx, mpvPath, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	conn, err := dialIPC(ctx, socket)
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("failed to reach mpv ipc socket: %w", err)
	}

	if _, err := conn.Write([]byte(observeTimePos + observePause)); err != nil {
		conn.Close()
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("failed to observe mpv properties: %w", err)
	}

	src := &MPVSource{
		cmd:    cmd,
		conn:   conn,
		events: make(chan Event, 32),
		socket: socket,
	}
	go src.readLoop()
	return src, nil
}

// dialIPC retries until mpv has created its socket; mpv takes a moment to
// come up before the socket exists.
func dialIPC(ctx context.Context, socket string) (net.Conn, error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Events implements Source.
func (m *MPVSource) Events() <-chan Event {
	return m.events
}

// Close tears the player down. Safe to call after mpv already exited.
func (m *MPVSource) Close() error {
	m.conn.Close()
	if m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
	}
	_ = m.cmd.Wait()
	os.Remove(m.socket)
	return nil
}

// readLoop turns mpv property-change lines into surface events. A pause
// flip to true emits EventPause at the last observed position.
func (m *MPVSource) readLoop() {
	defer close(m.events)

	var lastPos float64
	scanner := bufio.NewScanner(m.conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		switch {
		case msg.Event == "property-change" && msg.Name == "time-pos":
			pos, ok := msg.Data.(float64)
			if !ok {
				continue
			}
			lastPos = pos
			m.emit(Event{Type: EventTimeUpdate, PositionSeconds: pos})
		case msg.Event == "property-change" && msg.Name == "pause":
			paused, ok := msg.Data.(bool)
			if ok && paused {
				m.emit(Event{Type: EventPause, PositionSeconds: lastPos})
			}
		case msg.Event == "end-file":
			return
		}
	}
}

func (m *MPVSource) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		// drop rather than stall mpv's ipc reader; time updates are
		// overwritten by the next one anyway
	}
}
