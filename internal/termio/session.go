// Package termio implements the reusable PTY driver core: a session that
// spawns a child with a controlling terminal, performs non-blocking
// bidirectional I/O, answers terminal device queries so Ink/React TUIs
// complete their startup handshake, and guarantees process-group teardown
// on every exit path. Grounded on internal/egg/server.go (PTY spawn via
// creack/pty, replay-buffer capture, SIGTERM-then-SIGKILL teardown) and on
// the musher-dev-mush ClaudeExecutor reference harness (process-group
// signaling, injectable PTY-start function for tests).
package termio

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

const (
	maxBufferBytes = 1_000_000
	initialCols    = 200
	initialRows    = 50
)

// query is a terminal device query this session auto-answers on the
// child's behalf, since an unanswered query hangs Ink-based TUIs (Gemini)
// during their startup handshake.
type query struct {
	pattern []byte
	reply   []byte
}

var queries = []query{
	{pattern: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")}, // cursor position
	{pattern: []byte("\x1b[c"), reply: []byte("\x1b[?1;2c")}, // primary device attributes
	{pattern: []byte("\x1b[5n"), reply: []byte("\x1b[0n")},   // device status report
}

// Options configures a new Session.
type Options struct {
	Dir        string
	Env        map[string]string
	Cols, Rows uint16
	// DebugCapture mirrors every raw byte read from the PTY master to a
	// temp file, the way internal/egg/server.go's debug path does, so a
	// stuck driver can be diagnosed from the raw stream after the fact.
	DebugCapture bool
}

// Session owns one PTY pair, one child process group, and a bounded output
// buffer. Its lifetime is exclusive to one driver.
type Session struct {
	Name string
	// DebugPath is the raw-byte mirror file's path, set only when the
	// session was created with Options.DebugCapture.
	DebugPath string

	fd        int
	ptmx      *os.File
	cmd       *exec.Cmd
	pgid      int
	debugFile *os.File

	// regID disambiguates sessions started within the same nanosecond tick
	// on fast CI machines; Name stays the human-readable diagnostic label.
	regID string

	mu         sync.Mutex
	buf        []byte
	queryTails [][]byte

	closeOnce sync.Once
}

// New spawns binary with args as a PTY session leader and registers its
// process group for cooperative shutdown.
func New(binary string, args []string, opts Options) (*Session, error) {
	cmd := exec.Command(binary, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	cmd.Env = buildEnv(opts.Env)

	cols, rows := opts.Cols, opts.Rows
	if cols == 0 {
		cols = initialCols
	}
	if rows == 0 {
		rows = initialRows
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}

	fd := int(ptmx.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		ptmx.Close()
		cmd.Process.Kill()
		return nil, fmt.Errorf("set nonblocking: %w", err)
	}

	pgid := cmd.Process.Pid
	name := fmt.Sprintf("agentusage-pty-%s-%d-%d", binary, pgid, time.Now().UnixNano())
	sessionID := name + "-" + uuid.New().String()

	s := &Session{
		Name:       name,
		regID:      sessionID,
		fd:         fd,
		ptmx:       ptmx,
		cmd:        cmd,
		pgid:       pgid,
		queryTails: make([][]byte, len(queries)),
	}

	if opts.DebugCapture {
		path := fmt.Sprintf("%s/%s.bin", os.TempDir(), name)
		if f, err := os.Create(path); err == nil {
			s.debugFile = f
			s.DebugPath = path
		}
	}

	Register(sessionID, pgid)
	return s, nil
}

func buildEnv(overrides map[string]string) []string {
	base := map[string]string{
		"TERM":      "xterm-256color",
		"COLORTERM": "truecolor",
		"LANG":      "en_US.UTF-8",
		"CI":        "0",
	}
	env := os.Environ()
	set := make(map[string]bool, len(env))
	for _, kv := range env {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			set[kv[:i]] = true
		}
	}
	for k, v := range base {
		if !set[k] {
			env = append(env, k+"="+v)
			set[k] = true
		}
	}
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}

// WriteLiteral writes raw bytes to the PTY master, retrying on EINTR and
// backing off on EAGAIN up to 200 times (5ms each) before failing.
func (s *Session) WriteLiteral(data []byte) error {
	for len(data) > 0 {
		n, err := unix.Write(s.fd, data)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				ok := false
				for i := 0; i < 200; i++ {
					time.Sleep(5 * time.Millisecond)
					n2, err2 := unix.Write(s.fd, data)
					if err2 == nil {
						n, err, ok = n2, nil, true
						break
					}
					if err2 != unix.EAGAIN && err2 != unix.EWOULDBLOCK {
						return fmt.Errorf("write to pty: %w", err2)
					}
				}
				if !ok {
					return fmt.Errorf("write to PTY would block")
				}
			} else {
				return fmt.Errorf("write to pty: %w", err)
			}
		}
		data = data[n:]
	}
	return nil
}

// WriteKey writes a symbolic keystroke (or, for unknown names, the literal
// bytes of the name) to the PTY master.
func (s *Session) WriteKey(k Key) error {
	return s.WriteLiteral(keyToBytes(k))
}

// drain performs repeated non-blocking reads until EAGAIN, answering any
// terminal device queries found in the stream before appending the rest to
// the bounded capture buffer.
func (s *Session) drain() {
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(s.fd, buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			s.answerQueries(chunk)
			s.append(chunk)
		}
		if err != nil || n <= 0 {
			return
		}
	}
}

func (s *Session) answerQueries(chunk []byte) {
	for i := range queries {
		q := queries[i]
		combined := append(append([]byte(nil), s.queryTails[i]...), chunk...)
		searchFrom := 0
		for {
			rel := bytes.Index(combined[searchFrom:], q.pattern)
			if rel < 0 {
				break
			}
			s.WriteLiteral(q.reply)
			searchFrom += rel + len(q.pattern)
		}
		tailLen := len(q.pattern) - 1
		if len(chunk) >= tailLen {
			s.queryTails[i] = append([]byte(nil), chunk[len(chunk)-tailLen:]...)
		} else if len(combined) >= tailLen {
			s.queryTails[i] = append([]byte(nil), combined[len(combined)-tailLen:]...)
		}
	}
}

func (s *Session) append(chunk []byte) {
	if s.debugFile != nil {
		s.debugFile.Write(chunk)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, chunk...)
	if excess := len(s.buf) - maxBufferBytes; excess > 0 {
		s.buf = append([]byte(nil), s.buf[excess:]...)
	}
}

// CapturePane drains pending reads and returns the current buffer as
// ANSI-stripped, lossily-decoded UTF-8 text. Idempotent when no new output
// has arrived.
func (s *Session) CapturePane() string {
	s.drain()
	s.mu.Lock()
	raw := string(s.buf)
	s.mu.Unlock()
	return StripANSI(strings.ToValidUTF8(raw, "�"))
}

// TryWait reports the child's exit status without blocking. ok is false
// while the process is still running.
func (s *Session) TryWait() (code int, ok bool) {
	if s.cmd.ProcessState != nil {
		return s.cmd.ProcessState.ExitCode(), true
	}
	var ws unix.WaitStatus
	pid, err := unix.Wait4(s.cmd.Process.Pid, &ws, unix.WNOHANG, nil)
	if err != nil || pid == 0 {
		return 0, false
	}
	return ws.ExitStatus(), true
}

// Close tears the session down: best-effort "/exit", master close,
// SIGTERM the process group, poll up to 2s, SIGKILL, reap, unregister.
// Idempotent and safe to call from a defer on every exit path including a
// panicking one.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.WriteLiteral([]byte("/exit\n"))
		s.ptmx.Close()

		unix.Kill(-s.pgid, unix.SIGTERM)

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if _, ok := s.TryWait(); ok {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}
		if _, ok := s.TryWait(); !ok {
			unix.Kill(-s.pgid, unix.SIGKILL)
		}
		s.cmd.Wait()
		if s.debugFile != nil {
			s.debugFile.Close()
		}
		Unregister(s.regID)
	})
	return nil
}
