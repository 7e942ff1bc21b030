package termio

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// registry tracks every live child process group for this process so a
// signal handler (restricted context: no allocation, no locks it doesn't
// already own) or a --cleanup invocation can tear them all down without
// depending on per-session cancellation plumbing. One flag, many
// cooperative readers.
type registry struct {
	mu     sync.Mutex
	groups map[string]int // session id -> process group id
}

var globalRegistry = &registry{groups: make(map[string]int)}
var shutdownRequested atomic.Bool

// Register records a live process group under the given session id.
func Register(sessionID string, pgid int) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.groups[sessionID] = pgid
}

// Unregister removes a session's process group from the registry.
func Unregister(sessionID string) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	delete(globalRegistry.groups, sessionID)
}

// Cleanup SIGKILLs every process group currently registered in this
// process. It never touches groups registered by a different invocation;
// the registry is strictly per-process.
func Cleanup() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	for id, pgid := range globalRegistry.groups {
		_ = unix.Kill(-pgid, unix.SIGKILL)
		delete(globalRegistry.groups, id)
	}
}

// RequestShutdown raises the process-wide shutdown flag. Every wait loop
// observes it on its next tick.
func RequestShutdown() {
	shutdownRequested.Store(true)
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	for _, pgid := range globalRegistry.groups {
		_ = unix.Kill(-pgid, unix.SIGTERM)
	}
}

// ShutdownRequested reports whether RequestShutdown has been called.
func ShutdownRequested() bool {
	return shutdownRequested.Load()
}
