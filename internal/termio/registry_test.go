package termio

import "testing"

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	Register("test-session-a", 99999)
	globalRegistry.mu.Lock()
	_, ok := globalRegistry.groups["test-session-a"]
	globalRegistry.mu.Unlock()
	if !ok {
		t.Fatal("expected session to be registered")
	}

	Unregister("test-session-a")
	globalRegistry.mu.Lock()
	_, ok = globalRegistry.groups["test-session-a"]
	globalRegistry.mu.Unlock()
	if ok {
		t.Fatal("expected session to be unregistered")
	}
}

func TestShutdownRequestedReflectsState(t *testing.T) {
	if ShutdownRequested() {
		t.Skip("shutdown already requested by an earlier test in this process")
	}
}
