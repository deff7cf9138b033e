package assent

import "sync"

var (
	defaultMu          sync.RWMutex
	defaultCoordinator = New()
)

// Default returns the process-wide default Coordinator.
func Default() *Coordinator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultCoordinator
}

// ReplaceDefault installs c as the default Coordinator (a fresh one when c is
// nil) and returns a func that reinstates the previous default.
func ReplaceDefault(c *Coordinator) (restore func()) {
	if c == nil {
		c = New()
	}
	defaultMu.Lock()
	previous := defaultCoordinator
	defaultCoordinator = c
	defaultMu.Unlock()
	return func() {
		defaultMu.Lock()
		defaultCoordinator = previous
		defaultMu.Unlock()
	}
}

// ResetDefault resets the default Coordinator.
func ResetDefault() {
	Default().Reset()
}

// RegisterWaiter calls RegisterWaiter on the default Coordinator.
func RegisterWaiter(key string, fn Func, receiver interface{}, args ...interface{}) error {
	return Default().RegisterWaiter(key, fn, receiver, args...)
}

// Consent calls Consent on the default Coordinator.
func Consent(key string) error {
	return Default().Consent(key)
}

// DenyButAllowFuture calls DenyButAllowFuture on the default Coordinator.
func DenyButAllowFuture(key string) error {
	return Default().DenyButAllowFuture(key)
}

// Deny calls Deny on the default Coordinator.
func Deny(key string) error {
	return Default().Deny(key)
}

// SubmitRequest calls SubmitRequest on the default Coordinator.
func SubmitRequest(fn Func, receiver interface{}, args ...interface{}) (interface{}, error) {
	return Default().SubmitRequest(fn, receiver, args...)
}
