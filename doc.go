// Package assent lets independent parts of a program cooperate before a
// destructive or irreversible operation runs.
//
// Interested parties register as waiters. A request submitted while no waiter
// is registered runs immediately; otherwise every waiter is notified and the
// request is held until each of them consents, or one of them vetoes it:
//
//	c := assent.New()
//	_ = c.RegisterWaiter("editor", func(_ interface{}, _ ...interface{}) (interface{}, error) {
//		// save buffers, then
//		return nil, c.Consent("editor")
//	}, nil)
//	result, err := c.SubmitRequest(closeWorkspace, ws)
//	if assent.IsDeferred(result) {
//		// closeWorkspace runs once the last waiter consents
//	}
//
// Everything happens synchronously on the caller's goroutine; waiter callbacks
// may call back into the Coordinator. A Coordinator is not safe for concurrent
// use.
//
// Besides independent instances created with New, the package keeps a
// process-wide default instance reachable through Default and the
// package-level helpers.
package assent
