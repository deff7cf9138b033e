package assent

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/viant/assent/internal/clock"
	"github.com/viant/assent/internal/idgen"
	"github.com/viant/assent/internal/registry"
	"github.com/viant/assent/policy"
	"github.com/viant/assent/service/messaging"
	"github.com/viant/assent/stats"
	"github.com/viant/assent/tracing"
)

// Coordinator owns a waiter registry and at most one pending request.
// Instances never share state.
type Coordinator struct {
	waiters *registry.Registry[*Invocation]
	pending *Request

	keys   policy.KeyValidator
	logger zerolog.Logger
	tracer *tracing.Tracer
	events messaging.Queue[Event]
	stats  *stats.Stats
	ctx    context.Context
}

// New creates an empty Coordinator ready for use.
func New(options ...Option) *Coordinator {
	ret := &Coordinator{
		waiters: registry.New[*Invocation](),
		keys:    policy.Default(),
		logger:  zerolog.Nop(),
		stats:   &stats.Stats{},
		ctx:     context.Background(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// RegisterWaiter asks to be consulted before any request proceeds. fn is
// invoked with receiver and args whenever a request is submitted. Registering
// an existing key replaces its callback.
func (c *Coordinator) RegisterWaiter(key string, fn Func, receiver interface{}, args ...interface{}) error {
	if fn == nil {
		return fmt.Errorf("%w: waiter %q has no callback", ErrInvalidCallback, key)
	}
	if err := c.keys.ValidateKey(key); err != nil {
		return err
	}
	isNew := c.waiters.Put(key, &Invocation{Func: fn, Receiver: receiver, Args: args})
	if isNew {
		c.stats.Update(stats.Delta{Waiters: 1})
	}
	c.logger.Debug().Str("key", key).Bool("replaced", !isNew).Msg("waiter registered")
	c.publish(TopicWaiterRegistered, "", key)
	return nil
}

// Consent removes the waiter and, if it was the last one, grants the pending
// request. The granted callback's error is returned. Unknown keys are ignored.
func (c *Coordinator) Consent(key string) error {
	if err := c.keys.ValidateKey(key); err != nil {
		return err
	}
	return c.removeWaiter(key)
}

// DenyButAllowFuture vetoes the pending request and removes the waiter, so it
// will not be consulted about later requests. Unknown keys are ignored.
func (c *Coordinator) DenyButAllowFuture(key string) error {
	if err := c.keys.ValidateKey(key); err != nil {
		return err
	}
	if !c.waiters.Has(key) {
		return nil
	}
	if req := c.cancel(); req != nil {
		c.stats.Update(stats.Delta{Cancelled: 1})
		c.logger.Debug().Str("key", key).Str("request", req.ID).Msg("request cancelled")
		c.publish(TopicRequestCancelled, req.ID, key)
	}
	return c.removeWaiter(key)
}

// Deny vetoes the pending request; the waiter stays registered. Unknown keys
// are ignored.
func (c *Coordinator) Deny(key string) error {
	if err := c.keys.ValidateKey(key); err != nil {
		return err
	}
	if !c.waiters.Has(key) {
		return nil
	}
	if req := c.cancel(); req != nil {
		c.stats.Update(stats.Delta{Denied: 1})
		c.logger.Debug().Str("key", key).Str("request", req.ID).Msg("request denied")
		c.publish(TopicRequestDenied, req.ID, key)
	}
	return nil
}

// SubmitRequest runs fn(receiver, args...) right away when no waiter is
// registered and returns its result. Otherwise the request is held, every
// waiter is notified, and Deferred is returned; fn then runs when the last
// waiter consents.
//
// Waiter callbacks run in registration order over the keys registered when
// notification starts. Their errors and panics are discarded. A waiter that
// was removed before its turn is skipped; a veto from within a callback does
// not stop the remaining waiters from being notified.
func (c *Coordinator) SubmitRequest(fn Func, receiver interface{}, args ...interface{}) (interface{}, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: request has no callback", ErrInvalidCallback)
	}
	invocation := &Invocation{Func: fn, Receiver: receiver, Args: args}
	if c.waiters.Len() == 0 {
		c.stats.Update(stats.Delta{Submitted: 1, Immediate: 1})
		c.logger.Debug().Msg("request granted immediately")
		return invocation.Call()
	}
	if c.pending != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPending, c.pending.ID)
	}

	req := &Request{
		ID:          idgen.NewRequestID(),
		SubmittedAt: clock.Now(),
		Invocation:  invocation,
	}
	c.pending = req
	c.stats.Update(stats.Delta{Submitted: 1, Deferred: 1})
	c.logger.Debug().Str("request", req.ID).Int("waiters", c.waiters.Len()).Msg("request deferred")
	c.publish(TopicRequestSubmitted, req.ID, "")

	_, span := c.tracer.Start(c.ctx, "assent.submit")
	span.WithAttributes(map[string]string{
		"request.id": req.ID,
		"waiters":    strconv.Itoa(c.waiters.Len()),
	})
	c.notifyWaiters(span)
	tracing.EndSpan(span, nil)
	return Deferred, nil
}

// Reset drops the pending request without running it and removes every
// waiter.
func (c *Coordinator) Reset() {
	removed := c.waiters.Len()
	c.pending = nil
	c.waiters.Clear()
	c.stats.Update(stats.Delta{Resets: 1, Waiters: -removed})
	c.logger.Debug().Int("waiters", removed).Msg("coordinator reset")
	c.publish(TopicReset, "", "")
}

// Waiters returns registered keys in registration order.
func (c *Coordinator) Waiters() []string {
	return c.waiters.Keys()
}

// WaiterCount returns the number of registered waiters.
func (c *Coordinator) WaiterCount() int {
	return c.waiters.Len()
}

// IsRegistered reports whether key is registered.
func (c *Coordinator) IsRegistered(key string) bool {
	return c.waiters.Has(key)
}

// Pending returns a copy of the request awaiting consent.
func (c *Coordinator) Pending() (Request, bool) {
	if c.pending == nil {
		return Request{}, false
	}
	return *c.pending, true
}

// Events returns the lifecycle event queue, or nil when events are disabled.
func (c *Coordinator) Events() messaging.Queue[Event] {
	return c.events
}

// Stats returns a snapshot of the request counters.
func (c *Coordinator) Stats() stats.Counters {
	return c.stats.Snapshot()
}

func (c *Coordinator) notifyWaiters(span *tracing.Span) {
	for _, key := range c.waiters.Keys() {
		waiter, ok := c.waiters.Get(key)
		if !ok {
			continue
		}
		span.AddEvent("waiter.notified", map[string]string{"waiter.key": key})
		notify(waiter)
	}
}

// notify runs a waiter callback; failures are not reported.
func notify(waiter *Invocation) {
	defer func() { _ = recover() }()
	_, _ = waiter.Call()
}

func (c *Coordinator) removeWaiter(key string) error {
	if !c.waiters.Delete(key) {
		return nil
	}
	c.stats.Update(stats.Delta{Waiters: -1})
	c.logger.Debug().Str("key", key).Msg("waiter removed")
	c.publish(TopicWaiterRemoved, "", key)
	if c.waiters.Len() == 0 {
		return c.grant()
	}
	return nil
}

// grant clears the pending slot before running the request so that
// re-entrant calls from the callback cannot run it twice.
func (c *Coordinator) grant() error {
	req := c.pending
	if req == nil {
		return nil
	}
	c.pending = nil
	c.stats.Update(stats.Delta{Granted: 1})
	c.logger.Debug().Str("request", req.ID).Msg("request granted")
	c.publish(TopicRequestGranted, req.ID, "")

	_, span := c.tracer.Start(c.ctx, "assent.grant")
	span.WithAttributes(map[string]string{"request.id": req.ID})
	_, err := req.Invocation.Call()
	tracing.EndSpan(span, err)
	return err
}

func (c *Coordinator) cancel() *Request {
	req := c.pending
	c.pending = nil
	return req
}

func (c *Coordinator) publish(topic, requestID, key string) {
	if c.events == nil {
		return
	}
	_ = c.events.Publish(c.ctx, &Event{
		Topic:     topic,
		RequestID: requestID,
		Key:       key,
		CreatedAt: clock.Now(),
	})
}
