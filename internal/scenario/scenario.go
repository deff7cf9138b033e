// Package scenario replays scripted waiter/request interactions against a
// Coordinator and records what happened, so protocol behaviour can be explored
// and checked from YAML files.
package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/assent"
	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpRegister = "register"
	OpSubmit   = "submit"
	OpConsent  = "consent"
	OpDeny     = "deny"
	OpDefer    = "defer" // deny but allow future requests
	OpReset    = "reset"
)

// Waiter replies, performed re-entrantly from the notification callback.
const (
	ReplyNone    = ""
	ReplyConsent = "consent"
	ReplyDeny    = "deny"
	ReplyDefer   = "defer"
	ReplyFail    = "fail"
)

// Scenario is a named list of steps with an optional expected transcript.
type Scenario struct {
	Name   string   `yaml:"name"`
	Steps  []*Step  `yaml:"steps"`
	Expect []string `yaml:"expect,omitempty"`
}

// Step is a single coordinator call. Key names the waiter, Request labels a
// submitted request, Reply sets what a registered waiter does when notified.
type Step struct {
	Op      string `yaml:"op"`
	Key     string `yaml:"key,omitempty"`
	Request string `yaml:"request,omitempty"`
	Reply   string `yaml:"reply,omitempty"`
}

// Result holds the transcript of a run.
type Result struct {
	Name       string
	Transcript []string
}

// Matches reports whether the transcript equals expect; it returns a
// description of the first difference otherwise.
func (r *Result) Matches(expect []string) (bool, string) {
	for i := 0; i < len(expect) || i < len(r.Transcript); i++ {
		var want, got string
		if i < len(expect) {
			want = expect[i]
		}
		if i < len(r.Transcript) {
			got = r.Transcript[i]
		}
		if want != got {
			return false, fmt.Sprintf("line %d: expected %q, got %q", i+1, want, got)
		}
	}
	return true, ""
}

// Decode parses a YAML scenario.
func Decode(data []byte) (*Scenario, error) {
	ret := &Scenario{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return ret, ret.Validate()
}

// Load downloads and decodes a YAML scenario.
func Load(ctx context.Context, URL string) (*Scenario, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %v: %w", URL, err)
	}
	return Decode(data)
}

// Validate checks step operations and replies.
func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		if step == nil {
			return fmt.Errorf("step %d is empty", i+1)
		}
		switch step.Op {
		case OpRegister:
			switch step.Reply {
			case ReplyNone, ReplyConsent, ReplyDeny, ReplyDefer, ReplyFail:
			default:
				return fmt.Errorf("step %d: unsupported reply %q", i+1, step.Reply)
			}
		case OpSubmit, OpConsent, OpDeny, OpDefer, OpReset:
		default:
			return fmt.Errorf("step %d: unsupported op %q", i+1, step.Op)
		}
	}
	return nil
}

// Run executes the scenario against c, or a fresh Coordinator when c is nil.
// Errors returned by the coordinator are recorded in the transcript.
func Run(s *Scenario, c *assent.Coordinator) *Result {
	if c == nil {
		c = assent.New()
	}
	r := &runner{coordinator: c}
	for _, step := range s.Steps {
		r.apply(step)
	}
	return &Result{Name: s.Name, Transcript: r.lines}
}

type runner struct {
	coordinator *assent.Coordinator
	lines       []string
}

func (r *runner) logf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *runner) apply(step *Step) {
	c := r.coordinator
	var err error
	switch step.Op {
	case OpRegister:
		err = c.RegisterWaiter(step.Key, r.waiter, step.Key, step.Reply)
	case OpSubmit:
		var result interface{}
		result, err = c.SubmitRequest(r.request, step.Request)
		if err == nil {
			if assent.IsDeferred(result) {
				r.logf("submit %s: deferred", step.Request)
			} else {
				r.logf("submit %s: %v", step.Request, result)
			}
		}
	case OpConsent:
		err = c.Consent(step.Key)
	case OpDeny:
		err = c.Deny(step.Key)
	case OpDefer:
		err = c.DenyButAllowFuture(step.Key)
	case OpReset:
		c.Reset()
		r.logf("reset")
	}
	if err != nil {
		r.logf("%s %s: error: %v", step.Op, strings.TrimSpace(step.Key+" "+step.Request), err)
	}
}

func (r *runner) waiter(receiver interface{}, args ...interface{}) (interface{}, error) {
	key := receiver.(string)
	reply, _ := args[0].(string)
	r.logf("notify %s", key)
	switch reply {
	case ReplyConsent:
		return nil, r.coordinator.Consent(key)
	case ReplyDeny:
		return nil, r.coordinator.Deny(key)
	case ReplyDefer:
		return nil, r.coordinator.DenyButAllowFuture(key)
	case ReplyFail:
		return nil, fmt.Errorf("waiter %s failed", key)
	}
	return nil, nil
}

func (r *runner) request(receiver interface{}, _ ...interface{}) (interface{}, error) {
	r.logf("run %v", receiver)
	return "done", nil
}
