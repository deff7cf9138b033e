package assent

import "time"

// Func is a callback. receiver and args are the values captured when the
// callback was registered or submitted, replayed unchanged.
type Func func(receiver interface{}, args ...interface{}) (interface{}, error)

// Invocation binds a Func to its receiver and arguments.
type Invocation struct {
	Func     Func
	Receiver interface{}
	Args     []interface{}
}

// Call invokes the bound function.
func (i *Invocation) Call() (interface{}, error) {
	return i.Func(i.Receiver, i.Args...)
}

// Request is an operation held until every registered waiter consents.
type Request struct {
	ID          string
	SubmittedAt time.Time
	Invocation  *Invocation
}

type deferred struct{}

func (deferred) String() string { return "deferred" }

// Deferred is returned by SubmitRequest when the request has been held for
// consent. Its type is unexported, so no callback result can be mistaken for
// it, including a callback that returns false.
var Deferred = deferred{}

// IsDeferred reports whether v is the Deferred sentinel.
func IsDeferred(v interface{}) bool {
	_, ok := v.(deferred)
	return ok
}
