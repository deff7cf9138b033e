package idgen

import "github.com/google/uuid"

// NewFunc produces request identifiers. Tests may replace it.
var NewFunc = func() string { return uuid.New().String() }

// NewRequestID returns a new identifier for a submitted request.
func NewRequestID() string { return NewFunc() }
