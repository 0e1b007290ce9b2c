package idgen

import "github.com/google/uuid"

// NewFunc produces identifiers; tests may swap it to make ids predictable.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }
