package domain

import "errors"

// Sentinel errors surfaced by pipeline entry points.
var (
	ErrEmptyQuestion = errors.New("empty question")
	ErrNoPages       = errors.New("document has no extractable pages")
)
