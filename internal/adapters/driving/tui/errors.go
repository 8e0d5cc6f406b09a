package tui

import "errors"

// ErrMissingRouter is returned when the query router is not provided.
var ErrMissingRouter = errors.New("tui: query router is required")
