package tui

import "errors"

// ErrMissingSearcher is returned when the searcher port is not provided.
var ErrMissingSearcher = errors.New("tui: searcher is required")
