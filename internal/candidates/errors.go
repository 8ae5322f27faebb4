package candidates

import "errors"

// ErrNotFound indicates no candidate document matched the lookup.
var ErrNotFound = errors.New("candidate not found")
