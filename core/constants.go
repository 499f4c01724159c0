package core

import "errors"

// HeaderConnection is the one header name core/engine.go inspects
// itself, to decide keep-alive; every other header is opaque bytes as
// far as this package is concerned.
const HeaderConnection = "Connection"

// ErrTooManyHeaders documents, at the call site, the outcome
// core/headparse itself reports as plain Invalid: a request with more
// headers than fit in the fixed-size array and a request with
// malformed header bytes are indistinguishable from the Result alone,
// so this package can't tell the two apart either.
var ErrTooManyHeaders = errors.New("engine: request exceeded header capacity or was malformed")
