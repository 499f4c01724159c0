/*
Package headparse is a zero-copy, zero-allocation, restartable parser for
HTTP/1.x request and response message heads: the request line or status
line plus the header block, up to and including the terminating blank line.

The parser never allocates and never touches its input buffer; every
output is a slice that borrows from the buffer the caller passed in.
Callers own that buffer for as long as they keep using the output: once
the buffer is reused or released, every slice produced by a previous
parse call becomes garbage.

Restartability replaces internal buffering. A short read is reported as
Incomplete rather than an error: the caller appends newly received bytes
to the same buffer (keeping whatever was already read) and calls
ParseRequest or ParseResponse again from the start. Nothing under this
package keeps state between calls.

Body decoding, URL and header-value semantics (percent-decoding, folding),
connection management, TLS and HTTP/2+ are explicitly out of scope; see
the package-level tests for the exact boundary between the header block
and the body this parser draws.
*/
package headparse
