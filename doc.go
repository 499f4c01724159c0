/*
Package headparse's module provides a zero-copy, zero-allocation,
restartable parser for HTTP/1.x request and response heads, plus the
surrounding server plumbing (pooling, epoll/kqueue readiness,
radix-tree routing) needed to put it to work.

The parser itself lives in core/headparse. It never allocates and never
copies: every parsed field is a slice into the caller's own buffer, and
a short read is reported as Incomplete rather than an error -- the
caller appends more bytes and reparses from the start of the same
buffer. See core/headparse's own doc comment for the full contract.

Quick Start

	package main

	import (
	    "github.com/kairoslabs/headparse/app"
	    "github.com/kairoslabs/headparse/config"
	    "github.com/kairoslabs/headparse/core"
	    "github.com/kairoslabs/headparse/core/headparse"
	)

	func main() {
	    cfg := config.New()
	    application := app.New(cfg)

	    engine := application.Engine()
	    engine.GET("/hello", func(req *headparse.Request, params map[string]string, resp *core.ResponseBuilder) {
	        resp.Status = 200
	        resp.Body = []byte("Hello, World!")
	    })

	    application.Run()
	}

Modules

The module is organized into:

  - core/headparse: the zero-allocation request/response head parser
  - core/optimize: CPU feature detection backing the parser's wide-lane scan tier
  - core/http: a net.Conn-based pipelining driver and a plain ListenAndServe
  - core/router: radix-tree (method, path) dispatch
  - core/poller: epoll/kqueue readiness multiplexing
  - core/pools: byte, buffer, connection, and worker pooling
  - core: the engine tying poller, pools, router, and headparse together
  - config: flag- and environment-based configuration
  - app: process wiring and signal-driven shutdown
  - cmd/headbench: a standalone throughput benchmark for the parser

Non-goals

Body parsing, chunked transfer decoding, HTTP/2, TLS, WebSocket
upgrades, and response header synthesis beyond status line,
Content-Length, and Connection are all out of scope -- this module
parses heads, nothing past them.
*/
package headparse
