// Command headbench repeatedly re-parses one fixed request and one
// fixed response, reporting a throughput number -- the same shape as
// picohttpparser's own bench/main.c loop, reimplemented without a test
// framework dependency so it can run standalone in any environment.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kairoslabs/headparse/core/headparse"
	"github.com/kairoslabs/headparse/core/pools"
)

const requestLiteral = "GET /cookies HTTP/1.1\r\n" +
	"Host: 127.0.0.1:8090\r\n" +
	"Connection: keep-alive\r\n" +
	"Cache-Control: max-age=0\r\n" +
	"Accept: text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8\r\n" +
	"User-Agent: Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.17 (KHTML, like Gecko) Chrome/24.0.1312.56 Safari/537.17\r\n" +
	"Accept-Encoding: gzip,deflate,sdch\r\n" +
	"Accept-Language: en-US,en;q=0.8\r\n" +
	"Accept-Charset: ISO-8859-1,utf-8;q=0.7,*;q=0.3\r\n" +
	"Cookie: name=wookie\r\n" +
	"\r\n"

const responseLiteral = "HTTP/1.1 200 OK\r\n" +
	"Content-Type: text/html; charset=UTF-8\r\n" +
	"Content-Length: 0\r\n" +
	"Connection: keep-alive\r\n" +
	"\r\n"

func main() {
	iterations := flag.Int("n", 10_000_000, "number of parse iterations")
	target := flag.String("target", "request", "what to parse: request or response")
	workers := flag.Int("workers", 1, "number of concurrent workers (1 runs single-threaded)")
	flag.Parse()

	var elapsed time.Duration
	switch {
	case *workers > 1 && *target == "request":
		elapsed = benchRequestConcurrent(*iterations, *workers)
	case *workers > 1 && *target == "response":
		elapsed = benchResponseConcurrent(*iterations, *workers)
	case *target == "request":
		elapsed = benchRequest(*iterations)
	case *target == "response":
		elapsed = benchResponse(*iterations)
	default:
		fmt.Fprintf(os.Stderr, "headbench: unknown -target %q (want request or response)\n", *target)
		os.Exit(2)
	}

	nsPerOp := float64(elapsed.Nanoseconds()) / float64(*iterations)
	fmt.Printf("%s: %d iterations across %d worker(s) in %s (%.1f ns/op, %.2fM ops/sec)\n",
		*target, *iterations, *workers, elapsed, nsPerOp, 1000.0/nsPerOp)
}

func benchRequest(n int) time.Duration {
	buf := []byte(requestLiteral)
	var req headparse.Request

	start := time.Now()
	for i := 0; i < n; i++ {
		result, _ := headparse.ParseRequest(buf, &req)
		if result != headparse.Success {
			panic(fmt.Sprintf("headbench: unexpected parse result %v on iteration %d", result, i))
		}
	}
	return time.Since(start)
}

func benchResponse(n int) time.Duration {
	buf := []byte(responseLiteral)
	var resp headparse.Response

	start := time.Now()
	for i := 0; i < n; i++ {
		result, _ := headparse.ParseResponse(buf, &resp)
		if result != headparse.Success {
			panic(fmt.Sprintf("headbench: unexpected parse result %v on iteration %d", result, i))
		}
	}
	return time.Since(start)
}

// benchRequestConcurrent splits n iterations across workers, each
// running on the work-stealing pool against its own buffer and Request
// -- independent parse calls with no shared mutable state between
// them, the concurrency model the headparse package is built for.
func benchRequestConcurrent(n, workers int) time.Duration {
	pool := pools.NewWorkerPool(workers)
	defer pool.Close()

	share := n / workers
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < workers; w++ {
		count := share
		if w == workers-1 {
			count += n - share*workers
		}
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			buf := []byte(requestLiteral)
			var req headparse.Request
			for i := 0; i < count; i++ {
				result, _ := headparse.ParseRequest(buf, &req)
				if result != headparse.Success {
					panic(fmt.Sprintf("headbench: unexpected parse result %v", result))
				}
			}
		})
	}
	wg.Wait()
	return time.Since(start)
}

// benchResponseConcurrent is benchRequestConcurrent's counterpart for
// ParseResponse.
func benchResponseConcurrent(n, workers int) time.Duration {
	pool := pools.NewWorkerPool(workers)
	defer pool.Close()

	share := n / workers
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < workers; w++ {
		count := share
		if w == workers-1 {
			count += n - share*workers
		}
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			buf := []byte(responseLiteral)
			var resp headparse.Response
			for i := 0; i < count; i++ {
				result, _ := headparse.ParseResponse(buf, &resp)
				if result != headparse.Success {
					panic(fmt.Sprintf("headbench: unexpected parse result %v", result))
				}
			}
		})
	}
	wg.Wait()
	return time.Since(start)
}
