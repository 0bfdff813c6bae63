// Package network provides the shared HTTP client and a connectivity
// monitor for playback surfaces.
package network

import (
	"net/http"
	"time"
)

// Client is the HTTP client shared by manifest fetches, hosted-video
// lookups and the release check. Streaming endpoints are latency-bound
// rather than throughput-bound, so the pool is kept warm and the
// header deadline short.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.TLSHandshakeTimeout = 15 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}
