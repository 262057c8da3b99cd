package clients

import (
	"net"
	"net/http"
	"time"
)

// DefaultTransport returns the pooled transport shared by the platform
// API clients. Connection counts are capped so a stalled platform API
// cannot pile up sockets.
func DefaultTransport() *http.Transport {
	return &http.Transport{
		MaxConnsPerHost:     20,
		MaxIdleConnsPerHost: 4,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
