// Package network provides the pre-configured HTTP clients used for upstream API communication.
package network

import (
	"net/http"
	"time"
)

// Client is the shared HTTP client for upstream API and playlist requests.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// For returns the impersonating client when impersonate is set, the shared client otherwise.
func For(impersonate bool) *http.Client {
	if impersonate {
		return Impersonating
	}
	return Client
}
