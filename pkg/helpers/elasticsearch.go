package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultESAddr = "http://localhost:9200"

// NewESClient builds a client for the user projection. Basic auth is used
// when username is set; overloaded-node responses are retried.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	if len(addrs) == 0 {
		addrs = []string{defaultESAddr}
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:            addrs,
		Username:             username,
		Password:             password,
		RetryOnStatus:        []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		MaxRetries:           3,
		EnableRetryOnTimeout: true,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
}
