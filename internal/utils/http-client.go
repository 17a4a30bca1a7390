package utils

import (
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultClientTimeout = 60 * time.Second
	defaultIdleTimeout   = 60 * time.Second
)

type HTTPClientConfig struct {
	Timeout        time.Duration
	KATimeout      time.Duration
	ProxyURL       string
	ProxyUsername  string
	ProxyPassword  string
	UserAgent      string
	Headers        map[string]string
	HighThreadMode bool // tuned sockets for many parallel range requests
}

// HTTPDoer is what downloaders need from a client; tests pass plain
// *http.Client values.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RuanHTTPClient stamps the configured user agent and extra headers on
// every request.
type RuanHTTPClient struct {
	client    *http.Client
	userAgent string
	headers   http.Header
}

func NewRuanHTTPClient(cfg HTTPClientConfig) *RuanHTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultClientTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = ToolUserAgent
	}
	headers := make(http.Header, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}
	return &RuanHTTPClient{
		client:    &http.Client{Timeout: timeout, Transport: newTransport(cfg)},
		userAgent: ua,
		headers:   headers,
	}
}

func newTransport(cfg HTTPClientConfig) *http.Transport {
	idle := cfg.KATimeout
	if idle == 0 {
		idle = defaultIdleTimeout
	}
	transport := &http.Transport{
		Proxy:               proxyFor(cfg),
		IdleConnTimeout:     idle,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		// Byte ranges must map onto the raw body.
		DisableCompression: true,
	}
	if cfg.HighThreadMode {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			Control: func(network, address string, c syscall.RawConn) error {
				return c.Control(setSocketOptions)
			},
		}
		transport.DialContext = dialer.DialContext
	}
	return transport
}

// proxyFor returns the transport proxy func. Without an explicit proxy the
// environment (HTTP_PROXY and friends) decides.
func proxyFor(cfg HTTPClientConfig) func(*http.Request) (*url.URL, error) {
	if cfg.ProxyURL == "" {
		return http.ProxyFromEnvironment
	}
	proxyURL, err := url.Parse(cfg.ProxyURL)
	if err != nil || proxyURL.Host == "" {
		log.Warn().Str("op", "utils/http-client").Msgf("ignoring invalid proxy URL %q", cfg.ProxyURL)
		return http.ProxyFromEnvironment
	}
	switch {
	case cfg.ProxyUsername != "" && cfg.ProxyPassword != "":
		proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
	case cfg.ProxyUsername != "":
		proxyURL.User = url.User(cfg.ProxyUsername)
	}
	return http.ProxyURL(proxyURL)
}

// Do sends req with the client's user agent and extra headers. A Range
// header already on the request is never overridden, since chunk requests
// depend on it.
func (c *RuanHTTPClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		if k == "Range" && req.Header.Get("Range") != "" {
			continue
		}
		req.Header[k] = v
	}
	return c.client.Do(req)
}
