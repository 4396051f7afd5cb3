// File: internal/network/httpclient.go
package network

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/xkilldash9x/botctl/internal/config"
)

// Defaults sized for an operator console talking to a single bot instance.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultDialTimeout   = 5 * time.Second
	DefaultHeaderTimeout = 30 * time.Second
	DefaultIdleConns     = 4
	DefaultIdleTimeout   = 90 * time.Second

	keepAlive = 30 * time.Second
)

// Options tune the connection to the bot.
type Options struct {
	// Timeout bounds a whole request. Zero disables it.
	Timeout       time.Duration
	DialTimeout   time.Duration
	HeaderTimeout time.Duration
	IdleConns     int
	IdleTimeout   time.Duration

	TLS         *tls.Config
	InsecureTLS bool
	HTTP2       bool
	// NoCompression sends no Accept-Encoding and leaves bodies untouched.
	NoCompression bool
	Proxy         *url.URL

	Logger *zap.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout:       DefaultTimeout,
		DialTimeout:   DefaultDialTimeout,
		HeaderTimeout: DefaultHeaderTimeout,
		IdleConns:     DefaultIdleConns,
		IdleTimeout:   DefaultIdleTimeout,
		Logger:        zap.NewNop(),
	}
}

// OptionsFor maps the api section of the configuration onto transport options.
func OptionsFor(cfg config.APIConfig, logger *zap.Logger) (Options, error) {
	o := DefaultOptions()
	o.Timeout = cfg.Timeout
	o.InsecureTLS = cfg.IgnoreTLSErrors
	o.HTTP2 = cfg.ForceHTTP2
	o.NoCompression = cfg.DisableCompression
	if logger != nil {
		o.Logger = logger
	}
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return Options{}, fmt.Errorf("invalid proxy URL: %w", err)
		}
		o.Proxy = proxy
	}
	return o, nil
}

// Transport builds the http.Transport. Response decoding is left to
// CompressionMiddleware, so the transport never asks for gzip itself.
func (o Options) Transport() *http.Transport {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dialer := &net.Dialer{Timeout: o.DialTimeout, KeepAlive: keepAlive}
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       o.tlsConfig(),
		TLSHandshakeTimeout:   o.DialTimeout,
		MaxIdleConns:          o.IdleConns,
		MaxIdleConnsPerHost:   o.IdleConns,
		IdleConnTimeout:       o.IdleTimeout,
		ResponseHeaderTimeout: o.HeaderTimeout,
		DisableCompression:    true,
		ForceAttemptHTTP2:     o.HTTP2,
	}
	if o.Proxy != nil {
		t.Proxy = http.ProxyURL(o.Proxy)
	}
	if o.HTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			logger.Warn("HTTP/2 unavailable, using HTTP/1.1.", zap.Error(err))
		}
	}
	return t
}

func (o Options) tlsConfig() *tls.Config {
	var c *tls.Config
	if o.TLS != nil {
		c = o.TLS.Clone()
	} else {
		c = &tls.Config{ClientSessionCache: tls.NewLRUClientSessionCache(8)}
	}
	if c.MinVersion == 0 {
		c.MinVersion = tls.VersionTLS12
	}
	c.InsecureSkipVerify = o.InsecureTLS
	return c
}

// NewClient returns an http.Client for the options. Unless NoCompression is
// set, its transport negotiates and decodes gzip, deflate and brotli bodies.
func NewClient(o Options) *http.Client {
	var rt http.RoundTripper = o.Transport()
	if !o.NoCompression {
		rt = NewCompressionMiddleware(rt)
	}
	return &http.Client{Transport: rt, Timeout: o.Timeout}
}
