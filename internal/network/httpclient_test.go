// File: internal/network/httpclient_test.go
package network

import (
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/botctl/internal/config"
)

func TestOptionsFor(t *testing.T) {
	t.Run("maps the api section", func(t *testing.T) {
		o, err := OptionsFor(config.APIConfig{
			Timeout:            5 * time.Second,
			IgnoreTLSErrors:    true,
			ForceHTTP2:         true,
			DisableCompression: true,
			ProxyURL:           "http://proxy.local:3128",
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, 5*time.Second, o.Timeout)
		assert.Equal(t, DefaultHeaderTimeout, o.HeaderTimeout)
		assert.True(t, o.InsecureTLS)
		assert.True(t, o.HTTP2)
		assert.True(t, o.NoCompression)
		require.NotNil(t, o.Proxy)
		assert.Equal(t, "proxy.local:3128", o.Proxy.Host)
		assert.NotNil(t, o.Logger)
	})

	t.Run("rejects a bad proxy", func(t *testing.T) {
		_, err := OptionsFor(config.APIConfig{ProxyURL: "http://[::1"}, nil)
		assert.ErrorContains(t, err, "invalid proxy URL")
	})
}

func TestTLSConfig(t *testing.T) {
	t.Run("secure defaults", func(t *testing.T) {
		c := DefaultOptions().tlsConfig()
		assert.Equal(t, uint16(tls.VersionTLS12), c.MinVersion)
		assert.False(t, c.InsecureSkipVerify)
		assert.NotNil(t, c.ClientSessionCache)
	})

	t.Run("custom config is cloned", func(t *testing.T) {
		custom := &tls.Config{ServerName: "bot.internal"}
		o := DefaultOptions()
		o.TLS = custom
		o.InsecureTLS = true

		c := o.tlsConfig()
		assert.Equal(t, "bot.internal", c.ServerName)
		assert.Equal(t, uint16(tls.VersionTLS12), c.MinVersion)
		assert.True(t, c.InsecureSkipVerify)
		assert.False(t, custom.InsecureSkipVerify, "caller's config must not change")
	})
}

func TestTransport(t *testing.T) {
	o, err := OptionsFor(config.APIConfig{ProxyURL: "http://proxy.local:3128"}, nil)
	require.NoError(t, err)
	o.IdleConns = 3
	o.IdleTimeout = time.Minute

	tr := o.Transport()
	assert.True(t, tr.DisableCompression, "decoding is delegated to the middleware")
	assert.Equal(t, 3, tr.MaxIdleConns)
	assert.Equal(t, 3, tr.MaxIdleConnsPerHost)
	assert.Equal(t, time.Minute, tr.IdleConnTimeout)

	req := httptest.NewRequest(http.MethodGet, "http://bot.local/view_params", nil)
	got, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, o.Proxy, got)
}

func TestNewClient(t *testing.T) {
	t.Run("wraps transport with compression middleware", func(t *testing.T) {
		client := NewClient(DefaultOptions())
		_, ok := client.Transport.(*CompressionMiddleware)
		assert.True(t, ok)
		assert.Equal(t, DefaultTimeout, client.Timeout)
	})

	t.Run("compression can be disabled", func(t *testing.T) {
		o := DefaultOptions()
		o.NoCompression = true
		_, ok := NewClient(o).Transport.(*http.Transport)
		assert.True(t, ok)
	})

	t.Run("round trips against a server", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<b>ok</b>"))
		}))
		defer server.Close()

		resp, err := NewClient(DefaultOptions()).Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "<b>ok</b>", string(body))
	})
}
