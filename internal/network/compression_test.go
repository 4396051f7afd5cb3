package network

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBody = `{"exchange_name":"binance","symbols":["BTC/USDT","ETH/USDT"]}`

func compressData(t *testing.T, data string, encoding string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error

	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "raw-deflate":
		w, err = flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
	case "br":
		w = brotli.NewWriter(&buf)
	default:
		t.Fatalf("unsupported encoding: %s", encoding)
	}

	_, err = w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestCompressionMiddleware_Integration(t *testing.T) {
	testCases := []struct {
		name     string
		encoding string
		header   string
	}{
		{"Gzip", "gzip", "gzip"},
		{"Zlib deflate", "deflate", "deflate"},
		{"Raw deflate", "raw-deflate", "deflate"},
		{"Brotli", "br", "br"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload := compressData(t, testBody, tc.encoding)
			var gotAccept string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAccept = r.Header.Get("Accept-Encoding")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Content-Encoding", tc.header)
				_, _ = w.Write(payload)
			}))
			defer server.Close()

			client := &http.Client{Transport: NewCompressionMiddleware(nil)}
			resp, err := client.Get(server.URL)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, testBody, string(body))
			assert.Equal(t, AcceptEncoding, gotAccept)
			assert.Empty(t, resp.Header.Get("Content-Encoding"))
			assert.True(t, resp.Uncompressed)
		})
	}
}

func TestCompressionMiddleware_EmptyErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewCompressionMiddleware(nil)}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestCompressionMiddleware_RespectsCallerAcceptEncoding(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept-Encoding")
		_, _ = w.Write([]byte("plain"))
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "identity")

	client := &http.Client{Transport: NewCompressionMiddleware(nil)}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "identity", gotAccept)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(body))
}

func TestDecompressResponse(t *testing.T) {
	t.Run("layered encodings are decoded in reverse", func(t *testing.T) {
		inner := compressData(t, testBody, "deflate")
		outer := compressData(t, string(inner), "gzip")

		resp := &http.Response{
			Header: http.Header{"Content-Encoding": []string{"deflate, gzip"}},
			Body:   io.NopCloser(bytes.NewReader(outer)),
		}
		require.NoError(t, DecompressResponse(resp))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, testBody, string(body))
		require.NoError(t, resp.Body.Close())
	})

	t.Run("no encoding leaves body untouched", func(t *testing.T) {
		original := io.NopCloser(strings.NewReader("x"))
		resp := &http.Response{Header: http.Header{}, Body: original}
		require.NoError(t, DecompressResponse(resp))
		assert.Equal(t, original, resp.Body)
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		resp := &http.Response{
			Header: http.Header{"Content-Encoding": []string{"zstd"}},
			Body:   io.NopCloser(strings.NewReader("x")),
		}
		err := DecompressResponse(resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported Content-Encoding layer: zstd")
	})

	t.Run("corrupt gzip header", func(t *testing.T) {
		resp := &http.Response{
			Header: http.Header{"Content-Encoding": []string{"gzip"}},
			Body:   io.NopCloser(strings.NewReader("not gzip")),
		}
		err := DecompressResponse(resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gzip initialization error")
	})

	t.Run("empty body is not decoded", func(t *testing.T) {
		for _, enc := range []string{"gzip", "deflate", "br", "gzip, br"} {
			resp := &http.Response{
				Header: http.Header{"Content-Encoding": []string{enc}},
				Body:   io.NopCloser(strings.NewReader("")),
			}
			require.NoError(t, DecompressResponse(resp), enc)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, enc)
			assert.Empty(t, body, enc)
			assert.Empty(t, resp.Header.Get("Content-Encoding"), enc)
			require.NoError(t, resp.Body.Close())
		}
	})

	t.Run("nil response", func(t *testing.T) {
		assert.NoError(t, DecompressResponse(nil))
	})
}
