// File: internal/network/compression.go
package network

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// AcceptEncoding is advertised on every request that does not set its own.
const AcceptEncoding = "br, gzip, deflate"

// CompressionMiddleware is an http.RoundTripper that advertises gzip, deflate and
// brotli support and decodes the response body according to Content-Encoding.
type CompressionMiddleware struct {
	Transport http.RoundTripper
}

// NewCompressionMiddleware wraps transport, defaulting to http.DefaultTransport.
func NewCompressionMiddleware(transport http.RoundTripper) *CompressionMiddleware {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &CompressionMiddleware{Transport: transport}
}

// RoundTrip implements http.RoundTripper.
func (cm *CompressionMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		// Clone so the caller's request is left untouched.
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", AcceptEncoding)
	}

	resp, err := cm.Transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if err := DecompressResponse(resp); err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to initialize response decompression: %w", err)
	}
	return resp, nil
}

// decodedBody closes both the decoder and the original body.
type decodedBody struct {
	io.Reader
	closers []io.Closer
}

func (d *decodedBody) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// DecompressResponse replaces resp.Body with a decoding reader for every layer
// listed in Content-Encoding, applied in reverse order. An empty body is left
// undecoded. On success the Content-Encoding and Content-Length headers are
// removed. On error the body may have been partially consumed and must be
// discarded by the caller.
func DecompressResponse(resp *http.Response) error {
	if resp == nil || resp.Body == nil {
		return nil
	}

	var encodings []string
	for _, v := range resp.Header.Values("Content-Encoding") {
		for _, part := range strings.Split(v, ",") {
			if e := strings.ToLower(strings.TrimSpace(part)); e != "" {
				encodings = append(encodings, e)
			}
		}
	}
	if len(encodings) == 0 {
		return nil
	}

	original := resp.Body
	closers := []io.Closer{original}
	buffered := bufio.NewReader(original)
	var reader io.Reader = buffered

	// Error replies and HEAD responses often carry the header with no body.
	if _, err := buffered.Peek(1); errors.Is(err, io.EOF) {
		encodings = nil
	}

	for i := len(encodings) - 1; i >= 0; i-- {
		switch encodings[i] {
		case "gzip", "x-gzip":
			zr, err := gzip.NewReader(reader)
			if err != nil {
				return fmt.Errorf("gzip initialization error: %w", err)
			}
			closers = append([]io.Closer{zr}, closers...)
			reader = zr
		case "deflate":
			dr, err := newDeflateReader(reader)
			if err != nil {
				return fmt.Errorf("deflate initialization error: %w", err)
			}
			closers = append([]io.Closer{dr}, closers...)
			reader = dr
		case "br":
			reader = brotli.NewReader(reader)
		case "identity":
		default:
			return fmt.Errorf("unsupported Content-Encoding layer: %s", encodings[i])
		}
	}

	resp.Body = &decodedBody{Reader: reader, closers: closers}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}

// newDeflateReader accepts both zlib wrapped (RFC 1950) and raw (RFC 1951)
// deflate streams; servers disagree on which one "deflate" means.
func newDeflateReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(header) == 2 && isZlibHeader(header[0], header[1]) {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}

func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
