// This file contains the HTTP transport used to fetch sample scene files. The transport is a thin layer over a fasthttp.Client:
// one GET per file, redirects followed, the body written to "<path>.part" and renamed into place once complete.
//
// The transport never retries and it is up to the caller to stop. Network and HTTP failures are returned as a *TransferError,
// failures to store the body locally as a plain wrapped filesystem error.

package services

import (
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	maxRedirects  = 5
	partialSuffix = ".part"
	userAgent     = "mobilenerf-samples"
)

// Transport downloads the resource at url into the file at path.
type Transport interface {
	Download(url, path string) error
}

// TransferError is returned when a file could not be fetched from the server. Local write failures are not TransferErrors.
// StatusCode is set when the server answered with a non-2xx status, Err when the request itself failed.
type TransferError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransferError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to download %s: HTTP status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// HTTPTransport is a Transport backed by fasthttp.
type HTTPTransport struct {
	client *fasthttp.Client
}

// NewHTTPTransport creates a transport whose reads and writes time out after timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return newHTTPTransport(&fasthttp.Client{
		Name:         userAgent,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
}

func newHTTPTransport(client *fasthttp.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Download fetches url and stores the body at path, replacing any existing file.
func (t *HTTPTransport) Download(url, path string) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := t.client.DoRedirects(req, res, maxRedirects); err != nil {
		return &TransferError{URL: url, Err: err}
	}

	if sc := res.StatusCode(); sc < 200 || sc > 299 {
		return &TransferError{URL: url, StatusCode: sc}
	}

	if err := writeBody(res, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// writeBody writes the response body next to path and renames it into place.
func writeBody(res *fasthttp.Response, path string) error {
	tmp := path + partialSuffix

	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := res.BodyWriteTo(file); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("error saving file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error saving file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error moving file into place: %w", err)
	}
	return nil
}
