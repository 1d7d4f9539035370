package offcloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for matching classified failures with errors.Is. The
// structured details live on *Error and are reachable with errors.As.
var (
	ErrAuthentication     = errors.New("authentication failed")
	ErrNotFound           = errors.New("resource not found")
	ErrRateLimited        = errors.New("rate limited")
	ErrTransient          = errors.New("temporary service error")
	ErrFeatureUnavailable = errors.New("feature not available")

	// ErrNoDownloadableContent reports that neither content endpoint produced
	// a usable entry for a completed job.
	ErrNoDownloadableContent = errors.New("no downloadable content")
)

// ErrorKind identifies which class of service failure an Error represents.
type ErrorKind int

const (
	KindService ErrorKind = iota
	KindAuth
	KindNotFound
	KindRateLimited
	KindTransient
	KindFeatureUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "authentication failed"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	case KindTransient:
		return "temporary error"
	case KindFeatureUnavailable:
		return "feature unavailable"
	default:
		return "service error"
	}
}

// Error is a classified failure reported by the service. StatusCode is zero
// when the failure came from a 2xx body marker rather than an HTTP status.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Feature    string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("offcloud: ")
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	switch {
	case e.Kind == KindFeatureUnavailable && e.Feature != "":
		b.WriteString(": ")
		b.WriteString(e.Feature)
	case e.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is maps each error kind onto its sentinel so callers can use errors.Is
// without reaching for the concrete type.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.Kind == KindAuth
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrTransient:
		return e.Kind == KindTransient
	case ErrFeatureUnavailable:
		return e.Kind == KindFeatureUnavailable
	}
	return false
}

// DownloadFailedError reports a job that reached the error status. The last
// observed record is attached so callers can render what the service knew.
type DownloadFailedError struct {
	Record StatusRecord
}

func (e *DownloadFailedError) Error() string {
	msg := e.Record.RawError
	if msg == "" {
		msg = "download failed"
	}
	if e.Record.FileName != "" {
		return fmt.Sprintf("offcloud: job failed: %s (%s)", msg, e.Record.FileName)
	}
	return "offcloud: job failed: " + msg
}

// TimeoutError reports that a job did not reach a terminal status within the
// configured wall-clock window.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("offcloud: job did not complete within %s", e.Elapsed.Round(time.Second))
}

// temporaryErrorMarker is the exact error string the service uses to flag a
// retryable hiccup in an otherwise successful response.
const temporaryErrorMarker = "Temporary error"

// classifyResponse is the single choke point that turns an HTTP status and
// response body into a classified error. It returns nil when the response
// should pass through to decoding.
//
// The service reports malformed request bodies as 502, so that status maps
// to a service error rather than a gateway problem. 2xx bodies are probed
// for the service's JSON error markers; non-JSON bodies pass through.
func classifyResponse(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindAuth, StatusCode: status, Message: "invalid or missing API key"}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: status, Message: "no such resource"}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, StatusCode: status, Message: "slow down"}
	case status == http.StatusBadGateway:
		return &Error{Kind: KindService, StatusCode: status, Message: "malformed request"}
	case status < 200 || status > 299:
		return &Error{Kind: KindService, StatusCode: status, Message: strings.TrimSpace(string(body))}
	}

	var markers struct {
		Error        string `json:"error"`
		NotAvailable string `json:"not_available"`
	}
	if err := json.Unmarshal(body, &markers); err != nil {
		return nil
	}
	switch {
	case markers.Error == temporaryErrorMarker:
		return &Error{Kind: KindTransient, StatusCode: 0, Message: markers.Error}
	case markers.Error != "":
		return &Error{Kind: KindService, StatusCode: 0, Message: markers.Error}
	case markers.NotAvailable != "":
		return &Error{Kind: KindFeatureUnavailable, StatusCode: 0, Feature: markers.NotAvailable}
	}
	return nil
}
