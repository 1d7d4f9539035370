package offcloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the canonical lifecycle state of a submitted job.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusDownloaded  Status = "downloaded"
	StatusError       Status = "error"
	StatusUnknown     Status = "unknown"
)

// ParseStatus maps a raw service status string onto the canonical set.
// Freshly created jobs report "created", which is the same state as queued.
// Anything unrecognized, including an empty string, becomes StatusUnknown.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "created", "queued":
		return StatusQueued
	case "downloading":
		return StatusDownloading
	case "processing":
		return StatusProcessing
	case "downloaded":
		return StatusDownloaded
	case "error":
		return StatusError
	}
	return StatusUnknown
}

// Terminal reports whether the status ends a job's lifecycle.
func (s Status) Terminal() bool {
	return s == StatusDownloaded || s == StatusError
}

// StatusRecord is one normalized snapshot of a job. Downloaded carries the
// byte count the service reports under "amount". RawError is the service's
// own failure text and is only meaningful when Status is StatusError.
type StatusRecord struct {
	Status      Status
	FileName    string
	FileSize    uint64
	Downloaded  uint64
	IsDirectory bool
	RawError    string
}

type statusPayload struct {
	Status      string `json:"status"`
	FileName    string `json:"fileName"`
	FileSize    uint64 `json:"fileSize"`
	Amount      uint64 `json:"amount"`
	IsDirectory bool   `json:"isDirectory"`
	Error       string `json:"error"`
}

// decodeStatusRecord normalizes the two envelope shapes the status endpoints
// use. Some responses nest the record under a "status" object; others put the
// fields at the top level with "status" as a plain string. Both shapes decode
// to the same StatusRecord.
func decodeStatusRecord(raw []byte) (StatusRecord, error) {
	var probe struct {
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return StatusRecord{}, fmt.Errorf("decode status response: %w", err)
	}
	src := raw
	if nested := bytes.TrimSpace(probe.Status); len(nested) > 0 && nested[0] == '{' {
		src = nested
	}
	var p statusPayload
	if err := json.Unmarshal(src, &p); err != nil {
		return StatusRecord{}, fmt.Errorf("decode status response: %w", err)
	}
	return StatusRecord{
		Status:      ParseStatus(p.Status),
		FileName:    p.FileName,
		FileSize:    p.FileSize,
		Downloaded:  p.Amount,
		IsDirectory: p.IsDirectory,
		RawError:    p.Error,
	}, nil
}
