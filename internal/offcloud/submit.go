package offcloud

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// RemoteOptions selects the destination for a remote job. Zero values let
// the service apply the account defaults.
type RemoteOptions struct {
	// RemoteOptionID names a configured external storage account.
	RemoteOptionID string
	// FolderID selects a folder within that account.
	FolderID string
}

// InstantResult is the immediate answer to an instant submission. The
// service resolves the source on the spot instead of queuing a job, so there
// is nothing to poll; URL points at the converted download.
type InstantResult struct {
	RequestID string `json:"requestId"`
	URL       string `json:"url"`
	FileName  string `json:"fileName"`
}

type submitRequest struct {
	URL            string `json:"url"`
	ProxyID        string `json:"proxyId,omitempty"`
	RemoteOptionID string `json:"remoteOptionId,omitempty"`
	FolderID       string `json:"folderId,omitempty"`
}

type submitResponse struct {
	RequestID string `json:"requestId"`
}

// SubmitCloud queues a source for download into the service's own storage.
func (c *Client) SubmitCloud(ctx context.Context, rawURL string) (JobHandle, error) {
	if c == nil {
		return JobHandle{}, fmt.Errorf("client is nil")
	}
	return c.submit(ctx, JobCloud, submitRequest{URL: rawURL})
}

// SubmitRemote queues a source for transfer to an external storage account.
func (c *Client) SubmitRemote(ctx context.Context, rawURL string, opts RemoteOptions) (JobHandle, error) {
	if c == nil {
		return JobHandle{}, fmt.Errorf("client is nil")
	}
	return c.submit(ctx, JobRemote, submitRequest{
		URL:            rawURL,
		RemoteOptionID: opts.RemoteOptionID,
		FolderID:       opts.FolderID,
	})
}

// SubmitInstant converts a source link immediately, optionally through the
// given proxy. Instant jobs never enter the polling lifecycle.
func (c *Client) SubmitInstant(ctx context.Context, rawURL, proxyID string) (InstantResult, error) {
	if c == nil {
		return InstantResult{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(rawURL) == "" {
		return InstantResult{}, fmt.Errorf("url required")
	}
	var payload InstantResult
	err := c.withRetry(ctx, func(ctx context.Context) error {
		payload = InstantResult{}
		return c.do(ctx, http.MethodPost, c.endpoint("instant"), submitRequest{URL: rawURL, ProxyID: proxyID}, &payload)
	})
	if err != nil {
		return InstantResult{}, fmt.Errorf("submit instant job: %w", err)
	}
	return payload, nil
}

func (c *Client) submit(ctx context.Context, kind JobKind, req submitRequest) (JobHandle, error) {
	if strings.TrimSpace(req.URL) == "" {
		return JobHandle{}, fmt.Errorf("url required")
	}
	var payload submitResponse
	err := c.withRetry(ctx, func(ctx context.Context) error {
		payload = submitResponse{}
		return c.do(ctx, http.MethodPost, c.endpoint(string(kind)), req, &payload)
	})
	if err != nil {
		return JobHandle{}, fmt.Errorf("submit %s job: %w", kind, err)
	}
	if payload.RequestID == "" {
		return JobHandle{}, &Error{Kind: KindService, Message: "no requestId in response"}
	}
	return JobHandle{RequestID: payload.RequestID, Kind: kind}, nil
}
