package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"locshare/internal/domain"
)

// Client speaks the relay's JSON-over-HTTP wire contract. It performs one
// exchange per call and reports failures as plain errors; classification
// and degraded-mode policy live in the Network State Monitor.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for the relay at base. A nil httpClient falls back
// to http.DefaultClient.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// Register submits the local identifier and base64-encoded PEM public key.
func (c *Client) Register(ctx context.Context, id domain.PeerID, keyB64 string) error {
	return c.post(ctx, "/api/register", struct {
		Identifier domain.PeerID `json:"identifier"`
		Key        string        `json:"key"`
	}{id, keyB64}, nil)
}

// GetKey fetches the relay's key record for id. The body is the peer's
// public key PEM, base64-encoded, as plain text; a non-success status means
// the peer is unknown.
func (c *Client) GetKey(ctx context.Context, id domain.PeerID) (string, error) {
	body, err := c.postRaw(ctx, "/api/getkey", struct {
		UserID domain.PeerID `json:"userid"`
	}{id})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PublishLocation submits one encrypted reading envelope.
func (c *Client) PublishLocation(ctx context.Context, env domain.Envelope) error {
	return c.post(ctx, "/api/location/publish", env, nil)
}

// ReceiveLocations fetches every ciphertext payload addressed to id.
func (c *Client) ReceiveLocations(ctx context.Context, id domain.PeerID) ([]string, error) {
	var payloads []string
	err := c.post(ctx, "/api/location/receive", struct {
		UserID domain.PeerID `json:"userid"`
	}{id}, &payloads)
	return payloads, err
}

// SendSharingRequest records a pending mutual-sharing request.
func (c *Client) SendSharingRequest(ctx context.Context, requester, requested domain.PeerID) error {
	return c.post(ctx, "/api/request_sharing/send", struct {
		Requester domain.PeerID `json:"requester"`
		Requested domain.PeerID `json:"requested"`
	}{requester, requested}, nil)
}

// RetrieveSharingRequests lists peers with requests pending against requester.
func (c *Client) RetrieveSharingRequests(ctx context.Context, requester domain.PeerID) ([]domain.PeerID, error) {
	var pending []domain.PeerID
	err := c.post(ctx, "/api/request_sharing/retrieve", struct {
		Requester domain.PeerID `json:"requester"`
	}{requester}, &pending)
	return pending, err
}

// ReportProblem submits a free-text diagnostic report. Fire-and-forget; the
// relay stores it, nothing is returned.
func (c *Client) ReportProblem(ctx context.Context, problem string) error {
	return c.post(ctx, "/api/problem", struct {
		Problem string `json:"problem"`
	}{problem}, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := c.postRaw(ctx, path, in)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("relay post %s: decode response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) postRaw(ctx context.Context, path string, in any) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

var _ domain.RelayClient = (*Client)(nil)
