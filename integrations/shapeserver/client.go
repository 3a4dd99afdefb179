package shapeserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	Server string
	HTTP   *http.Client
}

var (
	ErrUnexpectedResponse = errors.New("unexpected response code")
)

func NewClient(server string) (*Client, error) {
	u, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url %q", server)
	}
	client := &Client{
		Server: server,
		HTTP:   &http.Client{Timeout: 30 * time.Second},
	}
	return client, nil
}

// SubmitResult is the reply to a submitted document.
type SubmitResult struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
	New  bool   `json:"new"`
}

// SchemaSummary describes one group of documents sharing a schema.
type SchemaSummary struct {
	Hash  string    `json:"hash"`
	IDs   []string  `json:"ids"`
	Rows  int       `json:"rows"`
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

// Submit posts one encoded document. contentType selects the decoder on the
// server; an empty id lets the server pick one.
func (c *Client) Submit(ctx context.Context, id string, contentType string, doc []byte) (*SubmitResult, error) {
	u := c.formatURL("/documents")
	if id != "" {
		u += "?id=" + url.QueryEscape(id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var res SubmitResult
	if err := c.do(req, http.StatusCreated, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Schemas(ctx context.Context) ([]SchemaSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.formatURL("/schemas"), nil)
	if err != nil {
		return nil, err
	}

	var res []SchemaSummary
	if err := c.do(req, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != want {
		var e ErrorResponse
		if json.NewDecoder(res.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("%w %d: %s", ErrUnexpectedResponse, res.StatusCode, e.Error)
		}
		return fmt.Errorf("%w %d", ErrUnexpectedResponse, res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) formatURL(path string) string {
	return fmt.Sprintf("%s%s", c.Server, path)
}
