// Package gamesense is a client for the SteelSeries GameSense HTTP API that
// the SteelSeries engine exposes on localhost.
//
// The [Client] type sends the four requests this agent needs: register a
// game, bind its event, push event updates and remove the game. Every call is
// attempted exactly once; the next tick supersedes a failed update.
package gamesense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
)

// Endpoint paths relative to the engine base URL.
const (
	PathGameMetadata  = "game_metadata"
	PathBindGameEvent = "bind_game_event"
	PathGameEvent     = "game_event"
	PathRemoveGame    = "remove_game"
)

// ///////////////////////////////////////////////
// Errors
// ///////////////////////////////////////////////

// ErrNoAddress is returned when the client has no engine address.
var ErrNoAddress = errors.New("no engine address")

// StatusError is returned when the engine answers with a non-2xx status.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("POST %s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("POST %s: status %d: %s", e.Path, e.StatusCode, e.Body)
}

// ///////////////////////////////////////////////
// Client
// ///////////////////////////////////////////////

// Client posts JSON requests to one GameSense engine.
type Client struct {
	// http sends requests with retries disabled.
	http *retryablehttp.Client

	// mu protects baseURL, which changes when the engine moves port.
	mu      sync.Mutex
	baseURL string
}

// NewClient creates a client for the engine listening on address
// ("host:port").
func NewClient(address string) *Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 0
	hc.Logger = nil
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{http: hc}
	c.SetAddress(address)
	return c
}

// SetAddress points the client at a different engine address.
func (c *Client) SetAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if address == "" {
		c.baseURL = ""
		return
	}
	c.baseURL = "http://" + address
}

// BaseURL returns the current engine base URL.
func (c *Client) BaseURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseURL
}

// Register announces the game to the engine.
func (c *Client) Register(ctx context.Context, m GameMetadata) error {
	return c.post(ctx, PathGameMetadata, m)
}

// BindEvent declares an event and its screen handlers.
func (c *Client) BindEvent(ctx context.Context, def BindEventDefinition) error {
	return c.post(ctx, PathBindGameEvent, def)
}

// SendEvent pushes one event update.
func (c *Client) SendEvent(ctx context.Context, e Event) error {
	return c.post(ctx, PathGameEvent, e)
}

// Remove unregisters the game and everything bound to it.
func (c *Client) Remove(ctx context.Context, g Game) error {
	return c.post(ctx, PathRemoveGame, g)
}

// post marshals body and sends it to path. Any 2xx status is success.
func (c *Client) post(ctx context.Context, path string, body any) error {
	base := c.BaseURL()
	if base == "" {
		return ErrNoAddress
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, base+"/"+path, payload)
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Path: path, StatusCode: resp.StatusCode, Body: string(msg)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
