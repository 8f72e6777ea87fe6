package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
)

// HTTPRemote talks to the server's boxes endpoint. The client carries a
// cookie jar so the auth cookies set at login ride along on every call.
type HTTPRemote struct {
	base string
	http *http.Client
}

// NewHTTPRemote creates an HTTPRemote for the given base URL. When client is
// nil a cookie-jar-backed default is used.
func NewHTTPRemote(base string, client *http.Client) (*HTTPRemote, error) {
	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		client = &http.Client{Jar: jar}
	}
	return &HTTPRemote{base: base, http: client}, nil
}

// Fetch retrieves the canonical completed-box state.
func (r *HTTPRemote) Fetch(ctx context.Context) (*State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+"/api/boxes", nil)
	if err != nil {
		return nil, err
	}
	return r.do(req)
}

// Toggle submits a single box state change and returns the canonical state.
func (r *HTTPRemote) Toggle(ctx context.Context, index int, completed bool) (*State, error) {
	body, err := json.Marshal(map[string]any{"index": index, "completed": completed})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+"/api/boxes", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req)
}

func (r *HTTPRemote) do(req *http.Request) (*State, error) {
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error != "" {
			return nil, fmt.Errorf("boxes: server returned %d: %s", resp.StatusCode, body.Error)
		}
		return nil, fmt.Errorf("boxes: server returned %d", resp.StatusCode)
	}

	var st State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("boxes: decode response: %w", err)
	}
	return &st, nil
}
