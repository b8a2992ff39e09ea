// Package client implements a typed HTTP client for the arkanon API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/Akhil-2310/arkanon/api"
	"github.com/Akhil-2310/arkanon/log"
	"github.com/Akhil-2310/arkanon/types"
)

const (
	// HTTPGET is the method string used for calling Request()
	HTTPGET = http.MethodGet
	// HTTPPOST is the method string used for calling Request()
	HTTPPOST = http.MethodPost

	errCodeNot200 = "API error"

	// DefaultRetries this enables Request() to handle the situation where the server connection fails
	DefaultRetries = 3
	// DefaultTimeout is the default timeout for the HTTP client
	DefaultTimeout = 10 * time.Second
)

// HTTPclient is the arkanon API HTTP client.
type HTTPclient struct {
	c       *http.Client
	host    *url.URL
	retries int
}

// New connects to the API host, checks it answers the ping endpoint and
// returns the handle.
func New(host string) (*HTTPclient, error) {
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, err
	}

	tr := &http.Transport{
		IdleConnTimeout:    DefaultTimeout,
		DisableCompression: false,
		WriteBufferSize:    1 * 1024 * 1024, // 1 MiB
		ReadBufferSize:     1 * 1024 * 1024, // 1 MiB
	}
	c := &HTTPclient{
		c:       &http.Client{Transport: tr, Timeout: DefaultTimeout},
		host:    hostURL,
		retries: DefaultRetries,
	}
	log.Debugw("http client created", "host", hostURL.String())
	data, status, err := c.Request(HTTPGET, nil, api.PingEndpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%s: %d (%s)", errCodeNot200, status, data)
	}
	return c, nil
}

// SetRetries configures the number of retries for the HTTP client.
func (c *HTTPclient) SetRetries(n int) {
	c.retries = n
}

// SetTimeout configures the timeout for the HTTP client.
func (c *HTTPclient) SetTimeout(d time.Duration) {
	c.c.Timeout = d
	if c.c.Transport != nil {
		if tr, ok := c.c.Transport.(*http.Transport); ok {
			tr.ResponseHeaderTimeout = d
		}
	}
}

// CreateGroup creates a new group and returns its record.
func (c *HTTPclient) CreateGroup(req *api.CreateGroupRequest) (*types.GroupRecord, error) {
	record := &types.GroupRecord{}
	if err := c.requestJSON(HTTPPOST, req, record, api.GroupsEndpoint); err != nil {
		return nil, err
	}
	return record, nil
}

// Groups returns all group records.
func (c *HTTPclient) Groups() ([]*types.GroupRecord, error) {
	list := &api.GroupList{}
	if err := c.requestJSON(HTTPGET, nil, list, api.GroupsEndpoint); err != nil {
		return nil, err
	}
	return list.Groups, nil
}

// Group returns the record of a single group.
func (c *HTTPclient) Group(registryID uint64) (*types.GroupRecord, error) {
	record := &types.GroupRecord{}
	if err := c.requestJSON(HTTPGET, nil, record, "groups", fmt.Sprintf("%d", registryID)); err != nil {
		return nil, err
	}
	return record, nil
}

// Join admits a member into a group.
func (c *HTTPclient) Join(registryID uint64, req *api.JoinRequest) error {
	_, status, err := c.Request(HTTPPOST, req, "groups", fmt.Sprintf("%d", registryID), "members")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: %d", errCodeNot200, status)
	}
	return nil
}

// MemberStatus returns the join status of an address in a group.
func (c *HTTPclient) MemberStatus(registryID uint64, address string) (*api.MembershipResponse, error) {
	resp := &api.MembershipResponse{}
	if err := c.requestJSON(HTTPGET, nil, resp,
		"groups", fmt.Sprintf("%d", registryID), "members", address); err != nil {
		return nil, err
	}
	return resp, nil
}

// SubmitSignal submits a proof bundle and returns the signal receipt.
func (c *HTTPclient) SubmitSignal(registryID uint64, req *api.SignalRequest) (*types.Signal, error) {
	receipt := &types.Signal{}
	if err := c.requestJSON(HTTPPOST, req, receipt,
		"groups", fmt.Sprintf("%d", registryID), "signals"); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Signals returns the receipts of all signals accepted for a group.
func (c *HTTPclient) Signals(registryID uint64) ([]*types.Signal, error) {
	list := &api.SignalList{}
	if err := c.requestJSON(HTTPGET, nil, list,
		"groups", fmt.Sprintf("%d", registryID), "signals"); err != nil {
		return nil, err
	}
	return list.Signals, nil
}

// requestJSON performs a request and decodes a 200 response into out.
func (c *HTTPclient) requestJSON(method string, jsonBody, out any, urlPath ...string) error {
	data, status, err := c.Request(method, jsonBody, urlPath...)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: %d (%s)", errCodeNot200, status, data)
	}
	return json.Unmarshal(data, out)
}

// Request performs a `method` type raw request to the endpoint specified in
// the urlPath segments. Method is either GET or POST. If POST, a JSON struct
// should be attached. Returns the response body, the status code and an
// error.
func (c *HTTPclient) Request(method string, jsonBody any, urlPath ...string) ([]byte, int, error) {
	var (
		body []byte
		err  error
	)
	if jsonBody != nil {
		body, err = json.Marshal(jsonBody)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}

	u, err := url.Parse(c.host.String())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse host URL: %w", err)
	}
	u.Path = path.Join(u.Path, path.Join(urlPath...))

	headers := http.Header{}
	if jsonBody != nil {
		headers.Set("Content-Type", "application/json")
		headers.Set("Accept", "application/json")
	}

	// Log the request details, truncating body if large
	log.Debugw("http client request",
		"type", method,
		"url", u.String(),
		"body", func() string {
			if len(body) > 512 {
				return string(body[:512]) + "..."
			}
			return string(body)
		}(),
	)

	var resp *http.Response
	for i := 1; i <= c.retries; i++ {
		// Create a fresh request each attempt
		var reqBody io.ReadCloser
		if body != nil {
			reqBody = io.NopCloser(bytes.NewReader(body))
		}
		req, err := http.NewRequest(method, u.String(), reqBody)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header = headers

		resp, err = c.c.Do(req)
		if err != nil {
			log.Warnw("http request failed", "error", err.Error(), "attempt", i, "retries", c.retries)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		break
	}
	if resp == nil {
		return nil, 0, fmt.Errorf("http request ultimately failed after %d retries", c.retries)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warnw("failed to close response body", "error", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, resp.StatusCode, nil
}
