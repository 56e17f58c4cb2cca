// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cedar retrieves and deletes metadata instances on a CEDAR
// resource server. Instances are found by the template they are based on;
// the search endpoint is paged and the client follows the paging cursor
// until the server stops returning one.
package cedar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/hubmapconsortium/cedar2ccf/internal/httputil"
	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

const (
	// DefaultBaseURL is the public CEDAR resource server.
	DefaultBaseURL = "https://resource.metadatacenter.org"

	defaultPageSize = 200
	searchPath      = "/search"
	instancesPath   = "/template-instances/"
)

// UpstreamFetchError reports a transport or HTTP failure talking to CEDAR.
// Err carries the underlying transport error when there was one.
type UpstreamFetchError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("CEDAR %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("CEDAR %s %s returned HTTP %d", e.Method, e.URL, e.StatusCode)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// Client talks to the CEDAR resource server.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	pageSize   int
	maxRetries int
	http       *http.Client
	log        log.FieldLogger
}

// NewClient returns a client for cfg. Zero values select the defaults.
func NewClient(cfg types.CedarConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		pageSize:   pageSize,
		maxRetries: cfg.MaxRetries,
		http:       &http.Client{Timeout: cfg.Timeout},
		log:        log.WithField("component", "cedar"),
	}
}

// searchResponse captures the fields we need from a search page.
type searchResponse struct {
	Resources []struct {
		ID string `json:"@id"`
	} `json:"resources"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// InstanceIDs returns the IRIs of all instances based on templateIRI, in
// server order.
func (c *Client) InstanceIDs(ctx context.Context, templateIRI string) ([]string, error) {
	var ids []string
	offset := 0
	for {
		params := url.Values{
			"version":     {"latest"},
			"is_based_on": {templateIRI},
			"offset":      {strconv.Itoa(offset)},
			"limit":       {strconv.Itoa(c.pageSize)},
		}
		reqURL := c.baseURL + searchPath + "?" + params.Encode()

		var page searchResponse
		if err := c.getJSON(ctx, reqURL, &page); err != nil {
			return nil, err
		}
		for _, r := range page.Resources {
			ids = append(ids, r.ID)
		}
		c.log.WithFields(log.Fields{
			"template": templateIRI,
			"offset":   offset,
			"count":    len(page.Resources),
		}).Debug("fetched search page")

		if page.Paging.Next == "" {
			return ids, nil
		}
		next, err := nextOffset(page.Paging.Next)
		if err != nil {
			return nil, &UpstreamFetchError{Method: http.MethodGet, URL: reqURL, StatusCode: http.StatusOK, Err: err}
		}
		if next <= offset {
			return nil, &UpstreamFetchError{Method: http.MethodGet, URL: reqURL, StatusCode: http.StatusOK,
				Err: fmt.Errorf("paging cursor does not advance: offset %d after %d", next, offset)}
		}
		offset = next
	}
}

// nextOffset reads the first offset parameter of a paging link.
func nextOffset(link string) (int, error) {
	u, err := url.Parse(link)
	if err != nil {
		return 0, fmt.Errorf("parsing paging link: %w", err)
	}
	raw := u.Query().Get("offset")
	if raw == "" {
		return 0, fmt.Errorf("paging link %q has no offset", link)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("paging link offset %q: %w", raw, err)
	}
	return n, nil
}

// Instance fetches one instance by IRI.
func (c *Client) Instance(ctx context.Context, id string) (types.MetadataInstance, error) {
	var inst types.MetadataInstance
	if err := c.getJSON(ctx, c.instanceURL(id), &inst); err != nil {
		return types.MetadataInstance{}, err
	}
	if inst.ID == "" {
		inst.ID = id
	}
	return inst, nil
}

// Instances fetches every instance based on templateIRI. Any failure
// aborts the whole fetch.
func (c *Client) Instances(ctx context.Context, templateIRI string) ([]types.MetadataInstance, error) {
	ids, err := c.InstanceIDs(ctx, templateIRI)
	if err != nil {
		return nil, err
	}
	instances := make([]types.MetadataInstance, 0, len(ids))
	for _, id := range ids {
		inst, err := c.Instance(ctx, id)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	c.log.WithFields(log.Fields{"template": templateIRI, "instances": len(instances)}).Info("fetched instances")
	return instances, nil
}

// Delete removes one instance by IRI.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.instanceURL(id))
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

func (c *Client) instanceURL(id string) string {
	return c.baseURL + instancesPath + url.QueryEscape(id)
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &UpstreamFetchError{Method: http.MethodGet, URL: reqURL, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

// do sends an authenticated request and returns the response when the
// status is 2xx.
func (c *Client) do(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, &UpstreamFetchError{Method: method, URL: reqURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "apiKey "+c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return nil, &UpstreamFetchError{Method: method, URL: reqURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &UpstreamFetchError{Method: method, URL: reqURL, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
