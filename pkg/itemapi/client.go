package itemapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

const (
	DefaultTemplate             = "Ceres::Item.SingleItem"
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("item api base url is required")

// Client fetches variation detail payloads from the shop's item REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	template   string
	language   string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTemplate overrides the render template sent with every request.
func WithTemplate(template string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(template); trimmed != "" {
			c.template = trimmed
		}
	}
}

// WithTimeout replaces the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLanguage sets the Accept-Language header.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = strings.TrimSpace(lang)
	}
}

// NewClient builds an item API client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		template:   DefaultTemplate,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Fetch loads the detail payload of one variation.
func (c *Client) Fetch(ctx context.Context, variationID int) (*types.ResolvedVariation, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item api client not configured")
	}
	if variationID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation id must be positive")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.variationURL(variationID), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build variation request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.language != "" {
		httpReq.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, pkgerrors.FromContext(ctxErr, "variation request canceled")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute variation request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variation %d not found", variationID))
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "variation request failed")
	}

	var payload types.ResolvedVariation
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode variation response")
	}
	if len(payload.Documents) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variation %d has no documents", variationID))
	}
	if payload.VariationID == 0 {
		payload.VariationID = variationID
	}
	return &payload, nil
}

func (c *Client) variationURL(variationID int) string {
	query := url.Values{}
	query.Set("template", c.template)
	return fmt.Sprintf("%s/rest/io/variations/%s?%s", c.baseURL, strconv.Itoa(variationID), query.Encode())
}
