// Package shopify is the catalog platform client: paginated product fetch,
// staged payload upload, bulk mutation submission and job polling, all over
// the admin GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// maxResponseBytes caps how much of a GraphQL response body is read.
const maxResponseBytes = 16 * 1024 * 1024

// Client talks to one store's admin GraphQL endpoint.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *retryablehttp.Client
	verbose     bool
}

// ClientOptions configures a Client.
type ClientOptions struct {
	StoreURL    string
	AccessToken string
	APIVersion  string
	Verbose     bool

	// HTTPClient overrides the retrying transport; nil builds a default.
	HTTPClient *retryablehttp.Client
}

// NewClient builds a client for one store. Retries cover transient
// transport errors only; an exhausted retry budget is a fatal run error.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.StoreURL) == "" {
		return nil, errors.New("store URL is required")
	}
	if strings.TrimSpace(opts.AccessToken) == "" {
		return nil, errors.New("access token is required")
	}
	if strings.TrimSpace(opts.APIVersion) == "" {
		return nil, errors.New("API version is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = 3
		httpClient.HTTPClient.Timeout = 60 * time.Second
		httpClient.Logger = nil
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/graphql.json",
		strings.TrimRight(opts.StoreURL, "/"), opts.APIVersion)

	return &Client{
		endpoint:    endpoint,
		accessToken: opts.AccessToken,
		httpClient:  httpClient,
		verbose:     opts.Verbose,
	}, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts one GraphQL document and decodes the data payload into out.
// Top-level GraphQL errors are joined into a single APIError.
func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return &APIError{Operation: operation, Message: "encoding request", Cause: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &APIError{Operation: operation, Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Operation: operation, Message: "request failed", Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Operation: operation, Message: "reading response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Operation: operation,
			Message: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &APIError{Operation: operation, Message: "decoding response", Cause: err}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, ge := range envelope.Errors {
			messages = append(messages, ge.Message)
		}
		return &APIError{Operation: operation, Message: strings.Join(messages, ", ")}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &APIError{Operation: operation, Message: "decoding data", Cause: err}
		}
	}

	return nil
}
