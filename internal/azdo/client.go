package azdo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/roivaz/azure-devops-mcp/internal/logging"
)

const (
	DefaultBaseURL    = "https://dev.azure.com"
	DefaultAPIVersion = "7.1"
	DefaultTimeout    = 30 * time.Second
)

// Client talks to the Azure DevOps REST API for a single project.
// It is immutable once built and safe for concurrent use.
type Client struct {
	creds       Credentials
	baseURL     string
	apiVersion  string
	authHeader  string
	timeout     time.Duration
	fanoutLimit int
	bearer      bool
	http        *http.Client
	log         logging.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another host, e.g. Azure DevOps Server or a test stub.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(version); v != "" {
			c.apiVersion = v
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithFanoutLimit caps concurrent per-repository requests. Zero or less means unbounded.
func WithFanoutLimit(n int) Option {
	return func(c *Client) { c.fanoutLimit = n }
}

// WithHTTPClient replaces the underlying HTTP client; WithTimeout is ignored then.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBearerAuth sends the token as an OAuth bearer token instead of PAT basic auth.
func WithBearerAuth() Option {
	return func(c *Client) { c.bearer = true }
}

func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log.WithName("azdo") }
}

// NewClient builds a client for creds. Invalid credentials yield a *ConfigurationError.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		timeout:    DefaultTimeout,
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.bearer {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"})
		c.http = &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: c.http.Transport},
			Timeout:   c.http.Timeout,
		}
	} else {
		c.authHeader = creds.basicAuthorization()
	}
	return c, nil
}

// Project returns the organization/project pair the client is bound to.
func (c *Client) Project() (organization, project string) {
	return c.creds.Organization, c.creds.Project
}

// endpoint builds a project-scoped API URL with the api-version parameter set.
func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", c.apiVersion)
	return fmt.Sprintf("%s/%s/%s/%s?%s",
		c.baseURL,
		url.PathEscape(c.creds.Organization),
		url.PathEscape(c.creds.Project),
		strings.TrimLeft(path, "/"),
		query.Encode(),
	)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, endpoint, body)
}

// do sends one request and returns the body of a successful JSON response.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request body: %w", method, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, endpoint, err)
	}
	c.log.Debug("azure devops request", "method", method, "url", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newRemoteRequestError(method, endpoint, resp.StatusCode, data)
	}
	if !gjson.ValidBytes(data) {
		return nil, &MalformedResponseError{Reason: "response body is not valid JSON"}
	}
	return data, nil
}
