package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/proxy"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

const (
	// DefaultBaseURL is the service address used by the original deployment.
	DefaultBaseURL = "http://localhost:4000/api/v1"

	defaultTimeout  = 10 * time.Second
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 64 << 10

	logMsgRequestFailed = "remote request failed"
	logAttrMethod       = "method"
	logAttrPath         = "path"
	logAttrRequestID    = "request_id"
	logAttrStatusCode   = "status_code"
)

var (
	// ErrEmptyBaseURL is returned when NewClient gets an empty base URL.
	ErrEmptyBaseURL = errors.New("base URL must not be empty")

	// ErrNilHTTPClient is returned when WithHTTPClient gets nil.
	ErrNilHTTPClient = errors.New("http client must not be nil")

	// ErrEmptyProxyAddress is returned when WithSOCKS5Proxy gets an empty address.
	ErrEmptyProxyAddress = errors.New("proxy address must not be empty")

	// ErrNonPositiveTimeout is returned when WithTimeout gets a zero or negative timeout.
	ErrNonPositiveTimeout = errors.New("timeout must be positive")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the library service over HTTP.
// It is safe for concurrent use.
type Client struct {
	baseURL          *url.URL
	httpClient       *http.Client
	authToken        string
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a Client.
type Option func(*Client) error

// NewClient creates a Client for the service rooted at baseURL, e.g. "http://localhost:4000/api/v1".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrEmptyBaseURL
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return ErrNilHTTPClient
		}

		c.httpClient = httpClient

		return nil
	}
}

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return ErrNonPositiveTimeout
		}

		c.httpClient.Timeout = timeout

		return nil
	}
}

// WithSOCKS5Proxy routes every request through the SOCKS5 proxy at addr ("host:port").
func WithSOCKS5Proxy(addr string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(addr) == "" {
			return ErrEmptyProxyAddress
		}

		dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer for %s: %w", addr, err)
		}

		transport := &http.Transport{}
		if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = contextDialer.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, address string) (net.Conn, error) {
				return dialer.Dial(network, address)
			}
		}

		c.httpClient.Transport = transport

		return nil
	}
}

// WithAuthToken sends token as a bearer token with every request.
func WithAuthToken(token string) Option {
	return func(c *Client) error {
		c.authToken = token
		return nil
	}
}

// WithLogging sets the basic logger used for failed requests.
func WithLogging(logger shell.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithContextualLogging sets the contextual logger used for failed requests.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(c *Client) error {
		c.contextualLogger = logger
		return nil
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// do sends one request and decodes a 2xx body into out (when out is not nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logFailure(ctx, method, path, requestID, 0, err)

		// Cancellation and deadlines stay recognizable to callers.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return core.NewTransportError(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		remoteErr := errorFromResponse(resp)
		c.logFailure(ctx, method, path, requestID, resp.StatusCode, remoteErr)

		return remoteErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		decodeErr := core.NewTransportError(resp.StatusCode, "undecodable response body", err)
		c.logFailure(ctx, method, path, requestID, resp.StatusCode, decodeErr)

		return decodeErr
	}

	return nil
}

func (c *Client) logFailure(ctx context.Context, method, path, requestID string, statusCode int, err error) {
	shell.LogWarn(ctx, c.logger, c.contextualLogger, logMsgRequestFailed,
		logAttrMethod, method,
		logAttrPath, path,
		logAttrRequestID, requestID,
		logAttrStatusCode, statusCode,
		shell.LogAttrError, err.Error(),
	)
}

// errorFromResponse maps a non-2xx answer into a core.RemoteError.
func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope messageEnvelope
	message := ""
	if err := json.Unmarshal(raw, &envelope); err == nil {
		message = envelope.Message
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode < http.StatusInternalServerError {
		return core.NewConflictError(resp.StatusCode, message)
	}

	return core.NewTransportError(resp.StatusCode, message, nil)
}
