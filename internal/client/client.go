// ABOUTME: HTTP client for the CoffeeBeam storefront and loyalty API
// ABOUTME: Typed request/response schemas with bearer auth and error mapping

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the current access token for authenticated
// requests. An empty string means no token is available.
type TokenSource interface {
	AccessToken() string
}

// AuthFailureHook is invoked whenever any request is rejected with
// 401 or 403. The session layer owns the actual logout; the client
// only reports the event.
type AuthFailureHook func()

// Client is the API client for the CoffeeBeam backend
type Client struct {
	baseURL       string
	origin        string // scheme://host of baseURL, for image paths
	httpClient    *http.Client
	tokens        TokenSource
	onAuthFailure AuthFailureHook
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP timeout for all requests
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource sets the source of bearer tokens for authenticated calls
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithAuthFailureHook registers the global 401/403 handler
func WithAuthFailureHook(hook AuthFailureHook) Option {
	return func(c *Client) {
		c.onAuthFailure = hook
	}
}

// New creates a new API client rooted at baseURL (e.g. "https://host/api")
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		origin:  deriveOrigin(baseURL),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// deriveOrigin extracts scheme://host from the base URL. Image and
// avatar paths resolve against the server origin, not the API prefix.
func deriveOrigin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(baseURL, "/")
	}
	return u.Scheme + "://" + u.Host
}

// FullImageURL resolves a possibly-relative image path against the API origin
func (c *Client) FullImageURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.origin + path
}

// Login exchanges a phone number for a token pair via POST login/
func (c *Client) Login(ctx context.Context, phone string) (*TokenPair, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	var pair TokenPair
	if err := c.post(ctx, "login/", authRequest{Phone: phone}, false, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register creates an account for a phone number via POST register/
func (c *Client) Register(ctx context.Context, phone string) (*TokenPair, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	var pair TokenPair
	if err := c.post(ctx, "register/", authRequest{Phone: phone}, false, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken exchanges a refresh token for a new access token via
// POST token/refresh/. A 401 here means the refresh token itself is
// dead; the auth-failure hook intentionally does not fire because the
// caller (session bootstrap) already owns that failure path.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	body, err := json.Marshal(refreshRequest{Refresh: refresh})
	if err != nil {
		return "", fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token/refresh/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp)
	}

	var out refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("invalid response from server: %w", err)
	}
	if out.Access == "" {
		return "", fmt.Errorf("invalid response from server: missing access token")
	}
	return out.Access, nil
}

// Profile fetches the current user record via GET profile/
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "profile/", true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the user's name via PUT profile/update/
func (c *Client) UpdateProfile(ctx context.Context, firstName, lastName string) error {
	return c.do(ctx, http.MethodPut, "profile/update/", profileUpdateRequest{
		FirstName: firstName,
		LastName:  lastName,
	}, true, nil)
}

// Products fetches the catalog via GET products/
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "products/", false, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Tags fetches the category tags via GET tags/
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.get(ctx, "tags/", false, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateOrder submits an order via POST create_order/
func (c *Client) CreateOrder(ctx context.Context, items []OrderItem) (*OrderResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	var result OrderResult
	if err := c.post(ctx, "create_order/", orderRequest{Items: items}, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OrderHistory fetches past orders via GET order_history/
func (c *Client) OrderHistory(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "order_history/", true, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// DailySpin plays the daily spin via POST daily_spin/
func (c *Client) DailySpin(ctx context.Context) (*SpinResult, error) {
	var result SpinResult
	if err := c.post(ctx, "daily_spin/", struct{}{}, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QuizQuestions fetches today's quiz via GET daily_quiz/
func (c *Client) QuizQuestions(ctx context.Context) ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if err := c.get(ctx, "daily_quiz/", true, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SubmitQuiz posts answers keyed by question id via POST daily_quiz/
func (c *Client) SubmitQuiz(ctx context.Context, answers map[int64]string) (*QuizResult, error) {
	var result QuizResult
	if err := c.post(ctx, "daily_quiz/", quizSubmitRequest{Answers: answers}, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// get performs an authenticated or anonymous GET and decodes into out
func (c *Client) get(ctx context.Context, path string, authed bool, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, authed, out)
}

// post performs a JSON POST and decodes into out
func (c *Client) post(ctx context.Context, path string, body interface{}, authed bool, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, authed, out)
}

// do builds, sends, and decodes a request. All endpoint methods funnel
// through here so authorization failures are detected in one place.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		apiErr := c.handleErrorResponse(resp)
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return apiErr
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from server: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to server at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses into a typed *APIError
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = body.Error
		}
	}
	return apiErr
}
