// Package client implements the API operation layer: one method per
// platform capability, each of which ensures a valid session, performs the
// exchange through the transport, and funnels the response through the
// tolerant decoders.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gorant/cache"
	"gorant/config"
	"gorant/keyring"
	"gorant/models"
	"gorant/session"
)

// Transport performs one HTTP exchange. The default implementation wraps
// net/http; tests substitute an in-process fake platform.
type Transport interface {
	Exchange(ctx context.Context, method, rawURL string, header http.Header, body io.Reader) (status int, respBody []byte, err error)
}

// HTTPTransport is the production Transport.
type HTTPTransport struct {
	Client *http.Client
}

func (t *HTTPTransport) Exchange(ctx context.Context, method, rawURL string, header http.Header, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, nil, err
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// Client is a platform API client. Its persistence mode is fixed at
// construction: with session persistence on, operations obtain and refresh
// credentials automatically and any explicitly supplied token is ignored;
// with it off, the caller must pass a token to every authenticated
// operation.
type Client struct {
	baseURL   string
	appID     int
	transport Transport
	sessions  *session.Manager
	ring      keyring.Store
	cursors   cache.Store
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport substitutes the HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithCursorStore enables best-effort pagination-state persistence.
func WithCursorStore(store cache.Store) Option {
	return func(c *Client) { c.cursors = store }
}

// WithKeyring overrides the secret store backing session persistence.
func WithKeyring(ring keyring.Store) Option {
	return func(c *Client) { c.ring = ring }
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a Client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		appID:   cfg.AppID,
		transport: &HTTPTransport{
			Client: &http.Client{Timeout: 30 * time.Second},
		},
		logger: slog.New(slog.DiscardHandler),
	}
	if cfg.Debug {
		c.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.PersistSession {
		ring := c.ring
		if ring == nil {
			opened, err := keyring.Open(cfg.KeyringPath, cfg.SealKey)
			if err != nil {
				return nil, err
			}
			ring = opened
		}
		c.sessions = session.New(c.loginExchange, session.WithKeyring(ring))
	}
	return c, nil
}

// LogIn authenticates with the platform. In persistent mode the session
// manager retains and persists the result; in ephemeral mode the token is
// only returned to the caller.
func (c *Client) LogIn(ctx context.Context, username, password string) (models.AuthToken, error) {
	if c.sessions != nil {
		return c.sessions.LogIn(ctx, username, password)
	}
	return c.loginExchange(ctx, username, password)
}

// LogOut drops the persisted session, if any.
func (c *Client) LogOut() {
	if c.sessions != nil {
		c.sessions.LogOut()
	}
}

// loginExchange is the raw login round trip; the session manager drives it
// for refreshes.
func (c *Client) loginExchange(ctx context.Context, username, password string) (models.AuthToken, error) {
	form := c.baseValues(nil)
	form.Set("username", username)
	form.Set("password", password)
	body, err := c.postForm(ctx, "/users/auth-token", form)
	if err != nil {
		return models.AuthToken{}, err
	}
	var resp struct {
		Success   bool              `json:"success"`
		AuthToken *models.AuthToken `json:"auth_token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.AuthToken == nil {
		// the server's own message, verbatim, when it sent one
		var env struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &env) == nil && env.Error != "" {
			return models.AuthToken{}, models.NewAuthError(env.Error)
		}
		return models.AuthToken{}, models.NewUnknownError()
	}
	return *resp.AuthToken, nil
}

// resolveToken applies the persistence mode: automatic refresh through the
// session manager, or the caller's explicit token.
func (c *Client) resolveToken(ctx context.Context, explicit *models.AuthToken) (models.AuthToken, error) {
	if c.sessions != nil {
		return c.sessions.EnsureValid(ctx)
	}
	if explicit != nil {
		return *explicit, nil
	}
	return models.AuthToken{}, models.NewAuthError("no session credentials supplied")
}

// baseValues builds the query/form parameters every request carries.
func (c *Client) baseValues(token *models.AuthToken) url.Values {
	v := url.Values{}
	v.Set("app", strconv.Itoa(c.appID))
	if token != nil {
		v.Set("token_id", strconv.Itoa(token.ID))
		v.Set("token_key", token.Key)
		v.Set("user_id", strconv.Itoa(token.UserID))
	}
	return v
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.exchange(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil, nil)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.exchange(ctx, http.MethodDelete, c.baseURL+path+"?"+query.Encode(), nil, nil)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.exchange(ctx, http.MethodPost, c.baseURL+path, header, strings.NewReader(form.Encode()))
}

// multipartBoundary is fixed so request encoding is deterministic.
const multipartBoundary = "gorant-1b6d97e4d7a54cd2"

// postMultipart sends form fields plus an image part.
func (c *Client) postMultipart(ctx context.Context, path string, form url.Values, image []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.SetBoundary(multipartBoundary); err != nil {
		return nil, models.NewTransportError(err)
	}
	for key, vals := range form {
		for _, val := range vals {
			if err := mw.WriteField(key, val); err != nil {
				return nil, models.NewTransportError(err)
			}
		}
	}
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="image"; filename="image.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	if err != nil {
		return nil, models.NewTransportError(err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, models.NewTransportError(err)
	}
	if err := mw.Close(); err != nil {
		return nil, models.NewTransportError(err)
	}
	header := http.Header{}
	header.Set("Content-Type", mw.FormDataContentType())
	return c.exchange(ctx, http.MethodPost, c.baseURL+path, header, &buf)
}

func (c *Client) exchange(ctx context.Context, method, rawURL string, header http.Header, body io.Reader) ([]byte, error) {
	status, respBody, err := c.transport.Exchange(ctx, method, rawURL, header, body)
	if err != nil {
		return nil, models.NewTransportError(err)
	}
	c.logger.Debug("exchange", "method", method, "url", rawURL, "status", status)
	return respBody, nil
}

// apiFailure classifies a response that failed its typed decode: the
// generic error envelope's message when present, the decode cause when not,
// and "unknown error" as the last resort.
func apiFailure(body []byte, cause error) *models.AppError {
	var env struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil && env.Error != "" {
		return models.NewAPIError(env.Error)
	}
	if cause != nil {
		return models.NewDecodeError(cause)
	}
	return models.NewUnknownError()
}

// okResponse is the bare success envelope returned by mutation endpoints.
type okResponse struct {
	Success bool `json:"success"`
}

// expectOK decodes a bare success envelope.
func expectOK(body []byte) error {
	var resp okResponse
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success {
		return apiFailure(body, err)
	}
	return nil
}
