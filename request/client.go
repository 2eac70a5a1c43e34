// Package request sends authenticated calls to the admin backend and recovers
// from expired access tokens.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/refresh"
)

const maxResponseBytes = 1 << 20

// ErrNoRefreshCall is the refresh failure of a client nobody installed a refresh call on.
var ErrNoRefreshCall = errors.New("no refresh call installed")

// LogoutFunc ends the session after an irrecoverable auth failure.
type LogoutFunc func(reason error)

type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	store       *credentials.Store
	coordinator *refresh.Coordinator
	refreshOpts []refresh.Option
	notifier    Notifier
	logger      zerolog.Logger

	mu          sync.RWMutex
	logout      LogoutFunc
	refreshCall refresh.Func
}

// New creates a client for the API rooted at baseURL (e.g. "http://localhost:3100/api").
func New(baseURL string, store *credentials.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: DefaultTimeout,
		store:   store,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.notifier == nil {
		c.notifier = LogNotifier{Logger: c.logger}
	}

	refreshOpts := append([]refresh.Option{
		refresh.WithLogger(c.logger),
		refresh.OnFailure(c.forceLogout),
	}, c.refreshOpts...)
	c.coordinator = refresh.NewCoordinator(store, c.callRefresh, refreshOpts...)
	return c
}

// OnLogout sets the hook run on token-invalid responses and refresh failures.
func (c *Client) OnLogout(fn LogoutFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logout = fn
}

// UseRefresh installs the call the coordinator makes to rotate the token pair.
// It must not recover auth failures itself.
func (c *Client) UseRefresh(fn refresh.Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshCall = fn
}

func (c *Client) Coordinator() *refresh.Coordinator {
	return c.coordinator
}

func (c *Client) Store() *credentials.Store {
	return c.store
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Do sends one call and decodes the envelope payload into out.
//
// A token-expired response is recovered by refreshing through the coordinator
// and replaying the call once with the new token. A token-invalid response
// forces logout. Other failures are returned as *apimodel.CodeError or wrap
// apimodel.ErrTransport.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.skipAuthRecovery {
		err := c.send(ctx, method, path, body, out, c.accessToken())
		if err != nil {
			c.report(err)
		}
		return err
	}

	token, err := c.tokenForCall(ctx)
	if err != nil {
		return err
	}

	err = c.send(ctx, method, path, body, out, token)
	switch apimodel.CodeOf(err) {
	case apimodel.CodeOK:
		if err != nil {
			c.report(err)
		}
		return err

	case apimodel.CodeTokenInvalid:
		c.report(err)
		c.forceLogout(err)
		return err

	case apimodel.CodeTokenExpired:
		c.logger.Debug().Str("path", path).Msg("Access token expired, refreshing")
		token, rerr := c.coordinator.Refresh(ctx)
		if rerr != nil {
			return rerr
		}

		// The replay is not recovered again.
		err = c.send(ctx, method, path, body, out, token)
		if err != nil {
			c.report(err)
		}
		return err

	default:
		c.report(err)
		return err
	}
}

// tokenForCall returns the stored access token, refreshing first when its
// known expiry has passed.
func (c *Client) tokenForCall(ctx context.Context) (string, error) {
	tok, err := c.store.Token()
	if err != nil {
		return "", nil
	}
	if tok.Valid() {
		return tok.AccessToken, nil
	}
	c.logger.Debug().Time("expiry", tok.Expiry).Msg("Access token past expiry, refreshing before send")
	return c.coordinator.Refresh(ctx)
}

func (c *Client) accessToken() string {
	token, _ := c.store.Get(credentials.AccessToken)
	return token
}

func (c *Client) callRefresh(ctx context.Context, refreshToken string) (apimodel.TokenPair, error) {
	c.mu.RLock()
	fn := c.refreshCall
	c.mu.RUnlock()

	if fn == nil {
		return apimodel.TokenPair{}, ErrNoRefreshCall
	}
	return fn(ctx, refreshToken)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, token string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: creating request: %w", apimodel.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(apimodel.HeaderRequestID, uuid.NewString())
	if token != "" {
		req.Header.Set(apimodel.HeaderAuthorization, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", apimodel.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", apimodel.ErrTransport, err)
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		return fmt.Errorf("%w: %s %s returned status %d: %w", apimodel.ErrTransport, method, path, resp.StatusCode, err)
	}
	if err := env.Err(); err != nil {
		return err
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decoding %s payload: %w", apimodel.ErrTransport, path, err)
	}
	return nil
}

// decodeEnvelope rejects bodies that are not {code,msg,data} objects.
func decodeEnvelope(raw []byte) (apimodel.Envelope, error) {
	var probe struct {
		Code *apimodel.Code `json:"code"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return apimodel.Envelope{}, fmt.Errorf("not an envelope: %w", err)
	}
	if probe.Code == nil {
		return apimodel.Envelope{}, fmt.Errorf("not an envelope: missing code")
	}

	var env apimodel.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apimodel.Envelope{}, fmt.Errorf("not an envelope: %w", err)
	}
	return env, nil
}

func (c *Client) report(err error) {
	msg := apimodel.MessageOf(err)
	if msg == "" {
		return
	}
	c.notifier.Error(msg)
}

func (c *Client) forceLogout(reason error) {
	c.mu.RLock()
	fn := c.logout
	c.mu.RUnlock()

	if fn == nil {
		c.logger.Warn().Err(reason).Msg("Session ended with no logout hook, clearing credentials")
		c.store.Clear()
		return
	}
	fn(reason)
}
