package qbittorrent

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	apiPrefix     = "/api/v2"
	sessionCookie = "SID"
	failsBody     = "Fails."
)

// Client represents a qBittorrent Web API client
type Client struct {
	baseURL string
	http    *resty.Client
	logger  zerolog.Logger

	mu  sync.RWMutex
	sid string
}

// NewClient creates a new qBittorrent client for the instance at baseURL.
// No request is made until Authenticate is called.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: qbittorrent URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid qbittorrent URL %q", ErrInvalidConfig, baseURL)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		// A caller supplied client is used as is; its Jar and Transport are
		// never touched.
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New().
			SetTimeout(o.timeout).
			SetCookieJar(nil)
		if o.insecureSkipVerify {
			rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
		}
	}
	rc.SetBaseURL(baseURL + apiPrefix).
		SetHeader("User-Agent", o.userAgent).
		SetHeader("Referer", baseURL).
		SetRetryCount(0).
		SetLogger(restyLogger{o.logger})

	c := &Client{
		baseURL: baseURL,
		http:    rc,
		logger:  o.logger,
	}
	rc.OnBeforeRequest(c.attachSession)
	rc.OnAfterResponse(c.logResponse)

	return c, nil
}

// attachSession adds the stored session cookie to outgoing requests.
func (c *Client) attachSession(_ *resty.Client, req *resty.Request) error {
	if sid := c.SessionID(); sid != "" {
		req.SetHeader("Cookie", sessionCookie+"="+sid)
	}
	return nil
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug().
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("qBittorrent API request")
	return nil
}

// BaseURL returns the configured instance address without the API prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionID returns the stored session cookie value, or "" if not authenticated.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sid
}

// IsAuthenticated reports whether a session cookie is stored.
func (c *Client) IsAuthenticated() bool {
	return c.SessionID() != ""
}

func (c *Client) setSession(sid string) {
	c.mu.Lock()
	c.sid = sid
	c.mu.Unlock()
}

// Authenticate logs in and stores the session cookie for all later requests.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	sid, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}
	c.setSession(sid)

	c.logger.Debug().Str("url", c.baseURL).Msg("Authenticated with qBittorrent")
	return nil
}

// Login performs the login exchange and returns the SID cookie value
// without storing it.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	params := map[string]string{}
	if username != "" {
		params["username"] = username
	}
	if password != "" {
		params["password"] = password
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("auth/login")
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusForbidden {
		return "", newClientError(ErrorTypeIPBanned, "too many failed attempts, IP is banned")
	}
	if resp.String() == failsBody {
		return "", newClientError(ErrorTypeInvalidCredentials, "invalid credentials")
	}
	if !resp.IsSuccess() {
		return "", &StatusError{Endpoint: "auth/login", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", ErrNoSessionCookie
}

// Logout ends the remote session. The stored session cookie is cleared even
// when the remote call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.setSession("")

	if err := c.get(ctx, "auth/logout", nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// restyLogger routes resty's internal warnings through zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
