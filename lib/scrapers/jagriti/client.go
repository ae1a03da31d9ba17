package jagriti

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"

	"jagriti-backend/lib/configutil"
	"jagriti-backend/lib/telemetry"
)

var tracer = otel.Tracer("scrapers/jagriti")

const (
	DefaultBaseUrl            = "https://e-jagriti.gov.in"
	DefaultTimeout            = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultBackoffBase        = 500 * time.Millisecond
	DefaultMinRequestInterval = time.Second
	DefaultRateLimitCooldown  = 60 * time.Second
)

type ClientOptions struct {
	BaseUrl            string        `json:"base_url"`
	Timeout            time.Duration `json:"timeout"`
	MaxRetries         int           `json:"max_retries"`
	BackoffBase        time.Duration `json:"backoff_base"`
	MinRequestInterval time.Duration `json:"min_request_interval"`
	RateLimitCooldown  time.Duration `json:"rate_limit_cooldown"`
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.BaseUrl == "" {
		o.BaseUrl = DefaultBaseUrl
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = DefaultBackoffBase
	}
	if o.MinRequestInterval <= 0 {
		o.MinRequestInterval = DefaultMinRequestInterval
	}
	if o.RateLimitCooldown <= 0 {
		o.RateLimitCooldown = DefaultRateLimitCooldown
	}
	return o
}

// OptionsFromEnv builds options from JAGRITI_* environment variables,
// falling back to the package defaults.
func OptionsFromEnv() ClientOptions {
	return ClientOptions{
		BaseUrl:            configutil.Env("JAGRITI_BASE_URL", DefaultBaseUrl),
		Timeout:            configutil.EnvDuration("JAGRITI_TIMEOUT", DefaultTimeout),
		MaxRetries:         configutil.EnvInt("JAGRITI_MAX_RETRIES", DefaultMaxRetries),
		BackoffBase:        configutil.EnvDuration("JAGRITI_BACKOFF_BASE", DefaultBackoffBase),
		MinRequestInterval: configutil.EnvDuration("JAGRITI_REQUEST_INTERVAL", DefaultMinRequestInterval),
		RateLimitCooldown:  configutil.EnvDuration("JAGRITI_RATE_COOLDOWN", DefaultRateLimitCooldown),
	}
}

type RawResponse struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

func (r *RawResponse) IsJSON() bool {
	if strings.HasPrefix(r.ContentType, "application/json") {
		return true
	}
	trimmed := bytes.TrimLeft(r.Body, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// Client performs one logical HTTP exchange against the portal with
// automatic session bootstrap, a serialized minimum-interval rate
// gate, and status-code-specific recovery. One Client (and therefore
// one Session) is shared process-wide; all calls through it queue on
// the rate gate.
type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	opts    ClientOptions
	session *Session

	// serializes the rate gate: no two requests start within
	// MinRequestInterval of each other
	gateMu sync.Mutex

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(opts ClientOptions) (*Client, error) {
	opts = opts.withDefaults()

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseUrl, err)
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", browser.Chrome())
	client.SetHeader("accept-language", "en-US,en;q=0.5")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/jagriti/http")

	return &Client{
		baseUrl: baseUrl,
		http:    client,
		opts:    opts,
		session: newSession(),
		now:     time.Now,
		sleep:   sleepContext,
	}, nil
}

func (c *Client) BaseURL() *url.URL {
	return c.baseUrl
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InitializeSession performs the one-time landing page GET that seeds
// cookies and, when present, a CSRF token. Calling it with a live
// session is a no-op; concurrent callers collapse into one bootstrap.
func (c *Client) InitializeSession(ctx context.Context) error {
	c.session.mu.Lock()
	if c.session.bootstrapped {
		c.session.mu.Unlock()
		return nil
	}
	c.session.mu.Unlock()

	ctx, span := tracer.Start(ctx, "client:InitializeSession")
	defer span.End()

	// the gate mutex doubles as the bootstrap guard: the second of
	// two racing callers re-checks under it and finds the session
	// already live
	c.gateMu.Lock()
	defer c.gateMu.Unlock()

	c.session.mu.Lock()
	bootstrapped := c.session.bootstrapped
	c.session.mu.Unlock()
	if bootstrapped {
		return nil
	}

	if err := c.waitGateLocked(ctx); err != nil {
		return err
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		return fmt.Errorf("session bootstrap failed: %w", err)
	}
	if res.StatusCode() >= 400 {
		return &UpstreamError{StatusCode: res.StatusCode(), Body: res.String()}
	}

	c.session.mergeCookies(res.Cookies())
	c.session.setCSRF(extractCSRFToken(res.Body()))
	c.session.mu.Lock()
	c.session.bootstrapped = true
	csrfKnown := c.session.csrfToken != ""
	c.session.mu.Unlock()

	slog.DebugContext(ctx, "session bootstrapped", "csrf_token_found", csrfKnown)
	return nil
}

var csrfTokenRegex = regexp.MustCompile(`(?i)csrf[-_]?token["']?\s*[:=]\s*["']([^"']+)["']`)

func extractCSRFToken(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		if v, ok := doc.Find(`input[name="csrf-token"]`).Attr("value"); ok && v != "" {
			return v
		}
		if v, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content"); ok && v != "" {
			return v
		}
	}
	groups := csrfTokenRegex.FindSubmatch(body)
	if len(groups) == 2 {
		return string(groups[1])
	}
	return ""
}

// Get performs a rate-limited GET with session cookies attached.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*RawResponse, error) {
	return c.request(ctx, "GET", path, params, nil, "")
}

// PostForm performs a rate-limited form POST. The session CSRF token,
// when known, is injected into the form.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*RawResponse, error) {
	return c.request(ctx, "POST", path, nil, form, "")
}

// PostJSON performs a rate-limited POST with a JSON body. The session
// CSRF token, when known, rides along as an X-CSRF-Token header.
func (c *Client) PostJSON(ctx context.Context, path string, body string) (*RawResponse, error) {
	return c.request(ctx, "POST", path, nil, nil, body)
}

func (c *Client) request(
	ctx context.Context,
	method, path string,
	params url.Values,
	form url.Values,
	jsonBody string,
) (*RawResponse, error) {
	if err := c.InitializeSession(ctx); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, fmt.Sprintf("client:request %s %s", method, path))
	defer span.End()

	reqID, _ := random.String(8)

	attempt := 0
	usedCooldown := false
	retriedAuth := false

	for {
		if err := c.waitGate(ctx); err != nil {
			return nil, err
		}

		res, err := c.issue(ctx, method, path, params, form, jsonBody)
		if err != nil {
			if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ctx.Err()
			}
			if !isTimeout(err) {
				return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
			}
			if attempt >= c.opts.MaxRetries {
				slog.WarnContext(ctx, "retry budget exhausted",
					"req_id", reqID, "method", method, "path", path,
					"attempts", attempt+1)
				return nil, ErrTimeout
			}
			delay := c.opts.BackoffBase * (1 << attempt)
			attempt++
			slog.DebugContext(ctx, "timeout, backing off",
				"req_id", reqID, "attempt", attempt, "delay", delay)
			if err := c.sleep(ctx, delay); err != nil {
				// a deadline that ran out mid-backoff is still a
				// timeout from the caller's point of view
				if errors.Is(err, context.DeadlineExceeded) {
					return nil, ErrTimeout
				}
				return nil, err
			}
			continue
		}

		status := res.StatusCode()
		switch {
		case status == 429:
			if usedCooldown {
				return nil, ErrRateLimited
			}
			usedCooldown = true
			slog.WarnContext(ctx, "rate limited by upstream, cooling down",
				"req_id", reqID, "cooldown", c.opts.RateLimitCooldown)
			if err := c.sleep(ctx, c.opts.RateLimitCooldown); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return nil, ErrTimeout
				}
				return nil, err
			}
			continue

		case status == 401 || status == 403:
			if retriedAuth {
				return nil, &UpstreamError{StatusCode: status, Body: res.String()}
			}
			retriedAuth = true
			slog.InfoContext(ctx, "session rejected, re-bootstrapping",
				"req_id", reqID, "status", status)
			c.session.clear()
			if err := c.InitializeSession(ctx); err != nil {
				return nil, err
			}
			continue

		case status >= 400:
			return nil, &UpstreamError{StatusCode: status, Body: res.String()}
		}

		c.session.mergeCookies(res.Cookies())
		return &RawResponse{
			StatusCode:  status,
			Body:        res.Body(),
			ContentType: res.Header().Get("Content-Type"),
		}, nil
	}
}

func (c *Client) issue(
	ctx context.Context,
	method, path string,
	params url.Values,
	form url.Values,
	jsonBody string,
) (*resty.Response, error) {
	cookies, csrf := c.session.snapshot()

	req := c.http.R().
		SetContext(ctx).
		SetCookies(cookies)

	if params != nil {
		req.SetQueryParamsFromValues(params)
	}

	switch {
	case form != nil:
		if csrf != "" {
			form = cloneValues(form)
			form.Set("csrf-token", csrf)
		}
		req.SetFormDataFromValues(form)
	case jsonBody != "":
		req.SetHeader("content-type", "application/json")
		// JSON endpoints take the token as a header, not a body field
		if csrf != "" {
			req.SetHeader("x-csrf-token", csrf)
		}
		req.SetBody(jsonBody)
	}

	switch method {
	case "GET":
		return req.Get(path)
	case "POST":
		return req.Post(path)
	}
	return nil, fmt.Errorf("unsupported method %q", method)
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for k, vs := range in {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func (c *Client) waitGate(ctx context.Context) error {
	c.gateMu.Lock()
	defer c.gateMu.Unlock()
	return c.waitGateLocked(ctx)
}

func (c *Client) waitGateLocked(ctx context.Context) error {
	c.session.mu.Lock()
	last := c.session.lastRequest
	c.session.mu.Unlock()

	if !last.IsZero() {
		wait := c.opts.MinRequestInterval - c.now().Sub(last)
		if wait > 0 {
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	c.session.mu.Lock()
	c.session.lastRequest = c.now()
	c.session.mu.Unlock()
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
