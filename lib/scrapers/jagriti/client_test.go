package jagriti

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// a client wired to a test server with the rate gate effectively
// disabled and recorded sleeps instead of real ones
func newTestClient(t *testing.T, serverUrl string, opts ClientOptions) (*Client, *sleepRecorder) {
	t.Helper()
	opts.BaseUrl = serverUrl
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MinRequestInterval <= 0 {
		opts.MinRequestInterval = time.Nanosecond
	}

	client, err := NewClient(opts)
	require.NoError(t, err)

	recorder := &sleepRecorder{}
	client.sleep = recorder.sleep
	return client, recorder
}

type sleepRecorder struct {
	mu     sync.Mutex
	slept  []time.Duration
	actual bool
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.slept = append(r.slept, d)
	r.mu.Unlock()
	if r.actual {
		return sleepContext(ctx, d)
	}
	return ctx.Err()
}

func (r *sleepRecorder) atLeast(d time.Duration) []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []time.Duration
	for _, s := range r.slept {
		if s >= d {
			out = append(out, s)
		}
	}
	return out
}

func TestSessionBootstrap(t *testing.T) {
	var bootstraps atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			bootstraps.Add(1)
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123"})
			w.Write([]byte(`<html><head><meta name="csrf-token" content="tok-1"></head></html>`))
		case "/page":
			cookie, err := r.Cookie("JSESSIONID")
			if err != nil || cookie.Value != "abc123" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Write([]byte("ok"))
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})
	ctx := context.Background()

	res, err := client.Get(ctx, "/page", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, int32(1), bootstraps.Load())

	_, csrf := client.session.snapshot()
	require.Equal(t, "tok-1", csrf)

	// second call must not bootstrap again
	_, err = client.Get(ctx, "/page", nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), bootstraps.Load())
}

func TestConcurrentBootstrapCollapses(t *testing.T) {
	var bootstraps atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			bootstraps.Add(1)
			time.Sleep(20 * time.Millisecond)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, client.InitializeSession(context.Background()))
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), bootstraps.Load())
}

func TestTimeoutRetriesThenFails(t *testing.T) {
	var slowHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			slowHits.Add(1)
			time.Sleep(300 * time.Millisecond)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	backoffBase := 100 * time.Millisecond
	client, recorder := newTestClient(t, server.URL, ClientOptions{
		Timeout:     50 * time.Millisecond,
		MaxRetries:  2,
		BackoffBase: backoffBase,
	})

	_, err := client.Get(context.Background(), "/slow", nil)
	require.ErrorIs(t, err, ErrTimeout)
	// initial attempt plus exactly MaxRetries retries
	require.Equal(t, int32(3), slowHits.Load())
	// backoff follows base * 2^attempt
	require.Equal(t,
		[]time.Duration{backoffBase, 2 * backoffBase},
		recorder.atLeast(backoffBase),
	)
}

func TestRateLimitCooldownThenSuccess(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data" {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cooldown := 250 * time.Millisecond
	client, recorder := newTestClient(t, server.URL, ClientOptions{
		RateLimitCooldown: cooldown,
	})

	res, err := client.Get(context.Background(), "/data", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, []time.Duration{cooldown}, recorder.atLeast(cooldown))
}

func TestPersistentRateLimitFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{
		RateLimitCooldown: time.Millisecond,
	})

	_, err := client.Get(context.Background(), "/data", nil)
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestSessionRejectedTriggersRebootstrap(t *testing.T) {
	var bootstraps, dataHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			bootstraps.Add(1)
			w.Write([]byte("landing"))
		case "/data":
			if dataHits.Add(1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte("ok"))
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})

	res, err := client.Get(context.Background(), "/data", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, int32(2), bootstraps.Load())
	require.Equal(t, int32(2), dataHits.Load())
}

func TestOtherClientErrorsAreNotRetried(t *testing.T) {
	var dataHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data" {
			dataHits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})

	_, err := client.Get(context.Background(), "/data", nil)
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	require.Equal(t, int32(1), dataHits.Load())
}

func TestRateGateEnforcesInterval(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	interval := 100 * time.Millisecond
	client, recorder := newTestClient(t, server.URL, ClientOptions{
		MinRequestInterval: interval,
	})

	ctx := context.Background()
	_, err := client.Get(ctx, "/a", nil)
	require.NoError(t, err)
	_, err = client.Get(ctx, "/b", nil)
	require.NoError(t, err)

	// the second request had to wait out (most of) the interval
	waits := recorder.atLeast(interval / 2)
	require.NotEmpty(t, waits)
}

func TestDeadlineDuringBackoffIsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			time.Sleep(300 * time.Millisecond)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{
		Timeout:     50 * time.Millisecond,
		MaxRetries:  3,
		BackoffBase: 100 * time.Millisecond,
	})
	// the caller's deadline runs out while waiting out the backoff
	client.sleep = func(ctx context.Context, d time.Duration) error {
		return context.DeadlineExceeded
	}

	_, err := client.Get(context.Background(), "/slow", nil)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestCSRFTokenAttachedToForms(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<input name="csrf-token" value="form-tok">`))
		case "/submit":
			r.ParseForm()
			gotToken = r.PostForm.Get("csrf-token")
			w.Write([]byte("ok"))
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})

	form := map[string][]string{"state_code": {"KA"}}
	_, err := client.PostForm(context.Background(), "/submit", form)
	require.NoError(t, err)
	require.Equal(t, "form-tok", gotToken)
}

func TestCSRFTokenAttachedToJSONPosts(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<meta name="csrf-token" content="json-tok">`))
		case "/graphql":
			gotHeader = r.Header.Get("X-Csrf-Token")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": []}`))
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})

	_, err := client.PostJSON(context.Background(), "/graphql", `{"query": "{}"}`)
	require.NoError(t, err)
	require.Equal(t, "json-tok", gotHeader)
}
