package jagriti

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/codes"

	"jagriti-backend/lib/configutil"
)

const DefaultBrowserTimeout = 90 * time.Second

type BrowserOptions struct {
	Headless bool          `json:"headless"`
	Timeout  time.Duration `json:"timeout"`
}

func (o BrowserOptions) withDefaults() BrowserOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultBrowserTimeout
	}
	return o
}

func BrowserOptionsFromEnv() BrowserOptions {
	return BrowserOptions{
		Headless: configutil.EnvBool("JAGRITI_BROWSER_HEADLESS", true),
		Timeout:  configutil.EnvDuration("JAGRITI_BROWSER_TIMEOUT", DefaultBrowserTimeout),
	}
}

// Browser is the last-resort tier: a headless chrome session that
// loads the search page and reads the rendered DOM after client-side
// scripts have run. It only serves state enumeration and does exactly
// one navigation, one bounded wait and one DOM read per probe.
type Browser struct {
	baseUrl string
	opts    BrowserOptions
}

func NewBrowser(baseUrl string, opts BrowserOptions) *Browser {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	return &Browser{baseUrl: baseUrl, opts: opts.withDefaults()}
}

func (b *Browser) Name() string { return "browser" }

const extractStateOptionsJS = `(() => {
	const selects = Array.from(document.querySelectorAll('select'));
	let pick = selects.find(s => /state/i.test((s.name||'')+' '+(s.id||'')+' '+(s.className||'')));
	if (!pick) pick = selects.find(s => s.options.length > 10);
	if (!pick) return [];
	return Array.from(pick.options)
		.filter(o => o.value && !['', '-1', '0', 'select'].includes(o.value.toLowerCase().trim()))
		.map(o => [o.value.trim(), o.textContent.trim()]);
})()`

func (b *Browser) Probe(ctx context.Context, op Operation) (RawPayload, error) {
	if op.Kind != OpListStates {
		return RawPayload{}, ErrNotSupported
	}

	ctx, span := tracer.Start(ctx, "browser:Probe")
	defer span.End()

	allocatorOpts := chromedp.DefaultExecAllocatorOptions[:]
	if !b.opts.Headless {
		allocatorOpts = append(allocatorOpts, chromedp.Flag("headless", false))
	}
	allocatorOpts = append(allocatorOpts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
	)

	// the deadline bounds the whole tier: navigation, render wait
	// and DOM read together
	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	slog.InfoContext(ctx, "launching browser tier", "headless", b.opts.Headless)

	var optionPairs [][]string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(b.baseUrl+searchPagePaths[0]),
		chromedp.WaitVisible("select", chromedp.ByQuery),
		chromedp.Evaluate(extractStateOptionsJS, &optionPairs),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			return RawPayload{}, fmt.Errorf("%w: dropdowns never rendered within %s",
				ErrUnreachable, b.opts.Timeout)
		}
		return RawPayload{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	if len(optionPairs) == 0 {
		return RawPayload{}, ErrEmpty
	}

	rows := make([]RawRow, 0, len(optionPairs))
	for _, pair := range optionPairs {
		if len(pair) != 2 {
			continue
		}
		rows = append(rows, RawRow{Cells: []string{pair[0], pair[1]}})
	}
	slog.InfoContext(ctx, "browser tier extracted states", "count", len(rows))
	return RawPayload{Kind: PayloadRows, Rows: rows}, nil
}
