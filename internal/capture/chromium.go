package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Default capture parameters for a schedule page.
const (
	DefaultSelector   = "body"
	DefaultTimeoutSec = 30
)

// CaptureOptions defines parameters for a Chromium-based text capture.
type CaptureOptions struct {
	// URL of the class schedule page, or a file:// URL of a saved copy.
	URL string

	// Selector is the element whose rendered text is captured. Empty means
	// DefaultSelector.
	Selector string

	// Timeout bounds the entire capture operation. Zero means
	// DefaultTimeoutSec.
	Timeout time.Duration

	// ExecAllocatorOptions are appended to chromedp's defaults, e.g. to
	// point at a specific browser binary.
	ExecAllocatorOptions []chromedp.ExecAllocatorOption
}

// CapturePageText launches headless Chromium via chromedp, navigates to
// opts.URL, waits for opts.Selector and returns its innerText. innerText
// keeps the line breaks a user would get from select-all and copy, so the
// result can go straight to the schedule parser.
func CapturePageText(parentCtx context.Context, opts CaptureOptions) (string, error) {
	if opts.URL == "" {
		return "", fmt.Errorf("capture: URL is required")
	}
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], opts.ExecAllocatorOptions...)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var text string
	tasks := chromedp.Tasks{
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady(opts.Selector, chromedp.ByQuery),
		chromedp.Evaluate(innerTextJS(opts.Selector), &text),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	return text, nil
}

// innerTextJS builds an expression returning the selector's innerText.
// chromedp.Text returns textContent, which loses layout line breaks.
func innerTextJS(selector string) string {
	return fmt.Sprintf(`(() => { const el = document.querySelector(%q); return el ? el.innerText : ""; })()`, selector)
}
