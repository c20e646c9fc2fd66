package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chromedp/chromedp"
)

// ChromedpDriver launches Chrome through chromedp's exec allocator.
type ChromedpDriver struct{}

func (ChromedpDriver) Name() string { return "chromedp" }

// Launch starts Chrome with the same switches the rod driver uses.
func (ChromedpDriver) Launch(ctx context.Context, spec LaunchSpec) (Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(spec.ProfileDir),
		chromedp.Flag("headless", spec.Headless),
		chromedp.Flag("enable-automation", false),
	)
	if spec.Bin != "" {
		opts = append(opts, chromedp.ExecPath(spec.Bin))
	}
	for _, f := range spec.Flags {
		if f.Value == "" {
			opts = append(opts, chromedp.Flag(f.Name, true))
		} else {
			opts = append(opts, chromedp.Flag(f.Name, f.Value))
		}
	}

	// The browser outlives ctx, which only bounds start-up.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	started := make(chan error, 1)
	go func() { started <- chromedp.Run(tabCtx) }()
	select {
	case err := <-started:
		if err != nil {
			tabCancel()
			allocCancel()
			return nil, fmt.Errorf("failed to start Chrome: %w", err)
		}
	case <-ctx.Done():
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start Chrome: %w", ctx.Err())
	}

	return &chromedpBrowser{ctx: tabCtx, cancel: tabCancel, allocCancel: allocCancel}, nil
}

type chromedpBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// run executes actions on the tab, aborting when the caller's ctx ends.
func (c *chromedpBrowser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (c *chromedpBrowser) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (c *chromedpBrowser) Title(ctx context.Context) (string, error) {
	var title string
	err := c.run(ctx, chromedp.Title(&title))
	return title, err
}

func (c *chromedpBrowser) URL(ctx context.Context) (string, error) {
	var url string
	err := c.run(ctx, chromedp.Location(&url))
	return url, err
}

const queryScript = `(() => {
	const el = document.querySelector(%s);
	if (!el) return {found: false, visible: false, enabled: false, text: ""};
	const r = el.getBoundingClientRect();
	const s = window.getComputedStyle(el);
	const visible = r.width > 0 && r.height > 0 && s.visibility !== "hidden" && s.display !== "none";
	return {found: true, visible: visible, enabled: !el.disabled, text: (el.innerText || el.value || "").trim()};
})()`

type queryResult struct {
	Found   bool   `json:"found"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

func (c *chromedpBrowser) Query(ctx context.Context, sel Selector) (ElementState, error) {
	var res queryResult
	script := fmt.Sprintf(queryScript, strconv.Quote(sel.CSS()))
	if err := c.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return ElementState{}, err
	}
	return ElementState(res), nil
}

func (c *chromedpBrowser) Input(ctx context.Context, sel Selector, text string) error {
	return c.run(ctx, chromedp.SendKeys(sel.CSS(), text, chromedp.ByQuery))
}

func (c *chromedpBrowser) Click(ctx context.Context, sel Selector) error {
	return c.run(ctx, chromedp.Click(sel.CSS(), chromedp.ByQuery))
}

func (c *chromedpBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := c.run(ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}

// Close gracefully closes Chrome and releases the allocator. Cancelling the
// allocator waits for the process to exit.
func (c *chromedpBrowser) Close() error {
	err := chromedp.Cancel(c.ctx)
	c.cancel()
	c.allocCancel()
	return err
}
