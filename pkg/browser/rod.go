package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// exitTimeout bounds how long Close waits for Chrome to exit.
const exitTimeout = 10 * time.Second

// RodDriver launches Chrome through Rod's launcher and drives it over CDP.
type RodDriver struct{}

func (RodDriver) Name() string { return "rod" }

// Launch starts Chrome on spec.ProfileDir with spec.Flags applied.
// The automation info bar switch Rod adds by default is removed.
func (RodDriver) Launch(ctx context.Context, spec LaunchSpec) (Browser, error) {
	l := launcher.New().
		Headless(spec.Headless).
		UserDataDir(spec.ProfileDir).
		Delete("enable-automation")
	if spec.Bin != "" {
		l = l.Bin(spec.Bin)
	}
	for _, f := range spec.Flags {
		if f.Value == "" {
			l = l.Set(flags.Flag(f.Name))
		} else {
			l = l.Set(flags.Flag(f.Name), f.Value)
		}
	}

	// The browser outlives ctx, which only bounds start-up.
	type launched struct {
		url string
		err error
	}
	done := make(chan launched, 1)
	go func() {
		url, err := l.Launch()
		done <- launched{url, err}
	}()
	var url string
	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("failed to launch Chrome: %w", res.err)
		}
		url = res.url
	case <-ctx.Done():
		l.Kill()
		return nil, fmt.Errorf("failed to launch Chrome: %w", ctx.Err())
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	rb := &rodBrowser{launcher: l, browser: b, page: page}
	if !spec.Headless {
		// Headless windows have no window manager state to change.
		if err := page.SetWindow(&proto.BrowserBounds{
			WindowState: proto.BrowserWindowStateMaximized,
		}); err != nil {
			_ = rb.Close()
			return nil, fmt.Errorf("failed to maximize window: %w", err)
		}
	}
	return rb, nil
}

type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func (r *rodBrowser) Navigate(ctx context.Context, url string) error {
	p := r.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, err)
	}
	return nil
}

func (r *rodBrowser) Title(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (r *rodBrowser) URL(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Query inspects the first element matching sel without waiting for it.
func (r *rodBrowser) Query(ctx context.Context, sel Selector) (ElementState, error) {
	els, err := r.page.Context(ctx).Elements(sel.CSS())
	if err != nil {
		return ElementState{}, err
	}
	if els.Empty() {
		return ElementState{}, nil
	}
	el := els.First()

	visible, err := el.Visible()
	if err != nil {
		return ElementState{}, err
	}
	enabled, err := el.Eval(`() => !this.disabled`)
	if err != nil {
		return ElementState{}, err
	}
	text, err := el.Text()
	if err != nil {
		return ElementState{}, err
	}
	return ElementState{
		Found:   true,
		Visible: visible,
		Enabled: enabled.Value.Bool(),
		Text:    text,
	}, nil
}

// element returns the first match for sel without Rod's retrying lookup.
func (r *rodBrowser) element(ctx context.Context, sel Selector) (*rod.Element, error) {
	els, err := r.page.Context(ctx).Elements(sel.CSS())
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", sel, err)
	}
	if els.Empty() {
		return nil, fmt.Errorf("locate %s: %w", sel, ErrElementNotFound)
	}
	return els.First(), nil
}

func (r *rodBrowser) Input(ctx context.Context, sel Selector, text string) error {
	el, err := r.element(ctx, sel)
	if err != nil {
		return err
	}
	return el.Input(text)
}

// Click waits for the element to be interactable, bounded by ctx.
func (r *rodBrowser) Click(ctx context.Context, sel Selector) error {
	el, err := r.element(ctx, sel)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (r *rodBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	return r.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Close shuts Chrome down and waits for the process to exit, so the profile
// directory is no longer written to when it returns. If the graceful close
// fails, or the process outlives exitTimeout, it is killed.
func (r *rodBrowser) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if err != nil {
		r.launcher.Kill()
	}

	exited := make(chan struct{})
	go func() {
		r.launcher.Cleanup()
		close(exited)
	}()
	select {
	case <-exited:
	case <-time.After(exitTimeout):
		r.launcher.Kill()
		<-exited
	}
	return err
}
