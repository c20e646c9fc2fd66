package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/wait"
)

// Step is one navigate, interact, wait or assert action of a scenario.
type Step struct {
	Name string
	Do   func(ctx context.Context, page browser.Page, w *wait.Waiter) error
}

// AssertionError is an observed value that did not match the expected literal.
type AssertionError struct {
	Subject  string // what was observed, e.g. "title" or "text of id=error"
	Relation string // "to contain" or "to equal"
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s %q, got %q", e.Subject, e.Relation, e.Expected, e.Actual)
}

// Navigate loads url. The load is bounded by the waiter's timeout.
func Navigate(url string) Step {
	return Step{
		Name: "navigate " + url,
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			ctx, cancel := w.Bound(ctx)
			defer cancel()
			return page.Navigate(ctx, url)
		},
	}
}

func waitFor(ctx context.Context, page browser.Page, w *wait.Waiter, sel browser.Selector, state string, ok func(browser.ElementState) bool) (browser.ElementState, error) {
	return wait.Value(ctx, w, fmt.Sprintf("element %s to be %s", sel, state),
		func(ctx context.Context) (browser.ElementState, bool, error) {
			st, err := page.Query(ctx, sel)
			return st, err == nil && ok(st), err
		})
}

// WaitVisible blocks until sel is displayed.
func WaitVisible(sel browser.Selector) Step {
	return Step{
		Name: "wait visible " + sel.String(),
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			_, err := waitFor(ctx, page, w, sel, "visible", browser.ElementState.Displayed)
			return err
		},
	}
}

// WaitClickable blocks until sel is displayed and enabled.
func WaitClickable(sel browser.Selector) Step {
	return Step{
		Name: "wait clickable " + sel.String(),
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			_, err := waitFor(ctx, page, w, sel, "clickable", browser.ElementState.Clickable)
			return err
		},
	}
}

// WaitURLContains blocks until the current URL contains sub.
func WaitURLContains(sub string) Step {
	return Step{
		Name: "wait url contains " + sub,
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			return w.Until(ctx, fmt.Sprintf("url to contain %q", sub), func(ctx context.Context) (bool, error) {
				u, err := page.URL(ctx)
				return err == nil && strings.Contains(u, sub), err
			})
		},
	}
}

// Fill locates sel and types text into it.
func Fill(sel browser.Selector, text string) Step {
	return Step{
		Name: "fill " + sel.String(),
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			if _, err := waitFor(ctx, page, w, sel, "visible", browser.ElementState.Displayed); err != nil {
				return err
			}
			ctx, cancel := w.Bound(ctx)
			defer cancel()
			if err := page.Input(ctx, sel, text); err != nil {
				return fmt.Errorf("type into %s: %w", sel, err)
			}
			return nil
		},
	}
}

// Click waits until sel is clickable and clicks it.
func Click(sel browser.Selector) Step {
	return Step{
		Name: "click " + sel.String(),
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			if _, err := waitFor(ctx, page, w, sel, "clickable", browser.ElementState.Clickable); err != nil {
				return err
			}
			ctx, cancel := w.Bound(ctx)
			defer cancel()
			if err := page.Click(ctx, sel); err != nil {
				return fmt.Errorf("click %s: %w", sel, err)
			}
			return nil
		},
	}
}

// AssertTitleContains checks the document title.
func AssertTitleContains(want string) Step {
	return Step{
		Name: "assert title contains " + want,
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			ctx, cancel := w.Bound(ctx)
			defer cancel()
			title, err := page.Title(ctx)
			if err != nil {
				return fmt.Errorf("read title: %w", err)
			}
			if !strings.Contains(title, want) {
				return &AssertionError{Subject: "title", Relation: "to contain", Expected: want, Actual: title}
			}
			return nil
		},
	}
}

// AssertURLContains checks the current URL.
func AssertURLContains(want string) Step {
	return Step{
		Name: "assert url contains " + want,
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			ctx, cancel := w.Bound(ctx)
			defer cancel()
			u, err := page.URL(ctx)
			if err != nil {
				return fmt.Errorf("read url: %w", err)
			}
			if !strings.Contains(u, want) {
				return &AssertionError{Subject: "url", Relation: "to contain", Expected: want, Actual: u}
			}
			return nil
		},
	}
}

func assertText(sel browser.Selector, want, relation string, match func(got, want string) bool) Step {
	return Step{
		Name: "assert text " + relation + " " + sel.String(),
		Do: func(ctx context.Context, page browser.Page, w *wait.Waiter) error {
			st, err := waitFor(ctx, page, w, sel, "visible", browser.ElementState.Displayed)
			if err != nil {
				return err
			}
			if !match(st.Text, want) {
				return &AssertionError{
					Subject:  "text of " + sel.String(),
					Relation: relation,
					Expected: want,
					Actual:   st.Text,
				}
			}
			return nil
		},
	}
}

// AssertTextContains checks that the visible text of sel contains want.
func AssertTextContains(sel browser.Selector, want string) Step {
	return assertText(sel, want, "to contain", strings.Contains)
}

// AssertTextEquals checks that the visible text of sel is exactly want.
func AssertTextEquals(sel browser.Selector, want string) Step {
	return assertText(sel, want, "to equal", func(got, want string) bool { return got == want })
}
