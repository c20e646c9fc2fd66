package browser

import (
	"context"
	"fmt"
	"strings"
)

// By names the strategy a Selector uses to address an element.
type By int

const (
	ByIDStrategy By = iota
	ByCSSStrategy
	ByClassStrategy
)

// Selector addresses a page element by a stable identifier.
type Selector struct {
	By    By
	Value string
}

// ByID selects the element with the given id attribute.
func ByID(id string) Selector { return Selector{By: ByIDStrategy, Value: id} }

// ByCSS selects the first element matching a CSS selector.
func ByCSS(css string) Selector { return Selector{By: ByCSSStrategy, Value: css} }

// ByClass selects the first element carrying a class name.
func ByClass(class string) Selector { return Selector{By: ByClassStrategy, Value: class} }

// CSS renders the selector as a CSS selector both drivers understand.
func (s Selector) CSS() string {
	switch s.By {
	case ByIDStrategy:
		return fmt.Sprintf(`[id="%s"]`, cssQuote(s.Value))
	case ByClassStrategy:
		return "." + s.Value
	default:
		return s.Value
	}
}

func (s Selector) String() string {
	switch s.By {
	case ByIDStrategy:
		return "id=" + s.Value
	case ByClassStrategy:
		return "class=" + s.Value
	default:
		return "css=" + s.Value
	}
}

func cssQuote(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v)
}

// ElementState is a point-in-time snapshot of one element.
type ElementState struct {
	Found   bool
	Visible bool
	Enabled bool
	Text    string
}

// Displayed reports whether the element exists and is rendered.
func (e ElementState) Displayed() bool { return e.Found && e.Visible }

// Clickable reports whether the element is displayed and not disabled.
func (e ElementState) Clickable() bool { return e.Displayed() && e.Enabled }

// Page is the set of browser operations a scenario drives.
// Query never blocks waiting for the element; waiting is the caller's job.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	Query(ctx context.Context, sel Selector) (ElementState, error)
	Input(ctx context.Context, sel Selector, text string) error
	Click(ctx context.Context, sel Selector) error
	Screenshot(ctx context.Context) ([]byte, error)
}

// Browser is a launched browser exposing a single page. Close returns only
// once the browser process has exited.
type Browser interface {
	Page
	Close() error
}

// Flag is one browser command-line switch. An empty Value is a bare switch.
type Flag struct {
	Name  string
	Value string
}

func (f Flag) String() string {
	if f.Value == "" {
		return "--" + f.Name
	}
	return "--" + f.Name + "=" + f.Value
}

// LaunchSpec is everything a Driver needs to start an isolated browser.
type LaunchSpec struct {
	Bin          string
	ProfileDir   string
	Headless     bool
	Flags        []Flag
	WindowWidth  int
	WindowHeight int
}

// Driver launches browsers.
type Driver interface {
	Name() string
	Launch(ctx context.Context, spec LaunchSpec) (Browser, error)
}
