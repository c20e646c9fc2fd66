// Package swaglabs models the Swag Labs demo shop and the journeys checked against it.
package swaglabs

import (
	"fmt"
	"strings"

	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/scenario"
)

const (
	// DefaultBaseURL is the public demo shop.
	DefaultBaseURL = "https://www.saucedemo.com/"
	// Brand appears in every page title of the shop.
	Brand = "Swag Labs"
	// InventoryPath is where a successful login lands.
	InventoryPath = "inventory.html"
	// InventoryHeader is the header text of the inventory page.
	InventoryHeader = "Products"
	// DefaultAboutMarker identifies the about page the side menu links to.
	DefaultAboutMarker = "saucelabs.com"
)

// Error banner texts shown by the login form.
const (
	MsgUsernameRequired = "Epic sadface: Username is required"
	MsgPasswordRequired = "Epic sadface: Password is required"
	MsgNoMatch          = "Epic sadface: Username and password do not match any user in this service"
	MsgLockedOut        = "Epic sadface: Sorry, this user has been locked out."
)

// Page elements.
var (
	UsernameField = browser.ByID("user-name")
	PasswordField = browser.ByID("password")
	LoginButton   = browser.ByID("login-button")
	ErrorBanner   = browser.ByCSS("[data-test='error']")
	MenuButton    = browser.ByID("react-burger-menu-btn")
	AboutLink     = browser.ByID("about_sidebar_link")
	PageHeader    = browser.ByClass("title")
)

// Credentials is a username/password pair for the login form.
type Credentials struct {
	Username string
	Password string
}

var (
	// StandardUser is the shop's regular account.
	StandardUser = Credentials{Username: "standard_user", Password: "secret_sauce"}
	// UnknownUser does not exist.
	UnknownUser = Credentials{Username: "kingsley", Password: "djdskjsfhfak"}
	// LockedOutUser exists but is refused at login.
	LockedOutUser = Credentials{Username: "locked_out_user", Password: "secret_sauce"}
)

// Site locates the shop under test.
type Site struct {
	BaseURL     string
	AboutMarker string // substring of the about page URL
}

// DefaultSite is the public demo shop.
func DefaultSite() Site {
	return Site{BaseURL: DefaultBaseURL, AboutMarker: DefaultAboutMarker}
}

// LoginSteps opens the login page and submits creds. Empty fields are left untouched.
func LoginSteps(site Site, creds Credentials) []scenario.Step {
	steps := []scenario.Step{scenario.Navigate(site.BaseURL)}
	if creds.Username != "" {
		steps = append(steps, scenario.Fill(UsernameField, creds.Username))
	}
	if creds.Password != "" {
		steps = append(steps, scenario.Fill(PasswordField, creds.Password))
	}
	return append(steps, scenario.Click(LoginButton))
}

// Title checks the homepage title carries the brand.
func Title(site Site) scenario.Scenario {
	return scenario.Scenario{
		Name:        "title",
		Description: "homepage title contains " + Brand,
		Steps: []scenario.Step{
			scenario.Navigate(site.BaseURL),
			scenario.WaitVisible(LoginButton),
			scenario.AssertTitleContains(Brand),
		},
	}
}

// LoginWithoutCredentials submits an empty form.
func LoginWithoutCredentials(site Site) scenario.Scenario {
	return scenario.Scenario{
		Name:        "login-without-credentials",
		Description: "empty login shows the username required error",
		Steps: append(LoginSteps(site, Credentials{}),
			scenario.WaitVisible(ErrorBanner),
			scenario.AssertTextContains(ErrorBanner, MsgUsernameRequired),
		),
	}
}

// LoginWithWrongCredentials submits a user that does not exist.
func LoginWithWrongCredentials(site Site) scenario.Scenario {
	return scenario.Scenario{
		Name:        "login-with-wrong-credentials",
		Description: "unknown user shows the no match error",
		Steps: append(LoginSteps(site, UnknownUser),
			scenario.WaitVisible(ErrorBanner),
			scenario.AssertTextContains(ErrorBanner, MsgNoMatch),
		),
	}
}

// LoginWithValidCredentials logs in and checks the inventory page.
func LoginWithValidCredentials(site Site) scenario.Scenario {
	return scenario.Scenario{
		Name:        "login-with-valid-credentials",
		Description: "standard user lands on the inventory page",
		Steps: append(LoginSteps(site, StandardUser),
			scenario.WaitURLContains(InventoryPath),
			scenario.AssertURLContains(InventoryPath),
			scenario.AssertTitleContains(Brand),
			scenario.WaitVisible(PageHeader),
			scenario.AssertTextEquals(PageHeader, InventoryHeader),
		),
	}
}

// NavigateToAbout logs in, opens the side menu and follows About.
func NavigateToAbout(site Site) scenario.Scenario {
	return scenario.Scenario{
		Name:        "navigate-to-about",
		Description: "side menu About link leaves for " + site.AboutMarker,
		Steps: append(LoginSteps(site, StandardUser),
			scenario.WaitURLContains(InventoryPath),
			scenario.Click(MenuButton),
			scenario.Click(AboutLink),
			scenario.WaitURLContains(site.AboutMarker),
			scenario.AssertURLContains(site.AboutMarker),
		),
	}
}

// All returns every scenario in a fixed order.
func All(site Site) []scenario.Scenario {
	return []scenario.Scenario{
		Title(site),
		LoginWithoutCredentials(site),
		LoginWithWrongCredentials(site),
		LoginWithValidCredentials(site),
		NavigateToAbout(site),
	}
}

// Lookup returns the scenarios with the given names, in the order asked.
// No names selects all of them.
func Lookup(site Site, names ...string) ([]scenario.Scenario, error) {
	all := All(site)
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]scenario.Scenario, len(all))
	known := make([]string, 0, len(all))
	for _, sc := range all {
		byName[sc.Name] = sc
		known = append(known, sc.Name)
	}
	out := make([]scenario.Scenario, 0, len(names))
	for _, n := range names {
		sc, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (known: %s)", n, strings.Join(known, ", "))
		}
		out = append(out, sc)
	}
	return out, nil
}
