//go:build e2e

package e2e

import (
	"testing"

	"github.com/thesyncim/swaglabs/internal/config"
	"github.com/thesyncim/swaglabs/pkg/scenario"
	"github.com/thesyncim/swaglabs/pkg/swaglabs"
	"github.com/thesyncim/swaglabs/pkg/testutil"
)

// loadConfig reads SWAG_* settings (and ./.env) or fails the test.
func loadConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// runLive runs the scenario built by build against the configured shop in a
// browser of its own.
func runLive(t *testing.T, build func(swaglabs.Site) scenario.Scenario) {
	t.Parallel()
	cfg := loadConfig(t)
	sc := build(cfg.Site())
	t.Logf("Running %s against %s", sc.Name, cfg.BaseURL)

	runner := cfg.Runner(cfg.Logger("e2e"))
	testutil.RunScenario(t, runner, cfg.Browser(), sc)
}

func TestSwagLabs_Title(t *testing.T) {
	runLive(t, swaglabs.Title)
}

func TestSwagLabs_LoginWithoutCredentials(t *testing.T) {
	runLive(t, swaglabs.LoginWithoutCredentials)
}

func TestSwagLabs_LoginWithWrongCredentials(t *testing.T) {
	runLive(t, swaglabs.LoginWithWrongCredentials)
}

func TestSwagLabs_LoginWithValidCredentials(t *testing.T) {
	runLive(t, swaglabs.LoginWithValidCredentials)
}

func TestSwagLabs_NavigateToAbout(t *testing.T) {
	runLive(t, swaglabs.NavigateToAbout)
}
