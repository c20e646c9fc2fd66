//go:build e2e

// Package e2e runs the Swag Labs scenarios in real browsers.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome or Chromium browser (auto-downloaded by Rod if not
// present) and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// Two groups of tests exist:
//   - TestSwagLabs_* run each scenario against SWAG_BASE_URL, the public demo
//     shop by default, and need network access.
//   - TestStub_* start cmd/swagstub on a random port and need none.
//
// SWAG_DRIVER=chromedp switches both groups to the chromedp driver. See
// internal/config for the other SWAG_* settings; a .env file in this
// directory is read too.
//
// Test isolation:
// Each test acquires its own browser with a fresh profile directory, which
// is removed when the test ends. Tests can run in parallel.
package e2e
