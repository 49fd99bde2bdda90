package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShow(t *testing.T, id string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunShow(context.Background(), &buf, id))
	return buf.String()
}

func TestShow_SingleScenario(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	out := runShow(t, "1")

	assert.Contains(t, out, "#1  login.feature")
	assert.Contains(t, out, "Scenario: User logs in")
}

func TestShow_AcceptsHashPrefix(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	assert.Equal(t, runShow(t, "1"), runShow(t, "#1"))
}

func TestShow_DisplaysGherkinContent(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login
  Scenario: User logs in
    Given the user is on the login page
    When  the user enters valid credentials
    Then  the user sees the dashboard
`)
	runSync(t)

	out := runShow(t, "1")

	assert.Contains(t, out, "Given the user is on the login page")
	assert.Contains(t, out, "When  the user enters valid credentials")
	assert.Contains(t, out, "Then  the user sees the dashboard")
}

func TestShow_IncludesBackground(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When they log in
`)
	runSync(t)

	out := runShow(t, "1")

	assert.Contains(t, out, "\n  Background:\n    Given a registered user\n\n  Scenario: User logs in\n    When they log in\n")
}

func TestShow_RuleInHeader(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", lockoutFeature)
	runSync(t)

	out := runShow(t, "2")

	assert.Contains(t, out, "rule: Lockout")
	assert.Contains(t, out, "Scenario: Too many attempts")
	assert.NotContains(t, out, "Unlock by email")
}

func TestShow_NotFound(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runSync(t)

	err := RunShow(context.Background(), &bytes.Buffer{}, "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario 99 not found")
}

func TestShow_InvalidID(t *testing.T) {
	inTempDir(t)
	runInit(t)

	err := RunShow(context.Background(), &bytes.Buffer{}, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario ID")
}

func TestShow_FileChangedSinceSync(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	writeFeature(t, "features/login.feature", "Feature: Login\n\n\n  Scenario: User logs in\n    Given a user\n")

	err := RunShow(context.Background(), &bytes.Buffer{}, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `gherkinast sync`")
}
