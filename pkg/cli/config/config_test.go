package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/standup-lab/jirabot/pkg/cli/config"
	"github.com/standup-lab/jirabot/pkg/service/notify"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestAppConfigure(t *testing.T) {
	path := writeConfig(t, `
[greeting]
message = "Welcome back, %s! Pick one:"
suggestions = ["Check your issues", "Submit your standup"]

[chat]
history_limit = 20

[scrum]
timezone = "America/New_York"

[jira]
default_project_key = "PROJ"
`)

	var appCfg config.App
	appCfg.SetPathForTest(path)

	cfg, err := appCfg.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Greeting("Alice")).Equal("Welcome back, Alice! Pick one:")
	gt.Array(t, cfg.SuggestionList()).Length(2)
	gt.Number(t, cfg.History()).Equal(20)
	gt.Value(t, cfg.Location().String()).Equal("America/New_York")
	gt.Value(t, cfg.ProjectKey()).Equal("PROJ")
}

func TestAppConfigureDefaults(t *testing.T) {
	var appCfg config.App

	cfg, err := appCfg.Configure()
	gt.NoError(t, err).Required()
	gt.String(t, cfg.Greeting("Alice")).Contains("Alice")
	gt.String(t, cfg.Greeting("Alice")).Contains("top 3 things")
	gt.Array(t, cfg.SuggestionList()).Length(3)
	gt.Number(t, cfg.History()).Equal(10)
	gt.Value(t, cfg.Location().String()).Equal("UTC")
}

func TestAppConfigurePartialFile(t *testing.T) {
	path := writeConfig(t, `
[jira]
default_project_key = "OPS"
`)

	var appCfg config.App
	appCfg.SetPathForTest(path)

	cfg, err := appCfg.Configure()
	gt.NoError(t, err).Required()
	gt.Array(t, cfg.SuggestionList()).Length(3)
	gt.Number(t, cfg.History()).Equal(10)
	gt.Value(t, cfg.ProjectKey()).Equal("OPS")
}

func TestAppConfigureInvalidTimezone(t *testing.T) {
	path := writeConfig(t, `
[scrum]
timezone = "Not/AZone"
`)

	var appCfg config.App
	appCfg.SetPathForTest(path)

	_, err := appCfg.Configure()
	gt.Error(t, err)
}

func TestAppConfigureNegativeHistory(t *testing.T) {
	path := writeConfig(t, `
[chat]
history_limit = -1
`)

	var appCfg config.App
	appCfg.SetPathForTest(path)

	_, err := appCfg.Configure()
	gt.Error(t, err)
}

func TestAppConfigureMissingFile(t *testing.T) {
	var appCfg config.App
	appCfg.SetPathForTest(filepath.Join(t.TempDir(), "missing.toml"))

	_, err := appCfg.Configure()
	gt.Error(t, err)
}

func TestLoggerConfigure(t *testing.T) {
	logger := config.NewLoggerForTest("debug", "json", "-")
	closer, err := logger.Configure()
	gt.NoError(t, err).Required()
	closer()
}

func TestLoggerConfigureInvalidLevel(t *testing.T) {
	logger := config.NewLoggerForTest("verbose", "json", "-")
	_, err := logger.Configure()
	gt.Error(t, err)
}

func TestLoggerConfigureInvalidFormat(t *testing.T) {
	logger := config.NewLoggerForTest("info", "xml", "-")
	_, err := logger.Configure()
	gt.Error(t, err)
}

func TestNotifyConfigure(t *testing.T) {
	svc, err := config.NewNotifyForTest("none").Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, svc).Equal(notify.NewNop())

	_, err = config.NewNotifyForTest("mail").Configure()
	gt.Error(t, err)

	_, err = config.NewNotifyForTest("slack").Configure()
	gt.Error(t, err)

	_, err = config.NewNotifyForTest("pigeon").Configure()
	gt.Error(t, err)
}
