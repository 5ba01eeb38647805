package config

import (
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/standup-lab/jirabot/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// App holds the CLI flag for the TOML application configuration
type App struct {
	path string
}

// Flags returns CLI flags for app configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML application configuration",
			Sources:     cli.EnvVars("JIRABOT_CONFIG"),
			Destination: &a.path,
		},
	}
}

// AppConfigFile is the TOML shape of the application configuration
type AppConfigFile struct {
	Greeting GreetingSection `toml:"greeting"`
	Chat     ChatSection     `toml:"chat"`
	Scrum    ScrumSection    `toml:"scrum"`
	Jira     JiraSection     `toml:"jira"`
}

type GreetingSection struct {
	Message     string   `toml:"message"`
	Suggestions []string `toml:"suggestions"`
}

type ChatSection struct {
	HistoryLimit int `toml:"history_limit"`
}

type ScrumSection struct {
	Timezone string `toml:"timezone"`
}

type JiraSection struct {
	DefaultProjectKey string `toml:"default_project_key"`
}

// Validate checks if the AppConfigFile is valid
func (f *AppConfigFile) Validate() error {
	if f.Chat.HistoryLimit < 0 {
		return goerr.New("chat.history_limit must not be negative",
			goerr.V("history_limit", f.Chat.HistoryLimit))
	}
	for i, s := range f.Greeting.Suggestions {
		if strings.TrimSpace(s) == "" {
			return goerr.New("greeting.suggestions must not contain empty entries",
				goerr.V("index", i))
		}
	}
	if f.Scrum.Timezone != "" {
		if _, err := time.LoadLocation(f.Scrum.Timezone); err != nil {
			return goerr.Wrap(err, "invalid scrum.timezone", goerr.V("timezone", f.Scrum.Timezone))
		}
	}
	return nil
}

// ToDomainAppConfig converts the file shape to the domain configuration,
// leaving defaults to the domain accessors.
func (f *AppConfigFile) ToDomainAppConfig() (*domainConfig.AppConfig, error) {
	cfg := domainConfig.Default()
	if f.Greeting.Message != "" {
		cfg.GreetingMessage = f.Greeting.Message
	}
	if len(f.Greeting.Suggestions) > 0 {
		cfg.Suggestions = f.Greeting.Suggestions
	}
	if f.Chat.HistoryLimit > 0 {
		cfg.HistoryLimit = f.Chat.HistoryLimit
	}
	if f.Scrum.Timezone != "" {
		loc, err := time.LoadLocation(f.Scrum.Timezone)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid scrum.timezone", goerr.V("timezone", f.Scrum.Timezone))
		}
		cfg.Timezone = loc
	}
	cfg.DefaultProjectKey = f.Jira.DefaultProjectKey
	return cfg, nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfigFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var file AppConfigFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &file, nil
}

// Configure loads and converts the application configuration. Without a
// config flag the built-in defaults apply.
func (a *App) Configure() (*domainConfig.AppConfig, error) {
	if a.path == "" {
		return domainConfig.Default(), nil
	}

	file, err := LoadAppConfiguration(a.path)
	if err != nil {
		return nil, err
	}

	return file.ToDomainAppConfig()
}
