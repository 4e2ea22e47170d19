package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Config is the application configuration, read from a TOML file.
type Config struct {
	Database string `toml:"database"` // path to the SQLite database
	Currency string `toml:"currency"` // default currency for imports
	Listen   string `toml:"listen"`   // address of the HTTP server

	Assist  AssistConfig             `toml:"assist"`
	Imports map[string]ImportMapping `toml:"imports"`
}

// AssistConfig configures the rule-suggestion agent.
type AssistConfig struct {
	Model string `toml:"model"`
}

// ImportMapping maps a bank's JSON export onto transaction line fields
// using JSONPath expressions. Lines selects the record array; the other
// paths are evaluated per record.
type ImportMapping struct {
	Lines       string `toml:"lines"`
	Date        string `toml:"date"`
	DateFormat  string `toml:"date_format,omitempty"` // Go layout, ISO-8601 when empty
	Own         string `toml:"own"`
	Contra      string `toml:"contra,omitempty"`
	Name        string `toml:"name,omitempty"`
	Description string `toml:"description,omitempty"`
	Amount      string `toml:"amount"`
	Currency    string `toml:"currency,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Database: "networth.db",
		Currency: "EUR",
		Listen:   "127.0.0.1:8417",
	}
}

// LoadConfig reads the TOML file at path. A missing file is not an error:
// the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	return cfg, nil
}
