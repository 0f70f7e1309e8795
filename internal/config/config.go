// Package config loads wikicat settings from an optional TOML file with
// WIKICAT_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"fortio.org/log"
	"github.com/BurntSushi/toml"

	"github.com/agentic-research/wikicat/internal/graph"
)

// DefaultRootID is the id of the synthetic root above the top-level
// categories.
const DefaultRootID = "((ROOT))"

// Config holds everything the commands need to build and serve a graph.
type Config struct {
	Snapshot           string         `toml:"snapshot"`
	HiddenCategory     string         `toml:"hidden_category"`
	RootID             string         `toml:"root_id"`
	TopLevelCategories []string       `toml:"top_level_categories"`
	LogLevel           string         `toml:"log_level"`
	Traverse           TraverseConfig `toml:"traverse"`
}

type TraverseConfig struct {
	// MaxVisited caps the ids a traversal emits. 0 disables the cap.
	MaxVisited int `toml:"max_visited"`
}

func Default() *Config {
	return &Config{
		HiddenCategory:     graph.DefaultHiddenCategoryTitle,
		RootID:             DefaultRootID,
		TopLevelCategories: append([]string(nil), graph.DefaultTopLevelCategories...),
		LogLevel:           "info",
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			log.Warnf("config %s: unknown key %q", path, key.String())
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Snapshot = getEnv("WIKICAT_SNAPSHOT", c.Snapshot)
	c.LogLevel = getEnv("WIKICAT_LOG_LEVEL", c.LogLevel)
	c.Traverse.MaxVisited = getEnvAsInt("WIKICAT_MAX_VISITED", c.Traverse.MaxVisited)
}

func (c *Config) Validate() error {
	switch {
	case c.HiddenCategory == "":
		return errors.New("hidden_category must not be empty")
	case c.RootID == "":
		return errors.New("root_id must not be empty")
	case c.Traverse.MaxVisited < 0:
		return fmt.Errorf("traverse.max_visited must be >= 0, got %d", c.Traverse.MaxVisited)
	}
	return nil
}

// GraphOptions translates the config into graph construction options.
func (c *Config) GraphOptions() []graph.Option {
	return []graph.Option{
		graph.WithHiddenCategoryTitle(c.HiddenCategory),
		graph.WithTopLevelCategories(c.TopLevelCategories),
	}
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warnf("ignoring %s=%q: %v", key, valueStr, err)
		return defaultValue
	}
	return value
}
