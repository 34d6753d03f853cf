// Package config loads cadquote settings from dotenv files and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultFiles are the dotenv files loaded by the CLI, highest priority first
var DefaultFiles = []string{".env.local", ".env"}

// ErrMissingAPIKey is returned by Validate when no OpenAI key is configured
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable not set")

// Config holds all settings
type Config struct {
	OpenAI OpenAIConfig
	Tools  ToolsConfig
	Render RenderConfig
	Log    LogConfig
}

// OpenAIConfig holds the hosted model settings
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ToolsConfig holds explicit paths to external tools. Empty means search.
type ToolsConfig struct {
	Blender  string
	Gmsh     string
	OpenSCAD string
}

// RenderConfig holds view rendering settings
type RenderConfig struct {
	Size int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads the given dotenv files, skipping ones that do not exist, and
// then builds the config from the environment. Variables already set in the
// environment win over dotenv values, and earlier files win over later ones.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables only
func FromEnv() (Config, error) {
	size, err := getEnvInt("CADQUOTE_RENDER_SIZE", 640)
	if err != nil {
		return Config{}, err
	}
	if size <= 0 {
		return Config{}, fmt.Errorf("invalid value for CADQUOTE_RENDER_SIZE: %d must be positive", size)
	}

	return Config{
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4.1"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Tools: ToolsConfig{
			Blender:  os.Getenv("CADQUOTE_BLENDER"),
			Gmsh:     os.Getenv("CADQUOTE_GMSH"),
			OpenSCAD: os.Getenv("CADQUOTE_OPENSCAD"),
		},
		Render: RenderConfig{
			Size: size,
		},
		Log: LogConfig{
			Level:  getEnv("CADQUOTE_LOG_LEVEL", "info"),
			Format: getEnv("CADQUOTE_LOG_FORMAT", "console"),
		},
	}, nil
}

// Validate checks the settings needed to request a quote
func (c Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}
