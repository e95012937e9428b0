package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	History       HistoryConfig       `yaml:"history"`
	Model         ModelConfig         `yaml:"model"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Audio         AudioConfig         `yaml:"audio"`
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// HistoryConfig controls transcript persistence.
type HistoryConfig struct {
	Backend    string `yaml:"backend"` // "json" or "sqlite"
	Path       string `yaml:"path"`    // directory for the json backend
	SQLitePath string `yaml:"sqlite_path"`
}

// ModelConfig identifies the language models to use.
type ModelConfig struct {
	Name       string `yaml:"name"`        // chat model, e.g. "gemini-2.0-flash"
	VisionName string `yaml:"vision_name"` // image description model; defaults to Name
}

// TranscriptionConfig configures the speech-to-text client.
type TranscriptionConfig struct {
	Model        string `yaml:"model"`
	Language     string `yaml:"language"`
	ChunkSeconds int    `yaml:"chunk_seconds"`
	Timeout      int    `yaml:"timeout"` // seconds
}

// AudioConfig configures the decode path.
type AudioConfig struct {
	FFmpegPath string `yaml:"ffmpeg_path"`
	SampleRate int    `yaml:"sample_rate"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			Backend:    "json",
			Path:       "chat_sessions",
			SQLitePath: "chat_sessions/history.db",
		},
		Model: ModelConfig{
			Name: "gemini-2.0-flash",
		},
		Transcription: TranscriptionConfig{
			Model:        "whisper-1",
			Language:     "en",
			ChunkSeconds: 30,
			Timeout:      60,
		},
		Audio: AudioConfig{
			FFmpegPath: "ffmpeg",
			SampleRate: 16000,
		},
		Server: ServerConfig{
			Address: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses the configuration file, filling unset fields
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history config: %w", err)
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model config: %w", err)
	}
	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates history configuration.
func (h *HistoryConfig) Validate() error {
	switch h.Backend {
	case "json":
		if h.Path == "" {
			return fmt.Errorf("path cannot be empty for the json backend")
		}
	case "sqlite":
		if h.SQLitePath == "" {
			return fmt.Errorf("sqlite_path cannot be empty for the sqlite backend")
		}
	default:
		return fmt.Errorf("backend must be 'json' or 'sqlite', got '%s'", h.Backend)
	}
	return nil
}

// Validate validates model configuration.
func (m *ModelConfig) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// Validate validates transcription configuration.
func (t *TranscriptionConfig) Validate() error {
	if t.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if t.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	if t.ChunkSeconds < 1 {
		return fmt.Errorf("chunk_seconds must be at least 1, got %d", t.ChunkSeconds)
	}
	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}
	return nil
}

// Validate validates audio configuration.
func (a *AudioConfig) Validate() error {
	if a.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg_path cannot be empty")
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", a.SampleRate)
	}
	return nil
}

// Validate validates server configuration.
func (s *ServerConfig) Validate() error {
	if s.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	return nil
}

// Validate validates logging configuration.
func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
}

// VisionModel returns the image description model, falling back to the
// chat model when unset.
func (m *ModelConfig) VisionModel() string {
	if m.VisionName != "" {
		return m.VisionName
	}
	return m.Name
}

// TimeoutDuration returns the transcription timeout as a time.Duration.
func (t *TranscriptionConfig) TimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}
