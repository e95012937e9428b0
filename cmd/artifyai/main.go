package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/OmkarYeole/ArtifyAI/pkg/audio"
	"github.com/OmkarYeole/ArtifyAI/pkg/chat"
	"github.com/OmkarYeole/ArtifyAI/pkg/config"
	"github.com/OmkarYeole/ArtifyAI/pkg/metrics"
	"github.com/OmkarYeole/ArtifyAI/pkg/model/gemini"
	"github.com/OmkarYeole/ArtifyAI/pkg/server"
	"github.com/OmkarYeole/ArtifyAI/pkg/store"
	"github.com/OmkarYeole/ArtifyAI/pkg/store/jsonfile"
	"github.com/OmkarYeole/ArtifyAI/pkg/store/sqlite"
	"github.com/OmkarYeole/ArtifyAI/pkg/transcribe"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// Load .env if present.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger.
	opts := &slog.HandlerOptions{Level: logLevel(cfg.Logging.Level)}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		slog.Error("GEMINI_API_KEY environment variable not set")
		os.Exit(1)
	}
	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		slog.Error("OPENAI_API_KEY environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize store.
	sessions, closeStore, err := newStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Initialize model provider.
	provider, err := gemini.New(ctx, geminiKey, cfg.Model.Name, cfg.Model.VisionModel())
	if err != nil {
		slog.Error("Failed to initialize Gemini provider", "error", err)
		os.Exit(1)
	}

	// Metrics registry.
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Audio ingestion pipeline.
	decoder := audio.NewDecoder(cfg.Audio.FFmpegPath, cfg.Audio.SampleRate)
	whisper := transcribe.NewWhisper(
		openaiKey,
		cfg.Transcription.Model,
		cfg.Transcription.Language,
		cfg.Transcription.TimeoutDuration(),
	)
	pipeline := transcribe.NewPipeline(decoder, whisper, cfg.Transcription.ChunkSeconds, m)

	// Chat manager.
	manager := chat.New(sessions, provider, m)

	// Start server.
	srv := server.New(manager, pipeline, registry)
	if err := srv.Start(cfg.Server.Address); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when the
// file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, using defaults", "path", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

// newStore builds the configured persistence backend.
func newStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.History.Backend {
	case "sqlite":
		s, err := sqlite.New(cfg.History.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		s, err := jsonfile.New(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
