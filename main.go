package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v9"
	"github.com/dskvich/imagegen/pkg/config"
	"github.com/dskvich/imagegen/pkg/database"
	"github.com/dskvich/imagegen/pkg/domain"
	"github.com/dskvich/imagegen/pkg/imagegen"
	"github.com/dskvich/imagegen/pkg/logger"
	"github.com/dskvich/imagegen/pkg/repository"
)

const (
	usage               = "usage: imagegen <prompt> [output-path] | imagegen history [id]"
	defaultHistoryLimit = 20
)

type Config struct {
	Provider          string `env:"IMAGE_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey      string `env:"OPENAI_API_KEY"`
	ReplicateAPIToken string `env:"REPLICATE_API_TOKEN"`

	OpenAIModel    string `env:"OPENAI_IMAGE_MODEL" envDefault:"gpt-image-1"`
	OpenAISize     string `env:"OPENAI_IMAGE_SIZE" envDefault:"1024x1024"`
	OpenAIQuality  string `env:"OPENAI_IMAGE_QUALITY"`
	OpenAIStyle    string `env:"OPENAI_IMAGE_STYLE"`
	ReplicateModel string `env:"REPLICATE_IMAGE_MODEL" envDefault:"stability-ai/sdxl"`

	PgURL string `env:"DATABASE_URL"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(os.Args[1:]); err != nil {
		slog.Error("imagegen did not complete", logger.Err(err))
		os.Exit(1)
	}
}

func runMain(args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	if args[0] == "history" {
		return runHistory(ctx, cfg, args[1:])
	}
	return runGenerate(ctx, cfg, args)
}

func runGenerate(ctx context.Context, cfg Config, args []string) error {
	prompt := args[0]

	outputPath := "image.png"
	if len(args) > 1 {
		outputPath = args[1]
	}

	providerCfg := &config.Config{
		OpenAI: config.OpenAIConfig{
			Model:   cfg.OpenAIModel,
			Size:    domain.ImageSize(cfg.OpenAISize),
			Quality: domain.ImageQuality(cfg.OpenAIQuality),
			Style:   domain.ImageStyle(cfg.OpenAIStyle),
		},
		Replicate: config.ReplicateConfig{
			Model: cfg.ReplicateModel,
		},
	}
	if err := providerCfg.Validate(); err != nil {
		return fmt.Errorf("validating provider config: %w", err)
	}

	creds := domain.Credentials{
		domain.OpenAIKeyCredential:      cfg.OpenAIAPIKey,
		domain.ReplicateTokenCredential: cfg.ReplicateAPIToken,
	}

	generator, ok := imagegen.New(cfg.Provider, creds, providerCfg)
	if !ok {
		return fmt.Errorf("no image provider configured for %q: unknown provider or missing credential (known providers: %s)",
			cfg.Provider, strings.Join(domain.KnownProviders, ", "))
	}

	path, err := generator.Generate(ctx, prompt, outputPath)
	if err != nil {
		return fmt.Errorf("generating image: %w", err)
	}
	slog.Info("Image generated", "provider", cfg.Provider, "path", path)

	if cfg.PgURL != "" {
		if err := saveGeneration(ctx, cfg, prompt, path); err != nil {
			slog.Warn("Failed to save generation history", logger.Err(err))
		}
	}

	return nil
}

func saveGeneration(ctx context.Context, cfg Config, prompt, path string) error {
	db, err := database.NewDB(cfg.PgURL)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	model := cfg.OpenAIModel
	if cfg.Provider == domain.ProviderReplicate {
		model = cfg.ReplicateModel
	}

	generation := &domain.Generation{
		Provider: cfg.Provider,
		Model:    model,
		Prompt:   prompt,
		Path:     path,
	}
	if err := repository.NewGenerationRepository(db).Save(ctx, generation); err != nil {
		return err
	}

	slog.Info("Generation saved", "id", generation.ID)
	return nil
}

func runHistory(ctx context.Context, cfg Config, args []string) error {
	if cfg.PgURL == "" {
		return errors.New("history requires DATABASE_URL to be set")
	}

	db, err := database.NewDB(cfg.PgURL)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	repo := repository.NewGenerationRepository(db)

	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid generation id %q: %w", args[0], err)
		}

		generation, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("generation %d not found", id)
			}
			return fmt.Errorf("fetching generation: %w", err)
		}

		logGeneration(*generation)
		return nil
	}

	generations, err := repo.ListRecent(ctx, defaultHistoryLimit)
	if err != nil {
		return fmt.Errorf("listing generations: %w", err)
	}

	if len(generations) == 0 {
		slog.Info("No generations recorded yet")
		return nil
	}
	for _, generation := range generations {
		logGeneration(generation)
	}
	return nil
}

func logGeneration(g domain.Generation) {
	slog.Info("Generation",
		"id", g.ID,
		"provider", g.Provider,
		"model", g.Model,
		"prompt", g.Prompt,
		"path", g.Path,
		"created_at", g.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}
