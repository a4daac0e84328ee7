// seed-taxonomy loads a YAML file of market mappings into the taxonomy
// table, replacing whatever is there. Entry order in the file is the match
// precedence order. With -aliases it also loads a competitor alias map.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linesmith/linesmith/internal/pkg/config"
	"github.com/linesmith/linesmith/internal/pkg/storage"
	"github.com/linesmith/linesmith/internal/pkg/taxonomy"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/production.yaml", "Path to config file")
	mappingsPath := flag.String("file", "configs/taxonomy.yaml", "Path to YAML mappings file")
	aliasesPath := flag.String("aliases", "", "Optional YAML file of competitor aliases (alias: canonical)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := os.ReadFile(*mappingsPath)
	if err != nil {
		return fmt.Errorf("failed to read mappings file: %w", err)
	}

	var entries []taxonomy.Mapping
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse mappings file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no mappings in %s", *mappingsPath)
	}

	store, err := storage.NewPostgresEventStore(&cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if err := store.SeedTable(context.Background(), entries); err != nil {
		return fmt.Errorf("failed to seed taxonomy: %w", err)
	}

	slog.Info("Taxonomy seeded", "entries", len(entries), "file", *mappingsPath)

	if *aliasesPath != "" {
		if err := seedAliases(store, *aliasesPath); err != nil {
			return err
		}
	}
	return nil
}

func seedAliases(store *storage.PostgresEventStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read aliases file: %w", err)
	}

	var aliases map[string]string
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return fmt.Errorf("failed to parse aliases file: %w", err)
	}

	for alias, canonical := range aliases {
		if err := store.SaveAlias(context.Background(), alias, canonical); err != nil {
			return fmt.Errorf("failed to save alias %q: %w", alias, err)
		}
	}

	slog.Info("Aliases seeded", "entries", len(aliases), "file", path)
	return nil
}
