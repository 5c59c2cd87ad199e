package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"tool-rental/internal/handler/middleware"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// Applies the versioned migrations under -dir with the atlas CLI.
// migrations/atlas.sum must be regenerated with `atlas migrate hash` after editing a file.
func main() {
	dir := flag.String("dir", "migrations", "migration directory")
	dryRun := flag.Bool("dry-run", false, "print pending migrations without applying them")
	bin := flag.String("atlas", "atlas", "path to the atlas binary")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrate(ctx, logger, *bin, *dir, cfg.DB.BuildDSN(), *dryRun); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func migrate(ctx context.Context, logger *slog.Logger, bin, dir, url string, dryRun bool) error {
	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
	if err != nil {
		return errs.Wrap(err, "failed to prepare migration directory")
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), bin)
	if err != nil {
		return errs.Wrap(err, "failed to create atlas client")
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    url,
		DryRun: dryRun,
	})
	if err != nil {
		return errs.Wrap(err, "failed to apply migrations")
	}

	for _, f := range res.Applied {
		logger.Info("migration applied", "version", f.Version, "name", f.Name)
	}
	logger.Info("migrations complete", "current", res.Current, "target", res.Target, "applied", len(res.Applied), "dry_run", dryRun)
	return nil
}
