// Command seed upserts companies into the careers database, either from a
// YAML/JSON file or from the built-in sample data.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/careers/internal/careers/config"
	"github.com/gartstein/careers/internal/careers/controller"
	"github.com/gartstein/careers/internal/careers/db"
	"github.com/gartstein/careers/internal/careers/events"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/careers/seed"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedFlags struct {
	file       string
	sample     bool
	envFile    string
	configPath string
	publish    bool
}

func main() {
	var flags seedFlags
	root := &cobra.Command{
		Use:   "seed",
		Short: "Insert or update companies in the careers database",
		Long: "Seed upserts companies by slug. Existing companies are updated in place, " +
			"so the command can be run repeatedly.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), flags)
		},
	}

	f := root.Flags()
	f.StringVar(&flags.file, "file", "", "YAML or JSON file with a list of companies")
	f.BoolVar(&flags.sample, "sample", false, "Seed the built-in sample companies")
	f.StringVar(&flags.envFile, "env-file", ".env.local", "Environment file loaded before the config")
	f.StringVar(&flags.configPath, "config", config.DefaultPath, "Config file path")
	f.BoolVar(&flags.publish, "publish", false, "Publish company events to Kafka for running instances")
	root.MarkFlagsMutuallyExclusive("file", "sample")
	root.MarkFlagsOneRequired("file", "sample")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runSeed(ctx context.Context, flags seedFlags) error {
	if err := godotenv.Load(flags.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", flags.envFile, err)
	}

	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	companies, err := loadCompanies(flags)
	if err != nil {
		return err
	}

	repo, err := db.Connect(ctx, cfg.Database(), logger, db.DefaultConnectTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	var producer interface {
		controller.EventProducer
		Close()
	} = events.Discard{}
	if brokers := cfg.KafkaBrokersList(); flags.publish && len(brokers) > 0 {
		p, err := events.NewProducer(brokers, logger, cfg.Topic)
		if err != nil {
			return fmt.Errorf("failed to initialize Kafka producer: %w", err)
		}
		producer = p
	}
	defer producer.Close()

	svc := controller.NewCompanyService(repo, producer, logger)
	result := svc.SeedCompanies(ctx, companies)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d of %d companies failed", len(result.Errors), len(companies))
	}
	return nil
}

func loadCompanies(flags seedFlags) ([]*models.Company, error) {
	if flags.sample {
		return seed.SampleCompanies(), nil
	}
	companies, err := seed.LoadFile(flags.file)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("%s contains no companies", flags.file)
	}
	return companies, nil
}
