package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/briand787b/pimasst/internal/asset"
	"github.com/briand787b/pimasst/internal/catalog"
	"github.com/briand787b/pimasst/internal/config"
	"github.com/briand787b/pimasst/internal/importer"
	"github.com/briand787b/pimasst/internal/logging"
	"github.com/briand787b/pimasst/internal/pim"
)

const (
	exitOK          = 0
	exitConfigError = 2
)

var inputPath = flag.String("input", "", "path of the product image export (overrides INPUT_CSV_PATH)")

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	// a missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		reportConfigError(err)
		return exitConfigError
	}
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Printf("could not create logger: %s\n", err)
		return exitConfigError
	}
	defer logger.Sync()

	logger.Debug("configuration loaded", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	downloader := asset.NewDownloader(&asset.HTTPSource{Client: &http.Client{}}, cfg.Download.Timeout, cfg.Download.Retries, logger)
	if cfg.Download.S3Enabled {
		s3Client, err := newS3Client(ctx, cfg.Download.S3Endpoint)
		if err != nil {
			fmt.Printf("could not configure S3 image source: %s\n", err)
			return exitConfigError
		}
		downloader.Register("s3", &asset.S3Source{Client: s3Client})
	}

	products, err := catalog.Load(cfg.Input.Path)
	if err != nil {
		logger.Error("input not loaded", zap.String("path", cfg.Input.Path), zap.Error(err))
		fmt.Printf("Failed to load input file %s: %s\n", cfg.Input.Path, errors.Unwrap(err))
		return exitConfigError
	}
	logger.Info("input loaded", zap.String("path", cfg.Input.Path), zap.Int("products", len(products)))

	client := pim.NewClient(ctx, pim.Options{
		BaseURL:           cfg.PIM.BaseURL,
		ClientID:          cfg.PIM.ClientID,
		ClientSecret:      cfg.PIM.ClientSecret,
		Username:          cfg.PIM.Username,
		Password:          cfg.PIM.Password,
		Timeout:           cfg.PIM.RequestTimeout,
		RequestsPerSecond: cfg.PIM.RequestsPerSecond,
		Catalog: pim.Catalog{
			AssetFamily:    cfg.Catalog.AssetFamily,
			MainAttribute:  cfg.Catalog.MainAttribute,
			OtherAttribute: cfg.Catalog.OtherAttribute,
			LabelLocale:    cfg.Catalog.LabelLocale,
		},
	})

	imp := importer.New(
		asset.NewResolver(client, downloader, logger, os.Stdout),
		asset.NewLinker(client, logger, os.Stdout),
		logger,
		os.Stdout,
	)

	stats := imp.Run(ctx, products)
	stats.WriteSummary(os.Stdout)

	return exitOK
}

// reportConfigError prints each joined configuration error on its own line.
func reportConfigError(err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	for _, e := range errs {
		var missing *config.MissingError
		if errors.As(e, &missing) {
			fmt.Printf("Missing required env vars: %s\n", strings.Join(missing.Names, ", "))
			continue
		}
		fmt.Printf("invalid configuration: %s\n", e)
	}
}

func newS3Client(ctx context.Context, endpoint string) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
