package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/meetscribe/meeting-notes/internal/api"
	"github.com/meetscribe/meeting-notes/internal/config"
	"github.com/meetscribe/meeting-notes/internal/logger"
	"github.com/meetscribe/meeting-notes/internal/notesgen"
	"github.com/meetscribe/meeting-notes/internal/pipeline"
	"github.com/meetscribe/meeting-notes/internal/store"
	"github.com/meetscribe/meeting-notes/internal/transcribe"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "meeting-notes").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	awsConfig, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.WithError(err).Fatal("failed to load AWS configuration")
	}

	var artifacts store.Store
	switch cfg.StorageBackend {
	case "local":
		local, err := store.NewLocalStore(cfg.DataDir)
		if err != nil {
			log.WithError(err).Fatal("failed to open local store")
		}
		artifacts = local
		log.WithField("data_dir", cfg.DataDir).Info("using local artifact store")
	default:
		artifacts = store.NewS3Store(s3.NewFromConfig(awsConfig), cfg.Bucket)
		log.WithField("bucket", cfg.Bucket).Info("using s3 artifact store")
	}

	jobs := transcribe.NewAWSClient(
		awstranscribe.NewFromConfig(awsConfig),
		cfg.Bucket,
		cfg.LanguageCode,
		cfg.MaxSpeakers,
	)
	gen := notesgen.NewBedrockGenerator(bedrockruntime.NewFromConfig(awsConfig), cfg.ModelID)

	coord := pipeline.New(artifacts, jobs, gen, log, pipeline.Options{
		PollInterval:   cfg.PollInterval,
		PollMaxWait:    cfg.PollMaxWait,
		PollMaxElapsed: cfg.PollMaxElapsed,
	})
	defer coord.Close()

	if err := coord.Init(ctx); err != nil {
		log.WithError(err).Warn("failed to warm video catalog")
	}

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e, log)
	api.RegisterRoutes(e, api.NewHandler(coord, log))

	go func() {
		log.WithField("addr", cfg.Addr).Info("listening")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
