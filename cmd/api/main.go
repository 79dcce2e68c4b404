package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/config"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/handlers"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/feature"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/featurename"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/geometry"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/report"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/source"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/whakapapa"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	appmiddleware "github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/middleware"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing/exporters"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, zapLogger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	shutdownTracing, err := setupTracing(ctx, cfg)
	if err != nil {
		logger.WithError(err).Error("failed to set up tracing")
	}
	defer shutdownTracing()

	db, err := database.Connect(ctx, database.ConnectionConfig{
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		UserName:        cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		DatabaseName:    cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	e := newServer(cfg, db, logger)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.WithFields(map[string]any{"addr": addr, "app": cfg.AppName}).Info("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to shut down server cleanly")
	}
}

func newLogger(cfg *config.Config) (ectologger.Logger, *zap.Logger, error) {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs || cfg.Debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil), zapLogger, nil
}

func setupTracing(ctx context.Context, cfg *config.Config) (func(), error) {
	if !cfg.TracingEnabled {
		return func() {}, nil
	}

	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingOTLPEndpoint,
		Protocol: cfg.TracingOTLPProtocol,
		Insecure: true,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return func() {}, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}, nil
}

func newServer(cfg *config.Config, db database.DB, logger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.HTTPErrorHandler = appmiddleware.Error(logger)
	e.Use(echomiddleware.Recover())
	e.Use(appmiddleware.Context())
	e.Use(appmiddleware.Logger(logger))
	e.Use(otelecho.Middleware(cfg.AppName))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	featureNameRepo := featurename.NewRepository(db, logger)
	sourceRepo := source.NewRepository(db, logger)
	geometryRepo := geometry.NewRepository(db, logger)
	whakapapaRepo := whakapapa.NewRepository(db, logger)
	featureRepo := feature.NewRepository(db, logger)
	reportRepo := report.NewRepository(db, logger)

	handlers.NewHealthChecker(db).RegisterRoutes(e)
	handlers.NewSearchHandler(featureNameRepo, cfg.SearchMinLength, logger).RegisterRoutes(e)
	handlers.NewMetadataHandler(sourceRepo, logger).RegisterRoutes(e)
	handlers.NewGeometryHandler(geometryRepo, logger).RegisterRoutes(e)
	handlers.NewWhakapapaHandler(whakapapaRepo, logger).RegisterRoutes(e)
	handlers.NewFeatureHandler(featureRepo, logger).RegisterRoutes(e)
	handlers.NewQueryHandler(reportRepo, logger).RegisterRoutes(e)

	return e
}
