package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/pejotu/archicad-georef/internal/adapters/archicad"
	"github.com/pejotu/archicad-georef/internal/adapters/epsgdb"
	"github.com/pejotu/archicad-georef/internal/adapters/epsgio"
	"github.com/pejotu/archicad-georef/internal/adapters/http"
	"github.com/pejotu/archicad-georef/internal/adapters/memcache"
	"github.com/pejotu/archicad-georef/internal/core/ports"
	"github.com/pejotu/archicad-georef/internal/core/usecases"
	"github.com/pejotu/archicad-georef/internal/pkg/config"
	"github.com/pejotu/archicad-georef/internal/pkg/geodesy"
	"github.com/pejotu/archicad-georef/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ArchiCAD addon gateway. The server starts even when ArchiCAD is not
	// running yet; readiness reports the connection state.
	gateway := archicad.New(cfg.ArchiCAD.Address(), time.Duration(cfg.ArchiCAD.Timeout)*time.Second)
	if err := gateway.Check(ctx); err != nil {
		slog.Warn("archicad not reachable at startup", "error", err)
	}

	// CRS metadata sources, local registry first.
	sources := []ports.CRSSource{
		epsgdb.New(),
		epsgio.New(cfg.EPSGIO.BaseURL, time.Duration(cfg.EPSGIO.Timeout)*time.Second),
	}

	cache := memcache.New()

	// Use cases
	georefSvc := usecases.NewGeorefService(gateway)
	resolveSvc := usecases.NewResolveService(sources, cache)
	resolveSvc.SetCacheTTL(cfg.Cache.TTL)
	transformer := geodesy.Transformer{}
	pipelineSvc := usecases.NewPipelineService(georefSvc, resolveSvc, transformer)

	deps := &http.Dependencies{
		Georef:      georefSvc,
		Resolver:    resolveSvc,
		Pipeline:    pipelineSvc,
		Transformer: transformer,
		Archicad:    gateway,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "georefd",
	})
	app.Use(recover.New())

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("georefd starting", "addr", addr, "archicad", cfg.ArchiCAD.Address())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
