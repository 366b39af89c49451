package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/matt-the-ogre/mcp-server-weather/internal/api/http"
	mcpapi "github.com/matt-the-ogre/mcp-server-weather/internal/api/mcp"
	"github.com/matt-the-ogre/mcp-server-weather/internal/config"
	"github.com/matt-the-ogre/mcp-server-weather/internal/metrics"
	"github.com/matt-the-ogre/mcp-server-weather/internal/probe"
	"github.com/matt-the-ogre/mcp-server-weather/internal/weather"
	"github.com/matt-the-ogre/mcp-server-weather/internal/weather/openmeteo"
)

const (
	serviceName = "mcp-server-weather"
	version     = "1.0.0"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	collector := metrics.NewCollector("weather", prometheus.DefaultRegisterer)

	// Shared HTTP client for outbound Open-Meteo calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := openmeteo.NewClient(httpClient, openmeteo.Config{
		APIBase:        cfg.APIBase,
		ArchiveAPIBase: cfg.ArchiveAPIBase,
		UserAgent:      cfg.UserAgent,
	}, collector)

	// Core service shared by both transports.
	service := weather.NewService(client, collector)
	mcpServer := mcpapi.NewServer(service, version)

	switch cfg.Transport {
	case config.TransportStdio:
		runStdio(mcpServer)
	case config.TransportHTTP:
		runHTTP(cfg, service, mcpServer, client)
	}
}

// runStdio serves MCP over stdin/stdout. Logs go to stderr so they do not
// corrupt the protocol stream.
func runStdio(mcpServer *mcp.Server) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server stopped: %v", err)
	}
}

// runHTTP serves the REST API, the MCP streamable handler, metrics, and
// health on a single port.
func runHTTP(cfg *config.AppConfig, service *weather.Service, mcpServer *mcp.Server, client *openmeteo.Client) {
	// Periodic upstream reachability probe feeding /health.
	prb := probe.New(client, cfg.ProbeInterval)
	if err := prb.Start(); err != nil {
		log.Fatalf("failed to start upstream probe: %v", err)
	}
	defer prb.Stop()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response for anything the routes did
			// not already render.
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Informational root endpoint.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": serviceName,
			"version": version,
			"endpoints": []string{
				"/api/v1/weather/current",
				"/api/v1/weather/forecast",
				"/api/v1/weather/historical",
				"/mcp",
				"/health",
				"/metrics",
			},
		})
	})

	// Health endpoint with last upstream probe result.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  serviceName,
			"upstream": prb.Status(),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// MCP over streamable HTTP, sharing the port with the REST API.
	mcpHandler := mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return mcpServer },
		&mcp.StreamableHTTPOptions{Stateless: true},
	)
	app.All("/mcp", adaptor.HTTPHandler(mcpHandler))

	// REST routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
