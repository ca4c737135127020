package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outreachhq/outreach/internal/services"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/config"
	"github.com/outreachhq/outreach/internal/migrations"
)

// Server is the outreach HTTP server
type Server struct {
	srv      *fasthttp.Server
	addr     string
	services *services.Services
}

// New builds the server, running pending migrations first
func New() *Server {
	conf := config.ReadConfig()

	m, err := migrations.NewMigrator()
	if err != nil {
		panic("unable to create migrator")
	}

	err = m.Up(0)
	if err != nil {
		panic("unable to run migrations")
	}

	s := &Server{
		srv:      &fasthttp.Server{},
		addr:     fmt.Sprintf("0.0.0.0:%s", conf.PORT),
		services: services.NewServices(conf),
	}

	s.srv.Handler = s.initRoutes()

	return s
}

// Interval between expired session token sweeps
const tokenSweepInterval = time.Hour

// Start the rest server
func (s *Server) Start() {
	slog.Info("Starting REST server...")
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("REST server started!")

	stopSweep := make(chan struct{})
	go s.sweepSessionTokens(stopSweep)

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")
	close(stopSweep)

	// Create a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

// sweepSessionTokens periodically deletes naturally expired ledger
// rows. Runs once at startup, then on every tick until stop closes.
func (s *Server) sweepSessionTokens(stop <-chan struct{}) {
	s.services.Auth.SweepExpiredTokens(context.Background())

	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.services.Auth.SweepExpiredTokens(context.Background())
		case <-stop:
			return
		}
	}
}

// Shutdown shuts down the rest server
func (s *Server) shutdown(ctx context.Context) {
	slog.Info("Gracefully shutting down REST server...")
	if err := s.srv.Shutdown(); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	slog.Info("REST server shutdown!")
}
