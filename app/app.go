package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kairoslabs/headparse/config"
	"github.com/kairoslabs/headparse/core"
)

// App wires a config.Config to a core.Engine and owns the process's
// signal handling.
type App struct {
	cfg    *config.Config
	engine *core.Engine
}

// New creates an application instance with a freshly constructed engine.
func New(cfg *config.Config) *App {
	engine := core.NewEngine()

	return &App{
		cfg:    cfg,
		engine: engine,
	}
}

// Engine returns the underlying engine for route registration.
func (a *App) Engine() *core.Engine {
	return a.engine
}

// NewWithEngine creates an application instance around a
// pre-configured engine, for callers that need to tune it beyond what
// New's defaults give them.
func NewWithEngine(cfg *config.Config, engine *core.Engine) *App {
	return &App{
		cfg:    cfg,
		engine: engine,
	}
}

// Run starts the application
func (a *App) Run() {
	go a.awaitSignal()

	addr := fmt.Sprintf(":%d", a.cfg.Port)
	log.Printf("engine: starting on port %d [%s]", a.cfg.Port, a.cfg.Env)

	if err := a.engine.Run(addr); err != nil {
		log.Fatalf("engine: startup failed: %v", err)
	}
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("signal received: %v, shutting down", sig)

	a.engine.Shutdown()
	os.Exit(0)
}
