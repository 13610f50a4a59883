package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pvefleet/pkg/server"
)

type App struct {
	name    string
	servers []server.Server
}

type Option func(a *App)

func NewApp(opts ...Option) *App {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithServer(servers ...server.Server) Option {
	return func(a *App) {
		a.servers = servers
	}
}

func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

func (a *App) Run(ctx context.Context) error {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	// Start all servers
	for _, srv := range a.servers {
		go func(srv server.Server) {
			err := srv.Start(ctx)
			if err != nil {
				panic(err)
			}
		}(srv)
	}

	// Wait for a signal or context cancellation
	select {
	case <-signals:
		// Received an interrupt signal, shut down
		signal.Stop(signals)
	case <-ctx.Done():
	}

	// Gracefully stop the servers with a timeout
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	for _, srv := range a.servers {
		err := srv.Stop(stopCtx)
		if err != nil {
			return err
		}
	}

	return nil
}
