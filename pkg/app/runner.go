package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Runner provides a high-level interface to run the host application
type Runner struct {
	app    *Application
	config AppConfig
	out    io.Writer
}

// NewRunner creates a new application runner
func NewRunner(cfg AppConfig) *Runner {
	return &Runner{
		config: cfg,
		out:    os.Stdout,
	}
}

// Run starts the application and blocks until it's stopped
func (r *Runner) Run() error {
	app, err := NewApplication(r.config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	r.app = app

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := app.Start(); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	select {
	case <-sigChan:
		fmt.Fprintln(r.out, "Received interrupt signal, shutting down...")
	case <-app.Done():
	}

	if err := app.Stop(); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}

	r.printSessionSummary()
	return nil
}

// printSessionSummary prints a summary of the session
func (r *Runner) printSessionSummary() {
	if r.app == nil {
		return
	}

	snap := r.app.Console().Snapshot()
	fmt.Fprintf(r.out, "\n=== Session Summary ===\n")
	fmt.Fprintf(r.out, "Commands in history: %d\n", len(snap.Commands))
	if r.config.Settings.General.CacheCommands && r.config.HistoryPath != "" {
		fmt.Fprintf(r.out, "History file: %s\n", r.config.HistoryPath)
	}
	fmt.Fprintf(r.out, "=======================\n")
}

// Stop stops the running application
func (r *Runner) Stop() error {
	if r.app != nil {
		return r.app.Stop()
	}
	return nil
}

// RunInteractive runs the application in interactive mode with a UI
func RunInteractive(cfg AppConfig) error {
	return NewRunner(cfg).Run()
}
