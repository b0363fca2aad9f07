package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"messenger/app"
	"messenger/internal"
	"messenger/navigation"
	"messenger/runtime"
	"messenger/runtime/workers"
	"messenger/store"
	"messenger/ui"

	tea "github.com/charmbracelet/bubbletea"
)

const backlogThreshold = 0.8

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the client and blocks until the terminal UI exits.
// Deferred cleanup runs before main decides on the exit code.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	log, err := fileLogger(logFile, config.LogLevel)
	if err != nil {
		return err
	}

	// 2. Routes
	tree, err := loadRoutes(config.RoutesFile)
	if err != nil {
		return err
	}

	// 3. Data layer (in-memory Badger, loopback transport)
	db, err := store.Open(log, config.FeedBufferSize)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Closing store...")
		_ = db.Close()
	}()
	self := config.Self()
	people, err := seed(db, self)
	if err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 5. UI thread and views
	applier := ui.NewApplier()
	defer applier.Close()
	outbox := workers.NewOutboxWorker(log, store.NewLoopback(db, self.ID), applier, config.OutboxSize, config.SendTimeout)
	shell, err := app.NewShell(ctx, log, tree, db, outbox, self, people)
	if err != nil {
		return fmt.Errorf("building shell: %w", err)
	}
	model := ui.New(shell, applier)
	outbox.OnFailure(model.Fail)

	// 6. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewBacklogWorker(log, config.BacklogInterval, backlogThreshold, outbox.Queue()))
	orchestrator := runtime.NewOrchestrator(log, sup, db, outbox, applier, self.ID, shell.Deliver)
	shell.WatchRooms(orchestrator)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := orchestrator.Start(ctx); err != nil {
			log.Error("Orchestrator failed", "error", err)
		}
	}()

	// 7. Run the terminal UI until quit or signal
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	// 8. Final Cleanup
	cancel()
	orchestrator.Stop()
	applier.Close()
	<-done
	log.Info("Program stopped cleanly")

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI: %w", runErr)
	}
	return nil
}

func fileLogger(file *os.File, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: l})), nil
}

func loadRoutes(path string) (*navigation.Tree, error) {
	if path == "" {
		return navigation.DefaultRoutes(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening routes: %w", err)
	}
	defer func() { _ = f.Close() }()
	return navigation.LoadRoutes(f)
}
