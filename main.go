package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/config"
)

func main() {
	modePtr := flag.String("mode", "once", "Run mode: once or scheduled")
	flag.Parse()

	// A .env file is optional; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	log.Println("Starting airline warehouse ETL in mode:", *modePtr)

	switch *modePtr {
	case "once":
		os.Exit(runOnce(cfg))
	case "scheduled":
		os.Exit(runScheduled(cfg))
	default:
		log.Println("Unknown run mode:", *modePtr)
		log.Println("Available modes: once, scheduled")
		os.Exit(1)
	}
}

// runOnce executes a single pipeline run and returns the exit code mapping
// its outcome: 0 success, 2 partial success, 1 failure.
func runOnce(cfg *config.Config) int {
	runner, err := NewRunner(cfg)
	if err != nil {
		log.Printf("Could not create ETL runner: %v", err)
		return 1
	}
	defer runner.Close()

	ctx, cancel := signalContext()
	defer cancel()

	summary := runner.Execute(ctx)
	return summary.ExitCode()
}

// runScheduled runs the pipeline on the configured interval until a stop
// signal arrives, then returns the process exit code. The job registers in
// singleton mode: a run still executing when the next tick fires suppresses
// that tick instead of racing it on the staging tables. Errors return
// instead of exiting so the runner's connections and log file still close.
func runScheduled(cfg *config.Config) int {
	runner, err := NewRunner(cfg)
	if err != nil {
		log.Printf("Could not create ETL runner: %v", err)
		return 1
	}
	defer runner.Close()

	ctx, cancel := signalContext()
	defer cancel()

	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(cfg.RunInterval).SingletonMode().Do(func() {
		runner.Execute(ctx)
	})
	if err != nil {
		log.Printf("Could not schedule ETL job: %v", err)
		return 1
	}

	log.Printf("Scheduler started with interval %v", cfg.RunInterval)
	scheduler.StartAsync()

	<-ctx.Done()
	scheduler.Stop()
	log.Println("Scheduler stopped")
	return 0
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Shutdown signal received, stopping after the current stage")
		cancel()
	}()

	return ctx, cancel
}
