package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"sangobot/clients"
	"sangobot/core/log"
	"sangobot/services"
	"sangobot/usecases"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Verbose bool `long:"verbose" short:"v" description:"Enable debug logging"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.Verbose {
		log.SetLevel(slog.LevelDebug)
	} else {
		log.SetLevel(slog.LevelInfo)
	}

	logFilePath, err := setupProgramLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up program logging: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		fmt.Fprintf(os.Stderr, "\n📝 Logs for this session are stored in %s\n", logFilePath)
	}()

	log.Info("🚀 Booting up...")

	cfg, err := services.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	client := clients.NewMisskeyClient(cfg.Host, cfg.Token)
	selfID, err := client.GetSelfID()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error authorizing against %s: %v\n", cfg.Host, err)
		os.Exit(1)
	}
	log.Info("🔑 Authorized as %s.", selfID)

	nicknames := services.LoadNicknameStore(cfg.SavePath)
	bot := usecases.NewBot(client, clients.NewCloudflareSpeedTester(), selfID, cfg.AdminID, nicknames)
	dispatcher := services.NewDispatcher(dispatchWorkers)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	done := make(chan struct{})

	r := newRunner(cfg, bot, dispatcher, done)
	go r.run()

	<-interrupt
	log.Info("🔌 Interrupt received, shutting down...")
	close(done)
	dispatcher.StopWait()
}

func setupProgramLogging() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	logsDir := filepath.Join(homeDir, ".config", "sangobot", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	logFilePath := filepath.Join(logsDir, fmt.Sprintf("%s.log", timestamp))

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}

	// Always write to both stdout and file
	log.SetWriter(io.MultiWriter(os.Stdout, logFile))

	return logFilePath, nil
}
