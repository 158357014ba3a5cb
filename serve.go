package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/jeffnv/blockclock/internal/blockclock"
	"github.com/jeffnv/blockclock/internal/config"
	"github.com/jeffnv/blockclock/internal/printer"
	"github.com/jeffnv/blockclock/internal/record"
	"github.com/jeffnv/blockclock/internal/render/stream"
	"github.com/jeffnv/blockclock/internal/scene"
)

const syncInterval = time.Second

var (
	listenAddr string
	recordDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the clock to browsers over a websocket",
	Long: `Serve a three.js viewer on / and stream the cube scene to it on /ws.

Only loopback clients are accepted unless stream.allow_remote is set in the
config file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from config, 127.0.0.1:8787)")
	serveCmd.Flags().StringVar(&recordDir, "record", "", "write every frame to zstd-compressed JSONL files in this directory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Stream.Listen = listenAddr
	}
	if recordDir != "" {
		cfg.Stream.RecordDir = recordDir
	}

	logger, closeLog, err := openLogger(cfg, os.Stderr)
	if err != nil {
		return printer.Error("Could not open log file", err)
	}
	defer closeLog()

	ln, err := net.Listen("tcp", cfg.Stream.Listen)
	if err != nil {
		return printer.Error("Could not listen on "+cfg.Stream.Listen, err, "Pick another address with --listen")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, ln, wallClock, logger)
}

// serve drives a clock from source and streams it to viewers on ln until ctx
// is done.
func serve(ctx context.Context, cfg *config.Config, ln net.Listener, source clockwork.Clock, logger *log.Logger) error {
	opts := stream.Options{AllowRemote: cfg.Stream.AllowRemote, Logger: logger}
	if cfg.Stream.RecordDir != "" {
		if err := os.MkdirAll(cfg.Stream.RecordDir, 0o755); err != nil {
			return printer.Error("Could not create record directory", err)
		}
		rec := record.NewWriter(cfg.Stream.RecordDir, "frames", source)
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Printf("close recording: %v", err)
			}
		}()
		opts.Recorder = rec
	}

	ch := startChime(cfg, logger)
	if ch != nil {
		defer ch.Close()
	}

	g := scene.NewGraph()
	srv := stream.NewServer(g, opts)
	c := newClock(cfg, g, configStrategy(cfg), logger, func(t string) {
		if ch != nil {
			ch.OnTime(t)
		}
		srv.Publish(t)
	})
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticking := make(chan error, 1)
	go func() {
		ticking <- blockclock.Start(ctx, source, c, syncInterval, location(cfg))
	}()

	printer.Step("Serving blockclock on http://%s/\n", ln.Addr())
	warnRemote(cfg, ln.Addr().String())
	if cfg.Stream.RecordDir != "" {
		printer.Info("Recording frames to %s\n", cfg.Stream.RecordDir)
	}

	err := srv.Serve(ctx, ln)
	cancel()
	<-ticking
	if err != nil {
		return printer.Error("Server failed", err)
	}

	printer.Success("Stopped\n")
	return nil
}
