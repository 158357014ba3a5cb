package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeffnv/blockclock/internal/printer"
	"github.com/jeffnv/blockclock/internal/render/stream"
	"github.com/jeffnv/blockclock/internal/render/window"
	"github.com/jeffnv/blockclock/internal/scene"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the clock in a desktop window",
	Args:  cobra.NoArgs,
	RunE:  runWindow,
}

func init() {
	windowCmd.Flags().StringVar(&serveAddr, "serve", "", "also mirror the scene to browsers on this address")
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg, os.Stderr)
	if err != nil {
		return printer.Error("Could not open log file", err)
	}
	defer closeLog()

	ch := startChime(cfg, logger)
	if ch != nil {
		defer ch.Close()
	}

	g := scene.NewGraph()
	var mirror *stream.Server
	if serveAddr != "" {
		mirror = stream.NewServer(g, stream.Options{AllowRemote: cfg.Stream.AllowRemote, Logger: logger})
	}

	c := newClock(cfg, g, configStrategy(cfg), logger, func(t string) {
		if ch != nil {
			ch.OnTime(t)
		}
		if mirror != nil {
			mirror.Publish(t)
		}
	})
	defer c.Close()

	if mirror != nil {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := mirror.Run(ctx, serveAddr); err != nil {
				logger.Printf("mirror stopped: %v", err)
			}
		}()
		printer.Step("Mirroring on http://%s/\n", serveAddr)
		warnRemote(cfg, serveAddr)
	}

	game := &window.Game{
		Clock:  c,
		Graph:  g,
		Source: wallClock,
		Loc:    location(cfg),
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	}
	if err := window.Run(game, "blockclock"); err != nil {
		return printer.Error("Window failed", err, "Run 'blockclock' for the terminal clock instead")
	}
	return nil
}
