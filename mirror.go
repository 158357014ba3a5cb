package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeffnv/blockclock/internal/render/stream"
)

// startMirror serves the scene to browsers until stop is closed.
func startMirror(srv *stream.Server, addr string, stop chan struct{}) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			select {
			case <-stop:
				cancel()
			case <-ctx.Done():
			}
		}()

		return mirrorStoppedMsg{err: srv.Run(ctx, addr)}
	}
}
