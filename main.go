package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/jeffnv/blockclock/internal/blockclock"
	"github.com/jeffnv/blockclock/internal/chime"
	"github.com/jeffnv/blockclock/internal/config"
	"github.com/jeffnv/blockclock/internal/printer"
	"github.com/jeffnv/blockclock/internal/scene"
)

var version = "dev"

// wallClock is the time source for every host; tests swap in a fake.
var wallClock clockwork.Clock = clockwork.NewRealClock()

// flags shared by every command; set values override the config file.
var (
	configPath   string
	strategyFlag string
	colorFlag    string
	utcFlag      bool
	serveAddr    string
	footerFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "blockclock",
	Short: "A digital clock drawn with cubes",
	Long: `blockclock draws HH:MM:SS as a grid of cubes, one cube per cell of a
5-row dot-matrix pattern. Every second the unlit cubes are either pushed out
of view (--strategy position) or repainted with the background color
(--strategy color).

Without a subcommand the clock runs in the terminal.`,
	Version:       version,
	Args:          cobra.NoArgs,
	RunE:          runTerminal,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clock in the terminal (the default)",
	Args:  cobra.NoArgs,
	RunE:  runTerminal,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blockclock %s\n", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ./"+config.DefaultPath+" when present)")
	pf.StringVar(&strategyFlag, "strategy", "", "hide unlit cubes by 'position' or 'color'")
	pf.StringVar(&colorFlag, "color", "", "cube color as #rrggbb or integer")
	pf.BoolVar(&utcFlag, "utc", false, "show UTC instead of local time")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().StringVar(&serveAddr, "serve", "", "also mirror the scene to browsers on this address")
		cmd.Flags().StringVar(&footerFlag, "footer", "", "footer below the clock: none, bar or binary")
	}
	rootCmd.AddCommand(runCmd, versionCmd)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return printer.Error("Invalid arguments", err, "Run '"+cmd.CommandPath()+" --help' for usage")
	})
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, printer.Error("Could not load configuration", err,
			"Fix the file named by --config", "Remove it to run with defaults")
	}

	if strategyFlag != "" {
		if _, err := blockclock.ParseStrategy(strategyFlag); err != nil {
			return nil, printer.Error("Invalid --strategy", err)
		}
		cfg.Clock.Strategy = strategyFlag
	}
	if colorFlag != "" {
		v, err := config.ParseColor(colorFlag)
		if err != nil {
			return nil, printer.Error("Invalid --color", err)
		}
		cfg.Clock.Color = config.Color{Value: v, Set: true}
	}
	if utcFlag {
		cfg.Clock.UTC = true
	}
	return cfg, nil
}

func location(cfg *config.Config) *time.Location {
	if cfg.Clock.UTC {
		return time.UTC
	}
	return time.Local
}

// newClock builds a clock on g from the config. The config has already been
// validated, so the strategy parses.
func newClock(cfg *config.Config, g *scene.Graph, strategy blockclock.Strategy, logger *log.Logger, onChange func(string)) *blockclock.Clock {
	c := blockclock.New(g, blockclock.Options{
		Strategy:     strategy,
		BlockSize:    cfg.Clock.BlockSize,
		Padding:      *cfg.Clock.Padding,
		Scale:        cfg.Clock.Scale,
		HiddenOffset: cfg.Clock.HiddenOffset,
		Strict:       cfg.Clock.Strict,
		Logger:       logger,
		OnChange:     onChange,
	})
	c.SetColor(cfg.Clock.Color.Value)
	c.SetOffColor(cfg.Clock.OffColor.Value)
	return c
}

func configStrategy(cfg *config.Config) blockclock.Strategy {
	s, _ := blockclock.ParseStrategy(cfg.Clock.Strategy)
	return s
}

// openLogger returns a logger writing to cfg.LogFile, or to stderr for
// commands that do not own the terminal.
func openLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return log.New(fallback, "blockclock: ", log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "blockclock: ", log.LstdFlags), func() { _ = f.Close() }, nil
}

// startChime opens the audio device when the chime is enabled. A missing
// device only disables the chime.
func startChime(cfg *config.Config, logger *log.Logger) *chime.Chime {
	if !cfg.Chime.Enabled {
		return nil
	}
	ch := chime.New(*cfg.Chime.Volume, logger)
	if err := ch.Init(); err != nil {
		logger.Printf("Audio initialization failed: %v", err)
		printer.Warning("chime disabled: %v\n", err)
		return nil
	}
	return ch
}

// warnRemote flags a mirror that is reachable from other machines.
func warnRemote(cfg *config.Config, addr string) {
	if cfg.Stream.AllowRemote {
		printer.Warning("accepting viewers from any address on %s\n", addr)
	}
}

func runTerminal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	switch footerFlag {
	case "":
	case "none", "bar", "binary":
		cfg.Terminal.Footer = footerFlag
	default:
		return printer.Error("Invalid --footer", fmt.Errorf("unknown footer %q", footerFlag), "Use none, bar or binary")
	}

	// The alt screen owns stdout, so logs go to the configured file or
	// nowhere.
	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "blockclock")
		if err != nil {
			return printer.Error("Could not open log file", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	ch := startChime(cfg, logger)
	if ch != nil {
		defer ch.Close()
	}

	if serveAddr != "" {
		warnRemote(cfg, serveAddr)
	}

	m := newModel(cfg, wallClock, logger, ch, serveAddr)
	p := tea.NewProgram(m, tea.WithAltScreen())

	go listenSIGUSR1(p)

	finalModel, err := p.Run()
	if err != nil {
		return printer.Error("Terminal clock failed", err)
	}

	if fm, ok := finalModel.(model); ok && fm.mirrorErr != nil {
		return printer.Error("Browser mirror failed", fm.mirrorErr, "Pick another --serve address")
	}
	return nil
}

func listenSIGUSR1(p *tea.Program) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)
	for range sig {
		p.Send(togglePauseMsg{})
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
