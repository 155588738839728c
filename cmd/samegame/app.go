package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/samegame/game/config"
	"github.com/wricardo/mcp-training/samegame/game/engine"
	"github.com/wricardo/mcp-training/samegame/game/service"
	"github.com/wricardo/mcp-training/samegame/game/session"
	"github.com/wricardo/mcp-training/samegame/internal/ctxlog"
	"github.com/wricardo/mcp-training/samegame/internal/render"
	"github.com/wricardo/mcp-training/samegame/transport/mcp"
	"github.com/wricardo/mcp-training/samegame/validate"
)

// Housekeeping for the MCP server
const (
	cleanupInterval = 1 * time.Hour
	sessionMaxAge   = 24 * time.Hour
)

// app holds the process streams and the logger configured in Before
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      AppName,
		Usage:     "Same Game board engine: play in the terminal or serve over MCP",
		Version:   Version,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing board presets (.json or .hcl)",
				Sources: cli.EnvVars("SAMEGAME_CONFIG_DIR", "CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level: debug, info, warn, error",
				Sources: cli.EnvVars("SAMEGAME_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "log format: text or json",
				Sources: cli.EnvVars("SAMEGAME_LOG_FORMAT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Logs go to stderr; stdout belongs to the game or the MCP protocol
			a.logger = ctxlog.New(cmd.String("log-level"), cmd.String("log-format"), a.stderr)
			slog.SetDefault(a.logger)
			return ctxlog.WithLogger(ctx, a.logger), nil
		},
		Commands: []*cli.Command{
			a.playCommand(),
			a.mcpCommand(),
			a.presetsCommand(),
			a.validateCommand(),
		},
	}
}

func (a *app) playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play an interactive game in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "preset",
				Usage:   "preset to start from (default: the directory default)",
				Sources: cli.EnvVars("SAMEGAME_PRESET"),
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: fmt.Sprintf("board width override (%d-%d)", engine.MinWidth, engine.MaxWidth),
			},
			&cli.IntFlag{
				Name:  "colors",
				Usage: fmt.Sprintf("number of colors override (%d-%d)", engine.MinColors, engine.MaxColors),
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "random seed for a reproducible game (0 uses the clock)",
			},
			&cli.BoolFlag{
				Name:    "plain",
				Usage:   "disable terminal colors",
				Sources: cli.EnvVars("SAMEGAME_PLAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			gameConfig, err := playConfig(configs, cmd.String("preset"),
				int(cmd.Int("width")), int(cmd.Int("colors")), uint64(cmd.Int("seed")))
			if err != nil {
				return err
			}

			e, err := engine.NewEngine(gameConfig, nil)
			if err != nil {
				return err
			}

			a.logger.Debug("starting game", "preset", gameConfig.Name, "width", gameConfig.Width, "colors", gameConfig.Colors)
			return playLoop(a.stdin, a.stdout, e, render.NewRenderer(a.stdout, cmd.Bool("plain")))
		},
	}
}

// playConfig resolves the preset and applies command line overrides
func playConfig(configs *config.Manager, preset string, width, colors int, seed uint64) (*engine.GameConfig, error) {
	base := configs.GetDefault()
	if preset != "" {
		loaded, err := configs.LoadConfig(preset)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", preset, err)
		}
		base = loaded
	}

	// Copy so the cached preset is never mutated
	gameConfig := *base
	if width != 0 && width != gameConfig.Width {
		gameConfig.Width = width
		gameConfig.Layout = nil
	}
	if colors != 0 && colors != gameConfig.Colors {
		gameConfig.Colors = colors
		gameConfig.Layout = nil
	}
	if seed != 0 {
		gameConfig.Seed = seed
	}

	if err := engine.ValidateGameConfig(&gameConfig); err != nil {
		return nil, err
	}
	return &gameConfig, nil
}

const playHelp = `Commands:
  <row> <col>  click a cell (row 0 is the bottom row)
  hint         show a cell that removes a group
  r            start a new board
  h            show this help
  q            quit
`

// playLoop renders the board and applies typed commands until quit or EOF
func playLoop(in io.Reader, out io.Writer, e *engine.GameEngine, r *render.Renderer) error {
	scanner := bufio.NewScanner(in)

	if err := r.Render(e.GetState()); err != nil {
		return err
	}
	fmt.Fprint(out, playHelp)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintf(out, "Final score: %d\n", e.GetScore())
			return nil
		case "h", "help", "?":
			fmt.Fprint(out, playHelp)
			continue
		case "r", "reset":
			e.Reset()
		case "hint":
			moves := e.GetPossibleMoves()
			if len(moves) == 0 {
				fmt.Fprintln(out, "No moves left.")
			} else {
				fmt.Fprintf(out, "Try %d %d (%d groups available)\n", moves[0].Row, moves[0].Col, len(moves))
			}
			continue
		default:
			row, col, err := render.ParseCell(line, e.Board().Width())
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			e.Move(row, col)
		}

		if err := r.Render(e.GetState()); err != nil {
			return err
		}
	}
}

func (a *app) mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the game as MCP tools over stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svcs, err := initializeServices(cmd.String("config-dir"), a.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}

			go housekeepingRoutine(ctx, svcs, a.logger)

			a.logger.Info("starting", "app", AppName, "version", Version, "mode", "mcp-stdio")
			return mcp.NewServer(svcs.game, a.logger).ServeStdio()
		},
	}
}

// services holds the process-wide managers behind the MCP server
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires the config manager, the in-memory session manager
// and the game service.
func initializeServices(configDir string, logger *slog.Logger) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(session.WithLogger(logger))
	return &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// housekeepingRoutine runs housekeep on every tick until ctx is done
func housekeepingRoutine(ctx context.Context, svcs *services, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			housekeep(svcs, logger)
		}
	}
}

// housekeep drops idle sessions and rereads presets from disk so edited
// files apply to sessions created afterwards.
func housekeep(svcs *services, logger *slog.Logger) {
	if removed := svcs.sessions.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
		logger.Info("cleaned up expired sessions", "count", removed)
	}
	if err := svcs.configs.RefreshCache(); err != nil {
		logger.Warn("failed to refresh presets", "error", err)
	}
}

func (a *app) presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list board presets",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			infos, err := configs.ListConfigs()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(a.stdout, "No presets found.")
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBOARD\tCOLORS\tLAYOUT\tDESCRIPTION")
			for _, info := range infos {
				layout := "random"
				if info.Fixed {
					layout = "fixed"
				}
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%s\t%s\n",
					info.ConfigID, info.Name, info.Width, info.Width, info.Colors, layout, info.Description)
			}
			return tw.Flush()
		},
	}
}

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate preset files (defaults to every preset in the config directory)",
		ArgsUsage: "[file ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print the starting board and its statistics for valid presets",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				files, err = presetFiles(cmd.String("config-dir"))
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no preset files to validate")
			}

			failed := 0
			for _, path := range files {
				result := validate.ValidateConfig(path)
				if !result.Valid {
					failed++
					fmt.Fprintf(a.stdout, "FAIL %s: %s\n", path, strings.Join(result.Errors, "; "))
					continue
				}
				fmt.Fprintf(a.stdout, "OK   %s (%s, %dx%d, %d colors)\n",
					path, result.Config.Name, result.Config.Width, result.Config.Width, result.Config.Colors)
				if cmd.Bool("verbose") {
					for _, line := range result.Info {
						fmt.Fprintf(a.stdout, "     %s\n", line)
					}
					for _, line := range result.StartingBoard {
						fmt.Fprintf(a.stdout, "       %s\n", line)
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d presets failed validation", failed, len(files))
			}
			return nil
		},
	}
}

// presetFiles lists the .json and .hcl files in dir
func presetFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".json", ".hcl":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
