package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/pokemenu/internal/config"
	"github.com/hpungsan/pokemenu/internal/errors"
	"github.com/hpungsan/pokemenu/internal/mcp"
	"github.com/hpungsan/pokemenu/internal/pokeapi"
	"github.com/hpungsan/pokemenu/internal/pokemon"
	"github.com/hpungsan/pokemenu/internal/render"
	"github.com/hpungsan/pokemenu/internal/session"
)

// termWidth is the terminal width query used by the renderer.
var termWidth = render.StdoutWidth

// newCLIApp creates the CLI application. With no command it runs the
// interactive menu.
func newCLIApp(cfg *config.Config, log session.Log) *cli.App {
	app := &cli.App{
		Name:    "pokemenu",
		Usage:   "Look up Pokémon by name, ID, chance or birthday",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Log diagnostics to stderr"},
			&cli.StringFlag{Name: "base-url", Usage: "PokeAPI base URL (overrides config)"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Before: func(c *cli.Context) error {
			setupLogging(c.App.ErrWriter, c.Bool("verbose"))
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown command %q", c.Args().First())))
			}
			ctrl := session.New(session.Config{
				In:        c.App.Reader,
				Out:       c.App.Writer,
				NewRecord: recordFactory(c, cfg),
				Log:       log,
				RandomMax: cfg.RandomMax,
			})
			if err := ctrl.Run(c.Context); err != nil {
				return outputError(err)
			}
			return nil
		},
		Commands: []*cli.Command{
			infoCmd(cfg, log),
			imageCmd(cfg, log),
			birthdayCmd(cfg, log),
			mcpCmd(cfg, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// infoCmd creates the info command.
func infoCmd(cfg *config.Config, log session.Log) *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print a Pokémon's abilities, base experience, shiny sprite URL and base stats",
		ArgsUsage: "<name|id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("expected exactly one name or ID"))
			}
			identifier := c.Args().First()

			rec := recordFactory(c, cfg)(identifier)
			res, err := session.Lookup(c.Context, log, rec, nil)
			if err != nil {
				return outputError(err)
			}
			info, ok := res.Info()
			if !ok {
				return outputError(errors.NewNotFound(identifier, 404))
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, mcp.InfoResponse{Name: res.Name, Info: info})
			}
			if err := rec.PrintInfo(c.App.Writer); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// imageCmd creates the image command.
func imageCmd(cfg *config.Config, log session.Log) *cli.Command {
	return &cli.Command{
		Name:      "image",
		Usage:     "Draw a Pokémon's shiny sprite and name banner",
		ArgsUsage: "<name|id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("expected exactly one name or ID"))
			}
			identifier := c.Args().First()

			rec := recordFactory(c, cfg)(identifier)
			res, err := session.Lookup(c.Context, log, rec, nil)
			if err != nil {
				return outputError(err)
			}
			if !res.Found() {
				return outputError(errors.NewNotFound(identifier, 404))
			}
			if err := rec.RenderImage(c.Context, c.App.Writer); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// birthdayCmd creates the birthday command.
func birthdayCmd(cfg *config.Config, log session.Log) *cli.Command {
	return &cli.Command{
		Name:      "birthday",
		Usage:     "Find the Pokémon attributed to a birthdate",
		ArgsUsage: "<month> <day> <year>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return outputError(errors.NewInvalidRequest("expected month, day and year"))
			}
			args := c.Args()
			b, err := session.ParseBirthdate(args.Get(0), args.Get(1), args.Get(2))
			if err != nil {
				return outputError(err)
			}
			id, err := session.BirthdayID(b)
			if err != nil {
				return outputError(err)
			}

			rec := recordFactory(c, cfg)(strconv.Itoa(id))
			res, err := session.Lookup(c.Context, log, rec, &b)
			if err != nil {
				return outputError(err)
			}
			info, ok := res.Info()
			if !ok {
				return outputError(errors.NewNotFound(strconv.Itoa(id), 404))
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, mcp.BirthdayResponse{
					Birthdate: b.String(),
					ID:        id,
					Name:      res.Name,
					Info:      info,
				})
			}
			fmt.Fprintf(c.App.Writer, "The pokemon for %s is #%d, %s.\n", b, id, res.Name)
			if err := rec.PrintInfo(c.App.Writer); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(cfg *config.Config, log session.Log) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the lookup tools over MCP on stdio",
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
				slog.Warn("ignoring unknown disabled_tools", "tools", unknown)
			}
			h := mcp.NewHandlers(newClient(c, cfg), log)
			if err := mcp.Run(h, cfg, Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// newClient builds the API client, preferring --base-url over config.
func newClient(c *cli.Context, cfg *config.Config) *pokeapi.Client {
	baseURL := cfg.BaseURL
	if u := c.String("base-url"); u != "" {
		baseURL = u
	}
	return pokeapi.New(pokeapi.Config{
		BaseURL: baseURL,
		Timeout: cfg.HTTPTimeout(),
	})
}

// newRenderer builds the sprite and banner renderer; --no-color wins over config.
func newRenderer(c *cli.Context, cfg *config.Config) *render.Renderer {
	mode := cfg.Color
	if c.Bool("no-color") {
		mode = config.ColorNever
	}
	return render.New(render.Options{
		ArtWidth:  cfg.ImageWidth,
		Font:      cfg.BannerFont,
		Color:     mode,
		TermWidth: termWidth,
	})
}

// recordFactory returns a constructor for records sharing one client and renderer.
func recordFactory(c *cli.Context, cfg *config.Config) func(string) session.Record {
	client := newClient(c, cfg)
	renderer := newRenderer(c, cfg)
	return func(identifier string) session.Record {
		return pokemon.NewRecord(identifier, client, renderer)
	}
}

// setupLogging sends slog output to w at warn level, or debug when verbose.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// outputJSON marshals v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pokeErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pokeErr.Code, pokeErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
