package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/five82/ferry/internal/app"
	"github.com/five82/ferry/internal/config"
	"github.com/five82/ferry/internal/fetch"
	"github.com/five82/ferry/internal/offcloud"
	"github.com/five82/ferry/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "ferry: cancelled")
			return 130
		}
		fmt.Fprintf(os.Stderr, "ferry: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ferry",
		Usage: "fetch remote sources through a download aggregation account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file `PATH` (default ~/.config/ferry/config.toml)",
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "API key (overrides config and FERRY_API_KEY)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "API root `URL` (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "line-oriented output instead of the interactive view",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			getCommand(),
			submitCommand(),
			statusCommand(),
			filesCommand(),
			fetchCommand(),
			retryCommand(),
			loginCommand(),
			accountCommand(),
			historyCommand(),
			proxiesCommand(),
			remotesCommand(),
			cacheCommand(),
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "submit a source and download the result",
		ArgsUsage: "URL",
		Flags: append(pipelineFlags(),
			&cli.StringFlag{Name: "kind", Value: "cloud", Usage: "submission kind: cloud, remote or instant"},
			&cli.StringFlag{Name: "remote-account", Usage: "remote option `ID` for remote submissions"},
			&cli.StringFlag{Name: "folder", Usage: "destination folder `ID` for remote submissions"},
			&cli.StringFlag{Name: "proxy", Usage: "proxy `ID` for instant submissions"},
		),
		Action: func(c *cli.Context) error {
			client, cfg, err := newClient(c, true)
			if err != nil {
				return err
			}
			rawURL := c.Args().First()
			if rawURL == "" {
				return fmt.Errorf("source url required")
			}
			kind, err := offcloud.ParseJobKind(c.String("kind"))
			if err != nil {
				return err
			}

			a := &app.App{Client: client, Logger: newLogger(c), ChunkSize: cfg.ChunkSize}
			opts := pipelineOptions(c, cfg)
			opts.URL = rawURL
			opts.Kind = kind
			opts.Remote = offcloud.RemoteOptions{
				RemoteOptionID: c.String("remote-account"),
				FolderID:       c.String("folder"),
			}
			opts.ProxyID = c.String("proxy")

			result, err := runPipeline(c, rawURL, func(ctx context.Context, events app.Events) (*fetch.Result, error) {
				opts.Events = events
				return a.Get(ctx, opts)
			})
			if err != nil {
				return err
			}
			return failIfIncomplete(result)
		},
	}
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "queue a source without waiting for it",
		ArgsUsage: "URL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: "cloud", Usage: "submission kind: cloud, remote or instant"},
			&cli.StringFlag{Name: "remote-account", Usage: "remote option `ID` for remote submissions"},
			&cli.StringFlag{Name: "folder", Usage: "destination folder `ID` for remote submissions"},
			&cli.StringFlag{Name: "proxy", Usage: "proxy `ID` for instant submissions"},
		},
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			rawURL := c.Args().First()
			if rawURL == "" {
				return fmt.Errorf("source url required")
			}
			kind, err := offcloud.ParseJobKind(c.String("kind"))
			if err != nil {
				return err
			}

			switch kind {
			case offcloud.JobInstant:
				res, err := client.SubmitInstant(c.Context, rawURL, c.String("proxy"))
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, res.URL)
			case offcloud.JobRemote:
				handle, err := client.SubmitRemote(c.Context, rawURL, offcloud.RemoteOptions{
					RemoteOptionID: c.String("remote-account"),
					FolderID:       c.String("folder"),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, handle)
			default:
				handle, err := client.SubmitCloud(c.Context, rawURL)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, handle)
			}
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "show one status snapshot for a job",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: "cloud", Usage: "job kind: cloud or remote"},
		},
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			handle, err := handleFromArgs(c)
			if err != nil {
				return err
			}
			rec, err := client.JobStatus(c.Context, handle)
			if err != nil {
				return err
			}
			printStatus(c.App.Writer, handle, rec)
			return nil
		},
	}
}

func filesCommand() *cli.Command {
	return &cli.Command{
		Name:      "files",
		Usage:     "list the downloadable contents of a completed job",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("request id required")
			}
			entries, err := client.ListFiles(c.Context, id)
			if err != nil {
				return err
			}
			printFiles(c.App.Writer, entries)
			return nil
		},
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "download a previously submitted job",
		ArgsUsage: "ID",
		Flags: append(pipelineFlags(),
			&cli.StringFlag{Name: "kind", Value: "cloud", Usage: "job kind: cloud or remote"},
		),
		Action: func(c *cli.Context) error {
			client, cfg, err := newClient(c, true)
			if err != nil {
				return err
			}
			handle, err := handleFromArgs(c)
			if err != nil {
				return err
			}

			a := &app.App{Client: client, Logger: newLogger(c), ChunkSize: cfg.ChunkSize}
			opts := pipelineOptions(c, cfg)

			result, err := runPipeline(c, handle.String(), func(ctx context.Context, events app.Events) (*fetch.Result, error) {
				opts.Events = events
				return a.Fetch(ctx, handle, opts)
			})
			if err != nil {
				return err
			}
			return failIfIncomplete(result)
		},
	}
}

func retryCommand() *cli.Command {
	return &cli.Command{
		Name:      "retry",
		Usage:     "ask the service to restart a failed job",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: "cloud", Usage: "job kind: cloud or remote"},
		},
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			handle, err := handleFromArgs(c)
			if err != nil {
				return err
			}
			if err := client.RetryJob(c.Context, handle); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "retry requested for %s\n", handle)
			return nil
		},
	}
}

func accountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "show account details and limits",
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			stats, err := client.AccountStats(c.Context)
			if err != nil {
				return err
			}
			printAccount(c.App.Writer, stats)
			return nil
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list past jobs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum entries to list"},
			&cli.IntFlag{Name: "offset", Usage: "entries to skip"},
			&cli.StringFlag{Name: "sort", Usage: "sort field"},
			&cli.StringFlag{Name: "order", Usage: "sort order: asc or desc"},
		},
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			entries, err := client.History(c.Context, offcloud.HistoryQuery{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
				Sort:   c.String("sort"),
				Order:  c.String("order"),
			})
			if err != nil {
				return err
			}
			printHistory(c.App.Writer, entries)
			return nil
		},
	}
}

func proxiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "proxies",
		Usage: "list conversion proxies for instant submissions",
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			proxies, err := client.Proxies(c.Context)
			if err != nil {
				return err
			}
			printProxies(c.App.Writer, proxies)
			return nil
		},
	}
}

func remotesCommand() *cli.Command {
	return &cli.Command{
		Name:  "remotes",
		Usage: "list configured external storage accounts",
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			accounts, err := client.RemoteAccounts(c.Context)
			if err != nil {
				return err
			}
			printRemotes(c.App.Writer, accounts)
			return nil
		},
	}
}

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "check which torrent hashes the service already holds",
		ArgsUsage: "HASH...",
		Action: func(c *cli.Context) error {
			client, _, err := newClient(c, true)
			if err != nil {
				return err
			}
			hashes := c.Args().Slice()
			if len(hashes) == 0 {
				return fmt.Errorf("at least one hash required")
			}
			res, err := client.CheckCache(c.Context, hashes)
			if err != nil {
				return err
			}
			printCache(c.App.Writer, hashes, res)
			return nil
		},
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "download directory (overrides config)"},
		&cli.DurationFlag{Name: "interval", Usage: "status poll interval (overrides config)"},
		&cli.DurationFlag{Name: "timeout", Usage: "completion budget (overrides config)"},
	}
}

// newClient loads the config, applies flag overrides, and builds the API
// client. Commands that talk to authenticated endpoints pass needKey.
func newClient(c *cli.Context, needKey bool) (*offcloud.Client, config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, config.Config{}, err
	}
	if key := strings.TrimSpace(c.String("key")); key != "" {
		cfg.APIKey = key
	}
	if base := c.String("base-url"); base != "" {
		cfg.BaseURL = base
	}
	if needKey && cfg.APIKey == "" {
		return nil, config.Config{}, fmt.Errorf("no API key configured; run `ferry login` or set FERRY_API_KEY")
	}
	client, err := offcloud.New(cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return nil, config.Config{}, err
	}
	return client, cfg, nil
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func pipelineOptions(c *cli.Context, cfg config.Config) app.Options {
	opts := app.Options{
		Dir:      cfg.DownloadDir,
		Interval: cfg.PollInterval(),
		Timeout:  cfg.Timeout(),
	}
	if dir := c.String("dir"); dir != "" {
		opts.Dir = dir
	}
	if interval := c.Duration("interval"); interval > 0 {
		opts.Interval = interval
	}
	if timeout := c.Duration("timeout"); timeout > 0 {
		opts.Timeout = timeout
	}
	return opts
}

// runPipeline picks the interactive view on a terminal and line output
// everywhere else.
func runPipeline(c *cli.Context, title string, runFn func(context.Context, app.Events) (*fetch.Result, error)) (*fetch.Result, error) {
	if interactive(c) {
		return ui.Run(c.Context, title, runFn)
	}
	return runFn(c.Context, ui.Plain(c.App.Writer))
}

func interactive(c *cli.Context) bool {
	if c.Bool("plain") {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func handleFromArgs(c *cli.Context) (offcloud.JobHandle, error) {
	id := c.Args().First()
	if id == "" {
		return offcloud.JobHandle{}, fmt.Errorf("request id required")
	}
	kind, err := offcloud.ParseJobKind(c.String("kind"))
	if err != nil {
		return offcloud.JobHandle{}, err
	}
	return offcloud.JobHandle{RequestID: id, Kind: kind}, nil
}

func failIfIncomplete(result *fetch.Result) error {
	if result == nil || result.AllSucceeded() {
		return nil
	}
	failed := result.Failed()
	return fmt.Errorf("%d of %d files failed: %s", len(failed), result.Len(), strings.Join(failed, ", "))
}
