package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/taskboard/internal/board"
	"github.com/aristath/taskboard/internal/config"
	"github.com/aristath/taskboard/internal/events"
	"github.com/aristath/taskboard/internal/report"
	"github.com/aristath/taskboard/internal/taskgraph"
)

func main() {
	// Create signal-aware context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs.
type app struct {
	cfg     *config.BoardConfig
	board   *board.Board
	printer *report.Printer
	stdout  io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	configPath := fs.String("config", "", "Config file (default: ~/.taskboard and .taskboard)")
	verbose := fs.Bool("v", false, "Log board events to stderr")
	debug := fs.Bool("debug", false, "Also log group progress (implies -v)")
	noColor := fs.Bool("no-color", false, "Disable styled output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		printUsage(fs, stderr)
		return errors.New("no command given")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	locale, err := cfg.Language()
	if err != nil {
		return err
	}

	bus := events.NewEventBus()
	logged := make(chan struct{})
	if *verbose || *debug {
		ch := bus.SubscribeAll(0)
		logger := report.NewEventLogger(stderr, *debug)
		go func() {
			logger.Run(ch)
			close(logged)
		}()
	} else {
		close(logged)
	}
	defer func() {
		bus.Close()
		<-logged
	}()

	a := &app{
		cfg: cfg,
		board: board.New(board.Options{
			Updater:    taskgraph.Updater{Policy: policy},
			Summarizer: taskgraph.Summarizer{Locale: locale},
			Bus:        bus,
		}),
		printer: report.NewPrinter(stdout, cfg.ColorEnabled() && !*noColor),
		stdout:  stdout,
	}

	command, rest := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "check":
		return a.checkCommand(ctx, rest)
	case "groups":
		return a.groupsCommand(rest)
	case "tasks":
		return a.tasksCommand(rest)
	case "complete":
		return a.completionCommand("complete", true, rest)
	case "uncomplete":
		return a.completionCommand("uncomplete", false, rest)
	case "export":
		return a.exportCommand(rest)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command %q", command)
	}
}

// loadConfig reads an explicit config file, or the conventional locations when path is empty.
func loadConfig(path string) (*config.BoardConfig, error) {
	if path == "" {
		return config.LoadDefault()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	cfg, err := config.Load("", path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `Usage: taskboard [options] <command> [arguments]

Commands:
  check FILE...                   Validate task list files
  groups [FILE]                   Show group progress
  tasks [-group NAME] [-available] [FILE]
                                  List tasks with their state
  complete [-o OUT] [FILE] ID...  Mark tasks completed and save the list
  uncomplete [-o OUT] [FILE] ID...
                                  Mark tasks incomplete and save the list
  export [FILE]                   Print the normalized task list as JSON

FILE defaults to the configured data file (%s).

Options:
`, config.DefaultDataFile)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
