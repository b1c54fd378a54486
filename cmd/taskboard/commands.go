package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aristath/taskboard/internal/ingest"
	"github.com/aristath/taskboard/internal/taskgraph"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// dataFile returns the single optional FILE argument, falling back to the configured one.
func (a *app) dataFile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return a.cfg.DataFile, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected at most one file, got %d", len(args))
	}
}

// load reads path into the board.
func (a *app) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := a.board.LoadJSON(data); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (a *app) checkCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{a.cfg.DataFile}
	}

	results, err := ingest.CheckFiles(ctx, args)
	if err != nil {
		return err
	}
	failed, err := a.printer.Check(results)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func (a *app) groupsCommand(args []string) error {
	path, err := a.dataFile(args)
	if err != nil {
		return err
	}
	if err := a.load(path); err != nil {
		return err
	}
	return a.printer.Groups(a.board.Groups())
}

func (a *app) tasksCommand(args []string) error {
	fs := newFlagSet("tasks")
	group := fs.String("group", "", "Only list tasks of this group")
	available := fs.Bool("available", false, "Only list tasks that can be worked on now")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.dataFile(fs.Args())
	if err != nil {
		return err
	}
	if err := a.load(path); err != nil {
		return err
	}

	tasks := a.board.Tasks().Tasks()
	if *group != "" {
		tasks = a.board.GroupTasks(*group)
	}
	if *available {
		var open []*taskgraph.Task
		for _, task := range tasks {
			if !task.Locked() && !task.Completed() {
				open = append(open, task)
			}
		}
		tasks = open
	}
	return a.printer.Tasks(tasks)
}

func (a *app) completionCommand(name string, completed bool, args []string) error {
	fs := newFlagSet(name)
	out := fs.String("o", "", "Write the updated list here instead of back to FILE")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := a.cfg.DataFile
	rest := fs.Args()
	if len(rest) > 0 {
		if _, err := strconv.Atoi(rest[0]); err != nil {
			path, rest = rest[0], rest[1:]
		}
	}
	if len(rest) == 0 {
		return errors.New("no task IDs given")
	}
	ids, err := parseIDs(rest)
	if err != nil {
		return err
	}

	if err := a.load(path); err != nil {
		return err
	}
	for _, id := range ids {
		change, err := a.board.SetCompletion(id, completed)
		if err != nil {
			return err
		}
		if err := a.printer.Change(change, completed); err != nil {
			return err
		}
	}

	target := path
	if *out != "" {
		target = *out
	}
	return ingest.WriteFile(target, a.board.Tasks())
}

func (a *app) exportCommand(args []string) error {
	path, err := a.dataFile(args)
	if err != nil {
		return err
	}
	if err := a.load(path); err != nil {
		return err
	}
	data, err := a.board.Export()
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(data)
	return err
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid task ID %q", arg)
		}
		ids[i] = id
	}
	return ids, nil
}
