package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/hibiki/internal/backend"
	"github.com/mikanfactory/hibiki/internal/config"
	"github.com/mikanfactory/hibiki/internal/github"
	"github.com/mikanfactory/hibiki/internal/tui"
)

const usage = `Usage: hibiki [command]

Commands:
  (default)      Launch the change viewer for the current directory
  watch <path>   Stream change events for a working tree to stdout

Flags:
  --config <path>   Path to config file
  --path <path>     Working tree to open (default: current directory)
`

func main() {
	if len(os.Args) > 1 && os.Args[1] == "watch" {
		runWatch(os.Args[2:])
		return
	}
	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h" || os.Args[1] == "help") {
		fmt.Print(usage)
		return
	}

	fs := flag.NewFlagSet("hibiki", flag.ExitOnError)
	fs.Usage = func() { fmt.Print(usage) }
	configPath := fs.String("config", "", "path to config file")
	treePath := fs.String("path", "", "working tree to open")
	fs.Parse(os.Args[1:])

	runUI(*configPath, *treePath)
}

func setupDebugLog() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	logPath := filepath.Join(home, ".config", "hibiki", "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
}

func loadConfig(flagPath string) (*backend.Manager, error) {
	if flagPath == "" {
		path, created, err := config.EnsureDefaultConfig()
		if err != nil {
			return nil, err
		}
		if created {
			fmt.Fprintf(os.Stderr, "Created config template at %s\n", path)
		}
		flagPath = path
	}

	path, err := config.ResolveConfigPath(flagPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return backend.NewManager(cfg), nil
}

func runUI(configPath, treePath string) {
	setupDebugLog()
	zone.NewGlobal()

	if treePath == "" {
		dir, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		treePath = dir
	}

	manager, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	p := tea.NewProgram(
		tui.NewModel(manager, github.OSRunner{}, treePath),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runWatch streams change events to stdout until interrupted. Useful
// for debugging watcher behavior against a live working tree.
func runWatch(args []string) {
	fs := flag.NewFlagSet("hibiki watch", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: hibiki watch <path>")
		os.Exit(1)
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	manager, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	id, events, err := manager.Watch(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer manager.Unwatch(path, id)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	fmt.Printf("watching %s\n", path)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Err != nil {
				fmt.Printf("watcher error: %v\n", ev.Err)
				return
			}
			fmt.Printf("changed: %s\n", ev.Path)
		case <-interrupt:
			return
		}
	}
}
