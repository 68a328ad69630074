// Copyright 2026 The prefixserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the prefixserve server and interactive CLI.

prefixserve loads a dictionary of words with frequencies and optional definitions,
builds a prefix trie over it once, and then answers, for any prefix, the best word
starting with it (highest frequency, ties to the alphabetically smallest word) together
with the number of dictionary words sharing that prefix.

# Usage

Run the interactive prompt over the default dictionary:

	prefixserve -c -dict dictionary.txt

Type a prefix and press Enter; type *** (configurable) to quit.

Start the msgpack IPC server on stdin/stdout with debug logs on stderr:

	prefixserve -d -dict dictionary.txt

Convert a text dictionary to msgpack:

	prefixserve -dict dictionary.txt -export dictionary.msgpack

# Dictionary formats

The text format is a sequence of records separated by blank lines:

	word: car
	frequency: 5
	definition: a road vehicle

Words must be lowercase a-z. Files ending in .msgpack or .mpk hold one msgpack array of
{w, f, d} maps.

# Configuration

Runtime configuration is a TOML file, created with defaults when missing:

	[dict]
	path = "dictionary.txt"
	max_words = 0

	[server]
	max_prefix = 60
	default_limit = 10
	max_limit = 64
	rate_limit = 0.0
	burst = 32
	metrics_addr = ""
	watch_config = true

	[cli]
	sentinel = "***"
	max_prefix = 60
	top_limit = 10
	show_definition = true

In server mode the [server] section is reloaded when the file changes. When
metrics_addr is set, Prometheus metrics are served at http://<metrics_addr>/metrics.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/prefixserve/internal/cli"
	"github.com/bastiangx/prefixserve/internal/utils"
	"github.com/bastiangx/prefixserve/pkg/config"
	"github.com/bastiangx/prefixserve/pkg/dictionary"
	"github.com/bastiangx/prefixserve/pkg/metrics"
	"github.com/bastiangx/prefixserve/pkg/server"
	"github.com/bastiangx/prefixserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	Version = "0.3.0"
	AppName = "prefixserve"
)

// main wires config, dictionary, trie and the chosen front end.
// It does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dictPath := flag.String("dict", "", "Dictionary file (.txt or .msgpack), overrides [dict] path")
	configPath := flag.String("config", "", "Path to config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive prompt instead of the IPC server")
	wordLimit := flag.Int("words", -1, "Maximum number of words to load (0 for all, default from config)")
	exportPath := flag.String("export", "", "Write the loaded dictionary as msgpack to this path and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	log.SetOutput(os.Stderr)
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, activeConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activeConfig))

	if *dictPath == "" {
		*dictPath = cfg.Dict.Path
	}
	if *wordLimit < 0 {
		*wordLimit = cfg.Dict.MaxWords
	}

	resolved := *dictPath
	if pathResolver, err := utils.NewPathResolver(); err == nil {
		if p, err := pathResolver.GetDictPath(*dictPath); err == nil {
			resolved = p
		}
	} else {
		log.Warnf("Path resolver unavailable, using dictionary path as given: %v", err)
	}

	store, err := dictionary.NewLoader(*wordLimit).LoadFile(resolved)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}

	if *exportPath != "" {
		if err := export(store, *exportPath); err != nil {
			log.Fatalf("Failed to export dictionary: %v", err)
		}
		log.Infof("Wrote %d words to %s", store.Len(), *exportPath)
		return
	}

	start := time.Now()
	completer := suggest.NewCompleter(store)
	built := time.Since(start)
	log.Debugf("Completer init done: words=[%d] in %v", store.Len(), built)

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(completer, cfg.CLI, os.Stdin, os.Stdout)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	m := metrics.New()
	stats := completer.Stats()
	m.SetDictionary(stats["totalWords"], stats["trieNodes"], built)

	if err := runServer(completer, cfg, activeConfig, m); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// runServer runs the IPC loop, the metrics listener and the config watcher
// until stdin closes.
func runServer(completer *suggest.Completer, cfg *config.Config, configPath string, m *metrics.Metrics) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	srv := server.NewServer(completer, cfg.Server, os.Stdin, os.Stdout)
	srv.SetMetrics(m)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return srv.Serve(gctx)
	})
	if cfg.Server.MetricsAddr != "" {
		g.Go(func() error {
			if err := m.Serve(gctx, cfg.Server.MetricsAddr); err != nil {
				log.Errorf("Metrics listener on %s: %v", cfg.Server.MetricsAddr, err)
			}
			return nil
		})
	}
	if cfg.Server.WatchConfig && configPath != "" {
		g.Go(func() error {
			return srv.WatchConfig(gctx, configPath)
		})
	}

	log.Debugf("%s ready, pid [ %d ]", AppName, os.Getpid())
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func export(store *dictionary.Store, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dictionary.WriteMsgpack(file, store); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ prefixserve ] best word and word count for any prefix")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
}
