// Command msgstore saves and reads text messages kept as <id>.txt files in a
// working directory, or serves that directory over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tailored-agentic-units/msgstore/filestore"
	"github.com/tailored-agentic-units/msgstore/server"
)

// exitNotFound is the exit status of a read for an id that has no message.
const exitNotFound = 3

var errUsage = errors.New("usage error")

func main() {
	var (
		configFile = flag.String("config", "", "Path to config file, JSON or YAML (optional)")
		dir        = flag.String("dir", "", "Working directory holding message files (overrides config)")
		addr       = flag.String("addr", "", "Listen address for serve (overrides config)")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		logFormat  = flag.String("log-format", "", "Log format: text, json (overrides config)")
		observer   = flag.String("observer", "", "Event observers, comma-separated: slog, noop (overrides config)")
	)
	flag.Usage = usage
	flag.Parse()

	cfg := server.DefaultConfig()
	if *configFile != "" {
		loaded, err := server.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	cfg.Merge(&server.Config{
		Store:     filestore.Config{Path: *dir},
		Addr:      *addr,
		LogLevel:  *logLevel,
		LogFormat: *logFormat,
		Observer:  *observer,
	})

	logger := setupLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := run(ctx, &cfg, logger, flag.Args(), os.Stdout)
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("msgstore failed", "error", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: msgstore [flags] <command>

Commands:
  save ID MESSAGE   write MESSAGE to <dir>/ID.txt
  read ID           print the message for ID (exit 3 if absent)
  path ID           print the file path for ID
  serve             serve the store over HTTP until interrupted

Flags:`)
	flag.PrintDefaults()
}

func run(ctx context.Context, cfg *server.Config, logger *slog.Logger, args []string, stdout io.Writer) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "save":
		if len(args) != 2 {
			return 0, fmt.Errorf("%w: save takes ID and MESSAGE", errUsage)
		}
	case "read", "path":
		if len(args) != 1 {
			return 0, fmt.Errorf("%w: %s takes ID", errUsage, cmd)
		}
	case "serve":
		if len(args) != 0 {
			return 0, fmt.Errorf("%w: serve takes no arguments", errUsage)
		}
		return 0, serve(ctx, cfg, logger)
	default:
		return 0, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	id, err := parseID(args[0])
	if err != nil {
		return 0, err
	}

	store, err := server.OpenStore(cfg, logger, nil)
	if err != nil {
		return 0, err
	}

	switch cmd {
	case "save":
		return 0, store.Save(ctx, id, args[1])
	case "read":
		message, ok, err := store.Read(ctx, id)
		if err != nil {
			return 0, err
		}
		if !ok {
			return exitNotFound, nil
		}
		_, err = io.WriteString(stdout, message)
		return 0, err
	default:
		_, err = fmt.Fprintln(stdout, store.FilePath(id))
		return 0, err
	}
}

func serve(ctx context.Context, cfg *server.Config, logger *slog.Logger) error {
	registry := server.NewRegistry()

	store, err := server.OpenStore(cfg, logger, registry)
	if err != nil {
		return err
	}

	logger.Info("store opened", "store_id", store.ID(), "working_directory", store.WorkingDirectory())

	return server.New(cfg, store, registry, logger).Run(ctx)
}

func parseID(s string) (filestore.MessageID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid message id %q", errUsage, s)
	}
	return filestore.MessageID(n), nil
}
