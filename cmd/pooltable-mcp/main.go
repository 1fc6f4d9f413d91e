package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/pooltable-mcp/internal/config"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
	"github.com/ironsheep/pooltable-mcp/internal/logger"
	"github.com/ironsheep/pooltable-mcp/internal/server"
	"github.com/ironsheep/pooltable-mcp/internal/table"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "pooltable-mcp %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printHelp(stdout)
			return 0
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "pooltable-mcp: %v\n", err)
		return 1
	}
	log := newLogger(cfg)

	if len(args) > 0 && args[0] == "analyze" {
		return analyze(args[1:], cfg, log, stdout, stderr)
	}
	if len(args) > 0 {
		fmt.Fprintf(stderr, "pooltable-mcp: unknown command %q (see --help)\n", args[0])
		return 2
	}

	log.Info("main", "server starting", map[string]interface{}{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	})
	srv := server.New(cfg, log, Version)
	if err := srv.Run(); err != nil {
		log.Error("main", err, nil)
		return 1
	}
	return 0
}

// newLogger writes to stderr, since stdout carries the protocol. The
// environment level wins over the config file.
func newLogger(cfg *config.AnalyzerConfig) logger.Logger {
	if os.Getenv(logger.LevelEnv) != "" {
		return logger.FromEnv()
	}
	level, err := logger.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		return logger.FromEnv()
	}
	return logger.NewConsoleLogger(level)
}

// analyze runs one analysis and prints the report as JSON.
func analyze(args []string, cfg *config.AnalyzerConfig, log logger.Logger, stdout, stderr io.Writer) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(stderr, "usage: pooltable-mcp analyze <image> [table-size]")
		return 2
	}

	size := cfg.GetTableSize()
	if len(args) == 2 {
		var err error
		if size, err = table.ParseTableSize(args[1]); err != nil {
			fmt.Fprintf(stderr, "pooltable-mcp: %v\n", err)
			return 2
		}
	}

	img, err := imaging.NewImageCache().Load(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "pooltable-mcp: %v\n", err)
		return 1
	}

	report, err := table.NewAnalyzer(cfg.AnalyzerOptions(), log).Run(img, size)
	if err != nil {
		fmt.Fprintf(stderr, "pooltable-mcp: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(stderr, "pooltable-mcp: %v\n", err)
		return 1
	}
	return 0
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "pooltable-mcp - MCP server for pool table photo analysis")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pooltable-mcp                          Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  pooltable-mcp analyze <image> [size]   Print the analysis of one image as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table sizes: 7ft, 8ft, 8ft-pro, 9ft, 10ft-snooker, 12ft-snooker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=/path/tuning.json   Analyzer tuning file\n", config.PathEnv)
	fmt.Fprintf(w, "  %s=debug              Log level (debug, info, warn, error)\n", logger.LevelEnv)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}
