package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ironsheep/region-grow-mcp/internal/config"
	"github.com/ironsheep/region-grow-mcp/internal/logging"
	"github.com/ironsheep/region-grow-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("region-grow-mcp - MCP server for interactive region growing")
	fmt.Println()
	fmt.Println("Usage: region-grow-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println("  --config <path>    YAML configuration file")
	fmt.Println("  --http <addr>      Serve MCP over HTTP on addr instead of stdio")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug     Log level (trace, debug, info, warn, error)\n", config.EnvLogLevel)
	fmt.Printf("  %s=30        Default intensity tolerance\n", config.EnvThreshold)
	fmt.Printf("  %s=average        Default mode (constant or average)\n", config.EnvMode)
	fmt.Printf("  %s=:8080     Listen address for the http transport\n", config.EnvHTTPAddr)
	fmt.Println()
	fmt.Println("By default this server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("region-grow-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	configPath := flag.String("config", "", "YAML configuration file")
	httpAddr := flag.String("http", "", "serve MCP over HTTP on this address")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.Server.Transport = config.TransportHTTP
		cfg.Server.HTTPAddr = *httpAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Log to stderr; stdout is reserved for the MCP protocol
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.NoColor)
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		logger.Warn().Str("level", cfg.Log.Level).Msg("unknown log level, using info")
	}
	logger.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("region-grow-mcp starting")

	growth, err := cfg.GrowthConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid growth configuration")
	}

	if Version != "dev" {
		server.Version = Version
	}
	srv := server.New(growth, logger)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		err = srv.RunHTTP(cfg.Server.HTTPAddr)
	default:
		err = srv.Run()
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
