package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/readinglog/internal/cli"
	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export-markdown":
		cmd := cli.NewExportMarkdownCommand(config.NewConfig())
		exitOnError(cmd.ParseFlags(args))
		_, err := cmd.Run()
		exitOnError(err)

	case "backup":
		cmd := cli.NewBackupCommand(config.NewConfig())
		exitOnError(cmd.ParseFlags(args))
		_, err := cmd.Run()
		exitOnError(err)

	case "version":
		fmt.Printf("readinglog %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve            Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  export-markdown  Export a user's quotes to <EXPORT_DIR>/<username>.md\n")
	fmt.Fprintf(os.Stderr, "  backup           Snapshot every stored document into BACKUP_DIR\n")
	fmt.Fprintf(os.Stderr, "  version          Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
