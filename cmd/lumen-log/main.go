// Command lumen-log is a tool for viewing and analyzing lumen discovery
// trace files.
//
// Trace files are created by configuring a FileLogger as the trace sink
// of an enumerator or camera manager, or by running lumen-ctl with the
// -trace flag.
//
// Usage:
//
//	lumen-log <command> [flags] <file.ltrace>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSON or CSV format
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	lumen-log view manager.ltrace
//
//	# View only backend-stage events
//	lumen-log view --stage backend manager.ltrace
//
//	# View only hotplug transitions
//	lumen-log view --category hotplug manager.ltrace
//
//	# Export to JSONL
//	lumen-log export --format jsonl manager.ltrace
//
//	# Filter by node and save to new file
//	lumen-log filter --node /dev/media0 -o media0.ltrace manager.ltrace
//
//	# Show statistics
//	lumen-log stats manager.ltrace
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lumen-media/lumen-go/cmd/lumen-log/commands"
)

const usage = `lumen-log - Lumen Discovery Trace Analyzer

Usage:
  lumen-log <command> [flags] <file.ltrace>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSON or CSV format
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "lumen-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lumen-log view - View trace file in human-readable format

Usage:
  lumen-log view [flags] <file.ltrace>

Flags:
`)
		fs.PrintDefaults()
	}

	stage := fs.String("stage", "", "Filter by stage (backend, registry, manager)")
	category := fs.String("category", "", "Filter by category (scan, hotplug, match, state, error)")
	session := fs.String("session", "", "Filter by session ID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	var filter commands.ViewFilter
	filter.Session = *session

	if *stage != "" {
		s, err := commands.ParseStageFlag(*stage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Stage = &s
	}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lumen-log export - Export trace file to JSON or CSV format

Usage:
  lumen-log export [flags] <file.ltrace>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lumen-log filter - Filter trace file and write to new file

Usage:
  lumen-log filter [flags] <file.ltrace>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	session := fs.String("session", "", "Filter by session ID")
	node := fs.String("node", "", "Filter by device node path")
	driver := fs.String("driver", "", "Filter by driver name")
	cameraID := fs.String("camera-id", "", "Filter by camera ID")
	backend := fs.String("backend", "", "Filter by backend name")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	stage := fs.String("stage", "", "Filter by stage (backend, registry, manager)")
	category := fs.String("category", "", "Filter by category (scan, hotplug, match, state, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:    *output,
		Session:   *session,
		Node:      *node,
		Driver:    *driver,
		CameraID:  *cameraID,
		Backend:   *backend,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Stage:     *stage,
		Category:  *category,
	}

	if err := commands.RunFilter(path, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lumen-log stats - Show statistics about the trace file

Usage:
  lumen-log stats <file.ltrace>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
