package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JonMunkholm/racechart/internal/application"
	"github.com/JonMunkholm/racechart/internal/config"
	"github.com/JonMunkholm/racechart/internal/core"
	_ "github.com/JonMunkholm/racechart/internal/core/samples" // Register built-in samples
	"github.com/JonMunkholm/racechart/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	filePath := flag.String("file", "", "CSV file to load instead of a sample")
	sampleKey := flag.String("sample", core.DefaultSampleKey, "Built-in sample to start from")
	interval := flag.Duration("interval", core.DefaultTickInterval, "Tick interval, 50ms to 1s")
	printOnly := flag.Bool("print", false, "Print every step's ranking and exit")
	logFile := flag.String("log", "racechart.log", "Log file (the terminal is taken by the UI)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `racechart: animated bar chart race in the terminal

Usage:
  racechart [-sample gdp] [-file data.csv] [-interval 500ms] [-print]

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()
	level, format := os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")
	if cfg, err := config.Load(); err == nil {
		level, format = cfg.Logging.Level, cfg.Logging.Format
	}

	if *printOnly {
		logging.SetupTo(os.Stderr, level, format)
	} else {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logging.SetupTo(f, level, format)
	}

	sess, err := newSession(*sampleKey, *filePath, *interval)
	if err != nil {
		um := core.MapError(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n%s (%s)\n", err, um.Action, um.Code)
		os.Exit(1)
	}
	defer sess.Close()

	if *printOnly {
		if err := application.PrintRace(os.Stdout, sess.Table(), sess.Metric()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := application.New(sess)
	defer m.Close()

	slog.Info("terminal ui starting", "sample", *sampleKey, "file", *filePath)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newSession seeds a session from the sample, then replaces the table with
// the file when one is given.
func newSession(sampleKey, path string, interval time.Duration) (*core.Session, error) {
	sample, err := core.GetSample(sampleKey)
	if err != nil {
		return nil, err
	}

	sess := core.NewSession(core.SessionOptions{
		ID:       "terminal",
		Sample:   sample,
		Interval: interval,
	})
	if path == "" {
		return sess, nil
	}

	f, err := os.Open(path)
	if err != nil {
		sess.Close()
		return nil, err
	}
	defer f.Close()

	_, report, err := sess.Import(f)
	if err != nil {
		sess.Close()
		return nil, err
	}
	slog.Info("file loaded",
		"path", path,
		"rows", report.RowsKept,
		"skipped", len(report.Skipped),
		"zeroed_cells", report.ZeroedCells,
	)
	return sess, nil
}
