// Command daily-report runs one publication of the round-table engine: it
// picks the day's winner from the durable rotation, samples the voice roster,
// calls the intake and generation collaborators, and persists the write-once
// report plus its indexes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theimaginaryfoundation/round-table/engine"
	"github.com/theimaginaryfoundation/round-table/engine/provider"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if cfg.APIKey == "" {
		// Fail before any file I/O; a run without a credential must leave no trace.
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	council, err := engine.LoadCouncil(cfg.RosterPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	rules := rulesFor(cfg)
	client := provider.New(cfg.APIKey, cfg.Model)

	pub, err := engine.NewPublisher(rules, council, client, client)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	now, err := runDate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pub.Run(ctx, now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "date=%s winner=%q special=%v state=%s report=%s\n",
		res.Date, res.Winner, res.Special, res.StateLoad, res.ReportPath)
}

// rulesFor derives the engine layout from DataDir, honoring the explicit path
// overrides.
func rulesFor(cfg Config) engine.Rules {
	rules := engine.DefaultRules(cfg.DataDir)
	if cfg.StatePath != "" {
		rules.StatePath = cfg.StatePath
	}
	if cfg.ReportsDir != "" {
		rules.ReportsDir = cfg.ReportsDir
	}
	return rules
}

func runDate(cfg Config) (time.Time, error) {
	if cfg.Date == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", cfg.Date)
}
