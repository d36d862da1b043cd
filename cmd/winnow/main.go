// Command winnow is a reference CLI demonstrating the sampling engine: it
// loads a battery of questions from a YAML file, wires an oracle backend,
// runs collect, and prints a human-readable report. It demonstrates the
// library; it does not redefine it (spec.md §7, §7 of SPEC_FULL.md).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/JamesAIzzard/winnow/engine"
	"github.com/JamesAIzzard/winnow/metrics"
	"github.com/JamesAIzzard/winnow/oracle/httporacle"
	"github.com/JamesAIzzard/winnow/oracle/mockoracle"
	"github.com/JamesAIzzard/winnow/question"
	"github.com/JamesAIzzard/winnow/sampling"
)

func main() {
	battery := flag.String("battery", "", "path to a battery YAML file (required)")
	oracleKind := flag.String("oracle", "mock", "oracle backend: mock or http")
	baseURL := flag.String("base-url", "", "chat-completion endpoint for the http oracle")
	apiKey := flag.String("api-key", "", "bearer token for the http oracle")
	model := flag.String("model", "", "model name for the http oracle")
	concurrency := flag.Int("concurrency", 3, "maximum in-flight oracle calls")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for question selection")
	flag.Parse()

	if *battery == "" {
		fmt.Fprintln(os.Stderr, "winnow: -battery is required")
		os.Exit(2)
	}

	cfg, err := loadBattery(*battery)
	if err != nil {
		log.Fatalf("winnow: %v", err)
	}

	bank, err := buildBank(cfg)
	if err != nil {
		log.Fatalf("winnow: %v", err)
	}

	var oracleFn engine.Oracle
	switch *oracleKind {
	case "http":
		if *baseURL == "" || *model == "" {
			fmt.Fprintln(os.Stderr, "winnow: -base-url and -model are required for the http oracle")
			os.Exit(2)
		}
		oracleFn = httporacle.New(*baseURL, *apiKey, *model).Query
	case "mock":
		oracleFn = mockoracle.New(demoScript(cfg)).Query
	default:
		log.Fatalf("winnow: unknown oracle backend %q", *oracleKind)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	recorder := metrics.NewRecorder()
	results, err := engine.Collect(ctx, bank, oracleFn, engine.Options{
		Concurrency: *concurrency,
		Rand:        rand.New(rand.NewSource(*seed)),
		Metrics:     recorder,
		Progress:    printProgress,
	})
	if err != nil {
		log.Fatalf("winnow: collect failed: %v", err)
	}

	printReport(results)
}

func printProgress(snapshots map[string]sampling.Snapshot) {
	ids := make([]string, 0, len(snapshots))
	for id := range snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s := snapshots[id]
		fmt.Printf("\r%-20s queries=%-3d samples=%-3d declines=%-3d", id, s.QueryCount, s.SampleCount, s.DeclineCount)
	}
}

// demoScript gives the mock oracle something plausible to say about each
// question when no real backend is configured.
func demoScript(cfg *batteryConfig) map[string][]string {
	script := make(map[string][]string, len(cfg.Questions))
	for _, qc := range cfg.Questions {
		switch qc.Type {
		case "boolean":
			script[qc.Prompt] = []string{"yes", "yes", "yes"}
		case "categorical":
			if len(qc.Options) > 0 {
				script[qc.Prompt] = []string{qc.Options[0], qc.Options[0], qc.Options[0]}
			}
		default:
			script[qc.Prompt] = []string{"31", "31", "29", "31", "30"}
		}
	}
	return script
}

func printReport(results map[string]question.Estimate) {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println()
	fmt.Println("question            value           confidence  archetype          samples declines")
	for _, id := range ids {
		est := results[id]
		fmt.Printf("%-20s %-15v %-11.3f %-18s %-7d %-8d\n",
			id, est.Value, est.Confidence, est.Archetype, est.SampleCount, est.DeclineCount)
	}
}
