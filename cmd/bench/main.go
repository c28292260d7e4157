// bench - Deep-TOON benchmark runner
//
// Compares Deep-TOON vs minified JSON over the built-in datasets:
//   - Bytes on wire
//   - Token counts (real tokenizer when available, heuristic otherwise)
//   - Round-trip fidelity
//
// With --live it also runs the LLM comprehension suite: the same questions
// asked over both renderings, answers scored for equivalence by a judge
// model. Requires OPENAI_API_KEY (a .env file is honored).
//
// Output: CSV plus a summary on stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Neumenon/deeptoon/deeptoon"
	"github.com/Neumenon/deeptoon/eval"
)

const defaultMaxCalls = 50

func main() {
	live := false
	model := "gpt-4o-mini"
	maxCalls := defaultMaxCalls
	csvPath := "bench_results.csv"
	var fetch []string

	for _, arg := range os.Args[1:] {
		switch {
		case arg == "--live":
			live = true
		case strings.HasPrefix(arg, "--model="):
			model = strings.TrimPrefix(arg, "--model=")
		case strings.HasPrefix(arg, "--max-calls="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--max-calls="))
			if err != nil {
				fatal("bad --max-calls: %v", err)
			}
			maxCalls = n
		case strings.HasPrefix(arg, "--csv="):
			csvPath = strings.TrimPrefix(arg, "--csv=")
		case strings.HasPrefix(arg, "--fetch="):
			fetch = append(fetch, strings.TrimPrefix(arg, "--fetch="))
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", arg)
			printUsage()
			os.Exit(1)
		}
	}

	ctx := context.Background()

	cases := eval.BuiltinCases()
	for _, endpoint := range fetch {
		fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		tc, err := eval.FetchCase(fetchCtx, nil, "", endpoint, 10)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", endpoint, err)
			continue
		}
		cases = append(cases, tc)
	}

	fmt.Fprintf(os.Stderr, "Deep-TOON Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "==========================\n")
	fmt.Fprintf(os.Stderr, "Cases: %d\n\n", len(cases))

	// Tokenizer: real encoding when the model's tables are available,
	// heuristic estimate otherwise.
	var cost deeptoon.CostFunc = eval.EstimateTokens
	if counter, err := eval.NewTokenCounter(model); err == nil {
		cost = counter.Count
	} else {
		fmt.Fprintf(os.Stderr, "Tokenizer unavailable (%v); using heuristic estimates\n\n", err)
	}

	var runner *eval.Runner
	if live {
		godotenv.Load()
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			fatal("--live requires OPENAI_API_KEY (set it or add it to .env)")
		}
		runner = eval.NewRunner(key, model, maxCalls)
	}

	var results []eval.CaseResult
	for _, tc := range cases {
		res, err := eval.MeasureCase(tc, cost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", tc.Name, err)
			continue
		}

		if runner != nil && len(tc.Questions) > 0 {
			jsonText, _ := deeptoon.ToJSON(tc.Data)
			toonText, _ := deeptoon.Encode(tc.Data)
			err := runner.RunComprehension(ctx, tc, string(jsonText), toonText, &res)
			if errors.Is(err, eval.ErrCallBudget) {
				fmt.Fprintf(os.Stderr, "API call budget reached at %s\n", tc.Name)
			} else if err != nil {
				fmt.Fprintf(os.Stderr, "Comprehension %s: %v\n", tc.Name, err)
			}
		}

		results = append(results, res)
	}

	if csvFile, err := os.Create(csvPath); err == nil {
		eval.WriteCSV(csvFile, results)
		csvFile.Close()
		fmt.Fprintf(os.Stderr, "CSV written to: %s\n\n", csvPath)
	}

	eval.WriteSummary(os.Stdout, results)
	eval.WriteComprehension(os.Stdout, results)
	if runner != nil {
		fmt.Printf("\nAPI calls made: %d\n", runner.Calls())
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `bench - Deep-TOON benchmark runner

Usage:
  bench [options]

Options:
  --live            Also run the LLM comprehension suite (needs OPENAI_API_KEY)
  --model=NAME      Model for tokenizing and live runs (default: gpt-4o-mini)
  --max-calls=N     API call budget for --live (default: 50)
  --csv=PATH        Where to write per-case results (default: bench_results.csv)
  --fetch=ENDPOINT  Add a live dataset from dummyjson.com (e.g. users, products)
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bench: "+format+"\n", args...)
	os.Exit(1)
}
