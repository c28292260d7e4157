// deeptoon - Deep-TOON codec CLI tool
//
// Usage:
//
//	deeptoon encode [options] [file]   Convert JSON to Deep-TOON
//	deeptoon decode [options] [file]   Convert Deep-TOON to JSON
//	deeptoon stats [file]              Compare both renderings of a JSON input
//	deeptoon version                   Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Neumenon/deeptoon/deeptoon"
	"github.com/Neumenon/deeptoon/eval"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	// Parse flags and file argument
	delimiter := byte(',')
	smart := false
	pretty := false
	threshold := deeptoon.DefaultSmartThreshold
	model := ""
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case strings.HasPrefix(arg, "--delimiter="):
			val := strings.TrimPrefix(arg, "--delimiter=")
			if val == "tab" {
				val = "\t"
			}
			if len(val) != 1 {
				fatal("--delimiter must be a single character")
			}
			delimiter = val[0]
		case arg == "--smart":
			smart = true
		case arg == "--pretty":
			pretty = true
		case strings.HasPrefix(arg, "--threshold="):
			f, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--threshold="), 64)
			if err != nil {
				fatal("bad --threshold: %v", err)
			}
			threshold = f
		case strings.HasPrefix(arg, "--model="):
			model = strings.TrimPrefix(arg, "--model=")
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "encode":
		cmdEncode(input, delimiter, smart, threshold, model)
	case "decode":
		cmdDecode(input, delimiter, pretty)
	case "stats":
		cmdStats(input, model)
	case "version", "-v", "--version":
		fmt.Printf("deeptoon %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `deeptoon - Deep-TOON codec CLI tool

Usage:
  deeptoon encode [options] [file]   Convert JSON to Deep-TOON
  deeptoon decode [options] [file]   Convert Deep-TOON to JSON
  deeptoon stats [file]              Compare both renderings of a JSON input
  deeptoon version                   Print version info

Options:
  --delimiter=C     Cell delimiter for tabular rows (default: ",", "tab" for TAB)
  --smart           Emit Deep-TOON only when it beats minified JSON; else emit JSON
  --threshold=F     Savings ratio for --smart (default: 0.1)
  --pretty          Indent JSON output (decode only)
  --model=NAME      Tokenizer model for --smart and stats (default: byte length)

If no file is given, reads from stdin.

Examples:
  echo '[{"id":1,"name":"a"},{"id":2,"name":"b"}]' | deeptoon encode
  deeptoon encode --delimiter=tab data.json
  deeptoon decode data.toon > data.json
  deeptoon stats data.json
`)
}

// cmdEncode: JSON -> Deep-TOON
func cmdEncode(r io.Reader, delimiter byte, smart bool, threshold float64, model string) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := deeptoon.FromJSON(data)
	if err != nil {
		fatal("parse JSON: %v", err)
	}

	opts := deeptoon.DefaultEncodeOptions()
	opts.Delimiter = delimiter

	if smart {
		out, err := deeptoon.SmartEncodeWithOptions(v, threshold, costFunc(model), opts)
		if err != nil {
			fatal("encode: %v", err)
		}
		fmt.Println(out)
		return
	}

	out, err := deeptoon.EncodeWithOptions(v, opts)
	if err != nil {
		fatal("encode: %v", err)
	}
	fmt.Println(out)
}

// cmdDecode: Deep-TOON -> JSON
func cmdDecode(r io.Reader, delimiter byte, pretty bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	opts := deeptoon.DefaultDecodeOptions()
	opts.Delimiter = delimiter
	v, err := deeptoon.DecodeWithOptions(string(data), opts)
	if err != nil {
		fatal("decode: %v", err)
	}

	out, err := deeptoon.ToJSON(v)
	if err != nil {
		fatal("convert to JSON: %v", err)
	}
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}
	fmt.Println(string(out))
}

// cmdStats: size and token comparison for one input
func cmdStats(r io.Reader, model string) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := deeptoon.FromJSON(data)
	if err != nil {
		fatal("parse JSON: %v", err)
	}

	tc := eval.TestCase{Name: "input", Data: v}
	res, err := eval.MeasureCase(tc, costFunc(model))
	if err != nil {
		fatal("measure: %v", err)
	}

	s := res.Stats
	fmt.Printf("JSON:   %d bytes, %d tokens\n", s.JSONBytes, s.JSONTokens)
	fmt.Printf("TOON:   %d bytes, %d tokens\n", s.ToonBytes, s.ToonTokens)
	fmt.Printf("Saved:  %d bytes (%.1f%%), %d tokens (%.1f%%)\n",
		s.BytesSaved, s.BytesPct, s.TokensSaved, s.TokensPct)
	if !res.RoundTripOK {
		fmt.Println("Round-trip: FAILED")
	}
}

// costFunc picks the tokenizer when a model was named; byte length otherwise.
func costFunc(model string) deeptoon.CostFunc {
	if model == "" {
		return nil
	}
	counter, err := eval.NewTokenCounter(model)
	if err != nil {
		fatal("tokenizer: %v", err)
	}
	return counter.Count
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "deeptoon: "+format+"\n", args...)
	os.Exit(1)
}
