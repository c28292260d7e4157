package eval

import (
	"fmt"
	"io"
	"sort"

	"github.com/Neumenon/deeptoon/deeptoon"
)

// EncodingStats compares the minified-JSON and Deep-TOON renderings of one
// dataset.
type EncodingStats struct {
	JSONBytes   int
	ToonBytes   int
	BytesSaved  int
	BytesPct    float64
	JSONTokens  int
	ToonTokens  int
	TokensSaved int
	TokensPct   float64
}

// CaseResult is the full outcome for one test case: size comparison,
// round-trip fidelity, and (when a live run happened) comprehension scores.
type CaseResult struct {
	Name       string
	Complexity Complexity
	Stats      EncodingStats

	RoundTripOK bool

	// Comprehension results, zero when no live run was made.
	QuestionsAsked  int
	EquivalentPairs int
}

// MeasureCase computes the offline portion of a result: both renderings,
// their byte and token costs, and whether Deep-TOON round-trips the value
// exactly. A nil cost function falls back to the heuristic estimator.
func MeasureCase(tc TestCase, cost deeptoon.CostFunc) (CaseResult, error) {
	if cost == nil {
		cost = EstimateTokens
	}

	jsonText, err := deeptoon.ToJSON(tc.Data)
	if err != nil {
		return CaseResult{}, fmt.Errorf("eval: %s: serialize JSON: %w", tc.Name, err)
	}
	toonText, err := deeptoon.Encode(tc.Data)
	if err != nil {
		return CaseResult{}, fmt.Errorf("eval: %s: serialize: %w", tc.Name, err)
	}

	back, err := deeptoon.Decode(toonText)
	roundTrip := err == nil && deeptoon.Equal(tc.Data, back)

	return CaseResult{
		Name:        tc.Name,
		Complexity:  tc.Complexity,
		Stats:       measure(string(jsonText), toonText, cost),
		RoundTripOK: roundTrip,
	}, nil
}

func measure(jsonText, toonText string, cost deeptoon.CostFunc) EncodingStats {
	s := EncodingStats{
		JSONBytes:  len(jsonText),
		ToonBytes:  len(toonText),
		JSONTokens: cost(jsonText),
		ToonTokens: cost(toonText),
	}
	s.BytesSaved = s.JSONBytes - s.ToonBytes
	s.TokensSaved = s.JSONTokens - s.ToonTokens
	if s.JSONBytes > 0 {
		s.BytesPct = float64(s.BytesSaved) / float64(s.JSONBytes) * 100
	}
	if s.JSONTokens > 0 {
		s.TokensPct = float64(s.TokensSaved) / float64(s.JSONTokens) * 100
	}
	return s
}

// ============================================================
// Reporting
// ============================================================

// WriteCSV emits one row per case.
func WriteCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,complexity,json_bytes,toon_bytes,bytes_pct,json_tokens,toon_tokens,tokens_pct,roundtrip")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%s,%d,%d,%.1f,%d,%d,%.1f,%t\n",
			r.Name, r.Complexity,
			r.Stats.JSONBytes, r.Stats.ToonBytes, r.Stats.BytesPct,
			r.Stats.JSONTokens, r.Stats.ToonTokens, r.Stats.TokensPct,
			r.RoundTripOK)
	}
}

// WriteSummary prints a human-readable report: totals, per-case table, and
// the best savers first.
func WriteSummary(w io.Writer, results []CaseResult) {
	var totalJSONTok, totalToonTok, totalJSONBytes, totalToonBytes int
	roundTripFailures := 0
	for _, r := range results {
		totalJSONTok += r.Stats.JSONTokens
		totalToonTok += r.Stats.ToonTokens
		totalJSONBytes += r.Stats.JSONBytes
		totalToonBytes += r.Stats.ToonBytes
		if !r.RoundTripOK {
			roundTripFailures++
		}
	}

	fmt.Fprintf(w, "=== SUMMARY ===\n")
	fmt.Fprintf(w, "Cases:        %d\n", len(results))
	fmt.Fprintf(w, "JSON total:   %d bytes, %d tokens\n", totalJSONBytes, totalJSONTok)
	fmt.Fprintf(w, "TOON total:   %d bytes, %d tokens\n", totalToonBytes, totalToonTok)
	if totalJSONBytes > 0 {
		fmt.Fprintf(w, "Bytes saved:  %d (%.1f%%)\n",
			totalJSONBytes-totalToonBytes,
			float64(totalJSONBytes-totalToonBytes)/float64(totalJSONBytes)*100)
	}
	if totalJSONTok > 0 {
		fmt.Fprintf(w, "Tokens saved: %d (%.1f%%)\n",
			totalJSONTok-totalToonTok,
			float64(totalJSONTok-totalToonTok)/float64(totalJSONTok)*100)
	}
	if roundTripFailures > 0 {
		fmt.Fprintf(w, "Round-trip:   %d FAILED\n", roundTripFailures)
	} else {
		fmt.Fprintf(w, "Round-trip:   all ok\n")
	}

	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Stats.TokensPct > sorted[j].Stats.TokensPct
	})

	fmt.Fprintf(w, "\n%-28s %10s %10s %8s\n", "Case", "JSON tok", "TOON tok", "Saved")
	for _, r := range sorted {
		fmt.Fprintf(w, "%-28s %10d %10d %7.1f%%\n",
			truncateName(r.Name, 28),
			r.Stats.JSONTokens, r.Stats.ToonTokens, r.Stats.TokensPct)
	}
}

// WriteComprehension appends per-case comprehension scores when a live LLM
// run populated them.
func WriteComprehension(w io.Writer, results []CaseResult) {
	any := false
	for _, r := range results {
		if r.QuestionsAsked > 0 {
			any = true
			break
		}
	}
	if !any {
		return
	}

	fmt.Fprintf(w, "\n=== COMPREHENSION ===\n")
	fmt.Fprintf(w, "%-28s %6s %6s\n", "Case", "Asked", "Equiv")
	for _, r := range results {
		if r.QuestionsAsked == 0 {
			continue
		}
		fmt.Fprintf(w, "%-28s %6d %6d\n",
			truncateName(r.Name, 28),
			r.QuestionsAsked, r.EquivalentPairs)
	}
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
