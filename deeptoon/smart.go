package deeptoon

// CostFunc measures the prompt cost of a serialized text, typically via a
// tokenizer. A nil CostFunc falls back to byte length.
type CostFunc func(text string) int

// DefaultSmartThreshold is the minimum savings ratio at which SmartEncode
// prefers the compact form.
const DefaultSmartThreshold = 0.1

// SmartEncode returns the Deep-TOON form of v when it saves at least
// threshold (a 0..1 ratio) over the minimal JSON baseline under the given
// cost function, and the baseline otherwise. The comparison is inclusive:
// savings exactly at the threshold select the compact form. A zero-cost
// baseline prefers the baseline.
func SmartEncode(v *Value, threshold float64, cost CostFunc) (string, error) {
	return SmartEncodeWithOptions(v, threshold, cost, DefaultEncodeOptions())
}

// SmartEncodeWithOptions is SmartEncode with the compact form rendered under
// the given encoder options.
func SmartEncodeWithOptions(v *Value, threshold float64, cost CostFunc, opts EncodeOptions) (string, error) {
	if cost == nil {
		cost = func(s string) int { return len(s) }
	}

	baselineBytes, err := ToJSON(v)
	if err != nil {
		return "", err
	}
	baseline := string(baselineBytes)

	compact, err := EncodeWithOptions(v, opts)
	if err != nil {
		return "", err
	}

	baseCost := cost(baseline)
	if baseCost <= 0 {
		return baseline, nil
	}

	savings := float64(baseCost-cost(compact)) / float64(baseCost)
	if savings >= threshold {
		return compact, nil
	}
	return baseline, nil
}
