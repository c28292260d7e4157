// Package deeptoon implements Deep-TOON, a compact text serialization of
// the JSON data model optimized for LLM prompt token budgets.
//
// Deep-TOON is designed to be:
//   - Token-cheap (keys emitted once for uniform tables, minimal quoting)
//   - Exactly reconstructible (decode(encode(v)) == v)
//   - Strict on malformed input (structured decode errors, never partial values)
//
// # Wire Format
//
// Structure is carried by indentation (two spaces per level), not by closing
// delimiters. Objects are one "key: value" line per field. A uniform array of
// flat objects folds into a table: one header line with the declared length
// and the shared field names, then one delimited row per element:
//
//	items[3]{id,name,age,active}:
//	  1,Alice,25,true
//	  2,Bob,30,false
//	  3,Charlie,35,true
//
// Arrays that do not qualify fall back to one dash-marked block per element:
//
//	tags[2]:
//	  - alpha
//	  - 42
//
// # Data Model
//
// Scalars: null, bool, int, float, string. Containers: array, object.
// Object key order is preserved through encode and decode, and the int/float
// split mirrors the textual form of the number (5 never becomes 5.0).
//
// # Smart Encoding
//
// SmartEncode compares the compact form against a minimal JSON baseline
// under a caller-supplied cost function (for example a tokenizer) and
// returns the compact form only when it clears a savings threshold.
package deeptoon
