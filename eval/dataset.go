// Package eval measures Deep-TOON against minified JSON: token savings via
// a real tokenizer, round-trip fidelity, and LLM comprehension of both
// renderings of the same data.
package eval

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Neumenon/deeptoon/deeptoon"
)

// Complexity buckets test cases by how much structure a question has to
// navigate.
type Complexity string

const (
	Simple  Complexity = "simple"
	Complex Complexity = "complex"
)

// TestCase is one dataset with comprehension questions asked against it.
type TestCase struct {
	Name       string
	Complexity Complexity
	Data       *deeptoon.Value
	Questions  []string
}

// BuiltinCases returns the offline dataset: synthetic cases spanning flat
// tables, nested orders, mixed types, and deep nesting. Live cases from a
// public API are added separately via FetchCase.
func BuiltinCases() []TestCase {
	return []TestCase{
		{
			Name:       "Employee Directory",
			Complexity: Simple,
			Data: deeptoon.Object(
				deeptoon.F("employees", deeptoon.Array(
					employee(1, "Alice", "Engineering", 95000, true),
					employee(2, "Bob", "Marketing", 61000, true),
					employee(3, "Charlie", "Engineering", 88000, false),
					employee(4, "Diana", "Sales", 72000, true),
				)),
			),
			Questions: []string{
				"Find the employee with id=3 and provide only their exact 'department' value.",
				"Which employee has the highest 'salary'? Provide only their exact 'name'.",
				"How many employees have 'active' set to true? Provide only the number.",
			},
		},
		{
			Name:       "E-commerce Orders",
			Complexity: Complex,
			Data: deeptoon.Object(
				deeptoon.F("orders", deeptoon.Array(
					order("ORD-001", "Alice Johnson", "NYC", 28, []orderItem{
						{"Laptop", 999.99, 1, "Electronics"},
						{"Mouse", 29.99, 2, "Electronics"},
					}, 1159.77),
					order("ORD-002", "Bob Smith", "LA", 35, []orderItem{
						{"Book", 19.99, 3, "Books"},
						{"Bookmark", 4.99, 1, "Books"},
					}, 75.16),
					order("ORD-003", "Carol Brown", "NYC", 42, []orderItem{
						{"Tablet", 299.99, 1, "Electronics"},
						{"Case", 24.99, 1, "Electronics"},
					}, 360.98),
				)),
			),
			Questions: []string{
				"Find the order with id='ORD-002' and provide only the exact 'customer.name' value.",
				"Find the customer who lives in 'LA' and provide only their exact 'age' value.",
				"Which order has the highest 'total'? Provide only its exact 'id'.",
			},
		},
		{
			Name:       "Sensor Readings",
			Complexity: Simple,
			Data: deeptoon.Object(
				deeptoon.F("sensor", deeptoon.Str("thermal-7")),
				deeptoon.F("readings", deeptoon.Array(
					reading("2025-01-15T08:00:00Z", 21.4, "ok"),
					reading("2025-01-15T09:00:00Z", 22.1, "ok"),
					reading("2025-01-15T10:00:00Z", 38.9, "alert"),
					reading("2025-01-15T11:00:00Z", 23.0, "ok"),
				)),
			),
			Questions: []string{
				"Which reading has status 'alert'? Provide only its exact 'at' timestamp.",
				"What is the lowest 'celsius' value? Provide only the number.",
			},
		},
		{
			Name:       "Nested Configuration",
			Complexity: Complex,
			Data: deeptoon.Object(
				deeptoon.F("service", deeptoon.Str("geocoder")),
				deeptoon.F("location", deeptoon.Object(
					deeptoon.F("coordinates", deeptoon.Object(
						deeptoon.F("lat", deeptoon.Float(34.0522)),
						deeptoon.F("lng", deeptoon.Float(-118.2437)),
						deeptoon.F("precision", deeptoon.Object(
							deeptoon.F("meters", deeptoon.Float(0.5)),
						)),
					)),
					deeptoon.F("fallbacks", deeptoon.Array(
						deeptoon.Str("ip"), deeptoon.Str("timezone"), deeptoon.Null(),
					)),
				)),
			),
			Questions: []string{
				"Provide only the exact value of 'location.coordinates.precision.meters'.",
			},
		},
	}
}

type orderItem struct {
	product  string
	price    float64
	qty      int64
	category string
}

func employee(id int64, name, dept string, salary int64, active bool) *deeptoon.Value {
	return deeptoon.Object(
		deeptoon.F("id", deeptoon.Int(id)),
		deeptoon.F("name", deeptoon.Str(name)),
		deeptoon.F("department", deeptoon.Str(dept)),
		deeptoon.F("salary", deeptoon.Int(salary)),
		deeptoon.F("active", deeptoon.Bool(active)),
	)
}

func order(id, name, city string, age int64, items []orderItem, total float64) *deeptoon.Value {
	elems := make([]*deeptoon.Value, len(items))
	for i, it := range items {
		elems[i] = deeptoon.Object(
			deeptoon.F("product", deeptoon.Str(it.product)),
			deeptoon.F("price", deeptoon.Float(it.price)),
			deeptoon.F("qty", deeptoon.Int(it.qty)),
			deeptoon.F("category", deeptoon.Str(it.category)),
		)
	}
	return deeptoon.Object(
		deeptoon.F("id", deeptoon.Str(id)),
		deeptoon.F("customer", deeptoon.Object(
			deeptoon.F("name", deeptoon.Str(name)),
			deeptoon.F("city", deeptoon.Str(city)),
			deeptoon.F("age", deeptoon.Int(age)),
		)),
		deeptoon.F("items", deeptoon.Array(elems...)),
		deeptoon.F("total", deeptoon.Float(total)),
	)
}

func reading(at string, celsius float64, status string) *deeptoon.Value {
	return deeptoon.Object(
		deeptoon.F("at", deeptoon.Str(at)),
		deeptoon.F("celsius", deeptoon.Float(celsius)),
		deeptoon.F("status", deeptoon.Str(status)),
	)
}

// ============================================================
// Live Dataset Fetching
// ============================================================

// DefaultAPIBase is the public sample-data API used for live test cases.
const DefaultAPIBase = "https://dummyjson.com"

// FetchCase pulls a sample dataset (for example "users" or "products")
// from a dummyjson-style API and wraps it as a test case.
func FetchCase(ctx context.Context, client *http.Client, base, endpoint string, limit int) (TestCase, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if base == "" {
		base = DefaultAPIBase
	}

	url := fmt.Sprintf("%s/%s?limit=%d", base, endpoint, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TestCase{}, fmt.Errorf("eval: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return TestCase{}, fmt.Errorf("eval: fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TestCase{}, fmt.Errorf("eval: fetch %s: unexpected status %s", endpoint, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TestCase{}, fmt.Errorf("eval: read %s: %w", endpoint, err)
	}

	data, err := deeptoon.FromJSON(body)
	if err != nil {
		return TestCase{}, fmt.Errorf("eval: parse %s: %w", endpoint, err)
	}

	return TestCase{
		Name:       endpoint,
		Complexity: Simple,
		Data:       data,
	}, nil
}
