//go:build pact

// Package pacttest holds shared names and fixtures for ladle's contract tests
// against the recipe backend.
package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "recipe-api"
	ConsumerName = "ladle"

	StateRecipesBaseline = "recipes baseline"
	StateRecipeExists    = "recipe with id 11 exists"
	StateRecipeMissing   = "no recipe with id 404"
	StateOptionsSeeded   = "meal types and cuisines seeded"
)

const (
	ExistingRecipeID int64 = 11
	MissingRecipeID  int64 = 404
	CreatedRecipeID  int64 = 12
)

// ExampleRecipe is the stored recipe the provider states seed.
func ExampleRecipe() map[string]any {
	return map[string]any{
		"id":           ExistingRecipeID,
		"title":        "Pact Pancakes",
		"ingredients":  "flour\neggs\nmilk",
		"instructions": "Whisk and fry.",
		"meal_type":    "breakfast",
		"cuisine":      "American",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
