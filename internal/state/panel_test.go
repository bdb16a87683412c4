package state

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/ladle/internal/recipes"
)

type fakeOptions struct {
	mealTypes []recipes.Option
	cuisines  []recipes.Option
	mealErr   error
	cuisineEr error
}

func (f fakeOptions) MealTypes(context.Context) ([]recipes.Option, error) {
	return f.mealTypes, f.mealErr
}

func (f fakeOptions) Cuisines(context.Context) ([]recipes.Option, error) {
	return f.cuisines, f.cuisineEr
}

func TestLoadPanel_LoadsBothLists(t *testing.T) {
	srv := newSeededServer(t)
	client, err := recipes.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	p := LoadPanel(context.Background(), client, nil)
	if want := []string{"breakfast", "dessert", "dinner"}; !reflect.DeepEqual(p.MealTypes, want) {
		t.Fatalf("MealTypes = %v, want %v", p.MealTypes, want)
	}
	if want := []string{"American", "French", "Italian"}; !reflect.DeepEqual(p.Cuisines, want) {
		t.Fatalf("Cuisines = %v, want %v", p.Cuisines, want)
	}
}

func TestLoadPanel_EitherFailureEmptiesBoth(t *testing.T) {
	opts := []recipes.Option{{Value: "lunch"}}
	cases := map[string]fakeOptions{
		"meal types fail": {mealErr: errors.New("down"), cuisines: opts},
		"cuisines fail":   {mealTypes: opts, cuisineEr: &recipes.HTTPError{Status: http.StatusInternalServerError}},
	}
	for name, api := range cases {
		t.Run(name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))

			p := LoadPanel(context.Background(), api, logger)
			if len(p.MealTypes) != 0 || len(p.Cuisines) != 0 {
				t.Fatalf("options = %v / %v, want both empty", p.MealTypes, p.Cuisines)
			}
			if !strings.Contains(logs.String(), "filter options unavailable") {
				t.Fatalf("failure not logged: %q", logs.String())
			}
		})
	}
}

func TestPanel_SelectionAndApply(t *testing.T) {
	p := &Panel{MealTypes: []string{"breakfast"}, Cuisines: []string{"Thai"}}

	if p.CanApply() {
		t.Fatalf("CanApply = true with nothing selected")
	}
	if _, ok := p.Apply(); ok {
		t.Fatalf("Apply should refuse an empty selection")
	}

	p.ToggleCuisine("Thai")
	f, ok := p.Apply()
	if !ok || f != (recipes.Filters{Cuisine: "Thai"}) {
		t.Fatalf("Apply = %#v, %v; want cuisine only", f, ok)
	}

	p.SelectMealType("breakfast")
	f, _ = p.Apply()
	if f != (recipes.Filters{MealType: "breakfast", Cuisine: "Thai"}) {
		t.Fatalf("Apply = %#v, want both keys", f)
	}

	p.ToggleCuisine("Thai")
	if p.Cuisine() != "" || p.MealType() != "breakfast" {
		t.Fatalf("toggle should clear the cuisine only")
	}

	p.Clear()
	if p.CanApply() || p.MealType() != "" || p.Cuisine() != "" {
		t.Fatalf("Clear left a selection")
	}
}

func TestNarrow(t *testing.T) {
	options := []string{"American", "French", "Italian", "Thai"}
	if got := Narrow(options, ""); !reflect.DeepEqual(got, options) {
		t.Fatalf("Narrow(empty) = %v", got)
	}
	got := Narrow(options, "itl")
	if len(got) != 1 || got[0] != "Italian" {
		t.Fatalf("Narrow(itl) = %v, want [Italian]", got)
	}
	if got := Narrow(options, "zzz"); len(got) != 0 {
		t.Fatalf("Narrow(zzz) = %v, want none", got)
	}
}
