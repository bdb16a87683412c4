package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/five82/ladle/internal/recipes"
	"github.com/five82/ladle/internal/recipes/recipestest"
)

var (
	recipeA = recipes.Recipe{ID: 1, Title: "A", MealType: "dinner", Cuisine: "Italian"}
	recipeB = recipes.Recipe{ID: 2, Title: "B", MealType: "breakfast", Cuisine: "French"}
	recipeC = recipes.Recipe{ID: 3, Title: "Apple pie", MealType: "dessert", Cuisine: "American"}
)

// fakeAPI serves canned results and records calls.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	all      []recipes.Recipe
	searched []recipes.Recipe
	filtered []recipes.Recipe
	created  recipes.Recipe
	updated  recipes.Recipe
	err      error
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListAll(context.Context) ([]recipes.Recipe, error) {
	if err := f.record("ListAll"); err != nil {
		return nil, err
	}
	return f.all, nil
}

func (f *fakeAPI) Search(_ context.Context, q string) ([]recipes.Recipe, error) {
	if err := f.record("Search:" + q); err != nil {
		return nil, err
	}
	return f.searched, nil
}

func (f *fakeAPI) Filter(_ context.Context, fs recipes.Filters) ([]recipes.Recipe, error) {
	if err := f.record("Filter:" + fs.String()); err != nil {
		return nil, err
	}
	return f.filtered, nil
}

func (f *fakeAPI) Create(context.Context, recipes.Draft) (recipes.Recipe, error) {
	if err := f.record("Create"); err != nil {
		return recipes.Recipe{}, err
	}
	return f.created, nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, _ recipes.Draft) (recipes.Recipe, error) {
	if err := f.record("Update"); err != nil {
		return recipes.Recipe{}, err
	}
	return f.updated, nil
}

func (f *fakeAPI) Remove(context.Context, int64) error {
	return f.record("Remove")
}

func recipeIDs(list []recipes.Recipe) []int64 {
	out := make([]int64, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func newSeededServer(t *testing.T) *recipestest.Server {
	t.Helper()
	srv := recipestest.NewServer(recipeA, recipeB, recipeC)
	t.Cleanup(srv.Close)
	return srv
}

func newServerController(t *testing.T, srv *recipestest.Server) *Controller {
	t.Helper()
	client, err := recipes.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return NewController(client, nil)
}

func TestController_InitialSnapshot(t *testing.T) {
	c := NewController(&fakeAPI{}, nil)
	snap := c.Snapshot()
	if snap.Recipes == nil || len(snap.Recipes) != 0 {
		t.Fatalf("Recipes = %#v, want empty non-nil", snap.Recipes)
	}
	if snap.Mode.Kind() != ModeUnfiltered || snap.Loading || snap.Error != "" {
		t.Fatalf("initial snapshot = %#v", snap)
	}
}

func TestController_SnapshotIsIsolated(t *testing.T) {
	withExtra := recipes.Recipe{ID: 7, Title: "Stew", Extra: map[string]json.RawMessage{"owner_id": json.RawMessage(`42`)}}
	api := &fakeAPI{all: []recipes.Recipe{withExtra}}
	c := NewController(api, nil)
	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	c.ShowDetail(withExtra)

	snap := c.Snapshot()
	snap.Recipes[0].Extra["owner_id"][0] = '9'
	snap.Recipes[0].Extra["tags"] = json.RawMessage(`[]`)
	delete(snap.Detail.Extra, "owner_id")

	again := c.Snapshot()
	if got := string(again.Recipes[0].Extra["owner_id"]); got != "42" {
		t.Fatalf("owner_id = %s, want 42", got)
	}
	if _, ok := again.Recipes[0].Extra["tags"]; ok {
		t.Fatalf("snapshot mutation leaked into controller: %v", again.Recipes[0].Extra)
	}
	if _, ok := again.Detail.Extra["owner_id"]; !ok {
		t.Fatalf("detail extra lost owner_id")
	}

	cause := &recipes.HTTPError{Method: http.MethodGet, Path: "/recipes/", Status: http.StatusBadGateway}
	api.err = cause
	_ = c.Reapply(ctx)
	if got := c.Snapshot().Cause; got != error(cause) {
		t.Fatalf("Cause = %#v, want the original error", got)
	}
}

func TestController_LoadReplacesCollection(t *testing.T) {
	api := &fakeAPI{all: []recipes.Recipe{recipeA, recipeB}}
	c := NewController(api, nil)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := c.Snapshot()
	if got := recipeIDs(snap.Recipes); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("ids = %v, want [1 2]", got)
	}
	if snap.Mode.Kind() != ModeUnfiltered || snap.Loading {
		t.Fatalf("mode = %v loading = %v", snap.Mode.Kind(), snap.Loading)
	}
	if snap.LastUpdated.IsZero() {
		t.Fatalf("LastUpdated not set")
	}

	snap.Recipes[0].Title = "mutated"
	if c.Snapshot().Recipes[0].Title != "A" {
		t.Fatalf("Snapshot should clone recipes")
	}
}

func TestController_LoadNetworkFailureOnStart(t *testing.T) {
	srv := recipestest.NewServer()
	c := newServerController(t, srv)
	srv.Close()

	var logs bytes.Buffer
	c.logger = slog.New(slog.NewJSONHandler(&logs, nil))

	err := c.Load(context.Background())
	if !recipes.IsNetwork(err) {
		t.Fatalf("Load error = %v, want network error", err)
	}
	snap := c.Snapshot()
	if len(snap.Recipes) != 0 {
		t.Fatalf("Recipes = %v, want empty", snap.Recipes)
	}
	if snap.Error != "Failed to fetch recipes. Make sure the backend server is running." {
		t.Fatalf("Error = %q", snap.Error)
	}
	if snap.Loading {
		t.Fatalf("Loading should be cleared after failure")
	}
	if !recipes.IsNetwork(snap.Cause) {
		t.Fatalf("Cause = %v, want a network error", snap.Cause)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry); err != nil {
		t.Fatalf("log entry not JSON: %v (%q)", err, logs.String())
	}
	if entry["action"] != "fetch" || entry["level"] != "ERROR" {
		t.Fatalf("log entry = %v", entry)
	}
}

func TestController_FailureKeepsCollectionAndMode(t *testing.T) {
	api := &fakeAPI{filtered: []recipes.Recipe{recipeB}}
	c := NewController(api, nil)
	ctx := context.Background()

	if err := c.Filter(ctx, recipes.Filters{MealType: "breakfast"}); err != nil {
		t.Fatalf("Filter returned error: %v", err)
	}

	api.err = &recipes.HTTPError{Method: http.MethodGet, Path: "/recipes/search/x", Status: http.StatusInternalServerError}
	if err := c.Search(ctx, "x"); err == nil {
		t.Fatalf("Search should fail")
	}
	snap := c.Snapshot()
	if got := recipeIDs(snap.Recipes); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("ids = %v, want [2]", got)
	}
	if snap.Mode.Kind() != ModeFiltered || snap.Mode.Filters().MealType != "breakfast" {
		t.Fatalf("mode = %#v, want filtered breakfast", snap.Mode)
	}
	if snap.Error != "Failed to search recipes" {
		t.Fatalf("Error = %q", snap.Error)
	}

	api.err = nil
	if err := c.Reapply(ctx); err != nil {
		t.Fatalf("Reapply returned error: %v", err)
	}
	if snap := c.Snapshot(); snap.Error != "" || snap.Cause != nil {
		t.Fatalf("success should clear error, got %q", snap.Error)
	}
}

func TestController_ErrorMessages(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	cases := []struct {
		name string
		run  func(*Controller) error
		want string
	}{
		{"fetch", func(c *Controller) error { return c.Load(ctx) }, "Failed to fetch recipes. Make sure the backend server is running."},
		{"search", func(c *Controller) error { return c.Search(ctx, "q") }, "Failed to search recipes"},
		{"filter", func(c *Controller) error { return c.Filter(ctx, recipes.Filters{Cuisine: "Thai"}) }, "Failed to filter recipes"},
		{"create", func(c *Controller) error { return c.Create(ctx, recipes.Draft{Title: "x"}) }, "Failed to create recipe"},
		{"update", func(c *Controller) error { return c.Update(ctx, 1, recipes.Draft{Title: "x"}) }, "Failed to update recipe"},
		{"delete", func(c *Controller) error { return c.Delete(ctx, 1, func() bool { return true }) }, "Failed to delete recipe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(&fakeAPI{err: boom}, nil)
			if err := tc.run(c); !errors.Is(err, boom) {
				t.Fatalf("error = %v, want boom", err)
			}
			if got := c.Snapshot().Error; got != tc.want {
				t.Fatalf("Error = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestController_SearchThenRevertWithoutFilterEqualsLoad(t *testing.T) {
	srv := newSeededServer(t)
	c := newServerController(t, srv)
	ctx := context.Background()

	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	loaded := c.Snapshot().Recipes

	if err := c.Search(ctx, "apple"); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	snap := c.Snapshot()
	if got := recipeIDs(snap.Recipes); !reflect.DeepEqual(got, []int64{3}) {
		t.Fatalf("search ids = %v, want [3]", got)
	}
	if snap.Mode.Kind() != ModeSearched || snap.Mode.Query() != "apple" {
		t.Fatalf("mode = %#v, want searched apple", snap.Mode)
	}

	if err := c.Revert(ctx); err != nil {
		t.Fatalf("Revert returned error: %v", err)
	}
	snap = c.Snapshot()
	if !reflect.DeepEqual(recipeIDs(snap.Recipes), recipeIDs(loaded)) {
		t.Fatalf("revert ids = %v, want %v", recipeIDs(snap.Recipes), recipeIDs(loaded))
	}
	if snap.Mode.Kind() != ModeUnfiltered {
		t.Fatalf("mode after revert = %v, want unfiltered", snap.Mode.Kind())
	}
}

func TestController_BlankSearchRevertsToActiveFilter(t *testing.T) {
	srv := newSeededServer(t)
	c := newServerController(t, srv)
	ctx := context.Background()

	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := c.Filter(ctx, recipes.Filters{MealType: "breakfast"}); err != nil {
		t.Fatalf("Filter returned error: %v", err)
	}
	if got := recipeIDs(c.Snapshot().Recipes); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("filter ids = %v, want [2]", got)
	}

	for _, blank := range []string{"", "   ", "\t"} {
		if err := c.Search(ctx, blank); err != nil {
			t.Fatalf("Search(%q) returned error: %v", blank, err)
		}
		snap := c.Snapshot()
		if got := recipeIDs(snap.Recipes); !reflect.DeepEqual(got, []int64{2}) {
			t.Fatalf("Search(%q) ids = %v, want [2] not the full list", blank, got)
		}
		if snap.Mode.Kind() != ModeFiltered {
			t.Fatalf("Search(%q) mode = %v, want filtered", blank, snap.Mode.Kind())
		}
	}

	req, _ := srv.LastRequest()
	if req.Path != "/recipes/filter/" || req.Query != "meal_type=breakfast" {
		t.Fatalf("blank search issued %s?%s, want filter request", req.Path, req.Query)
	}
}

func TestController_SearchAndFilterAreExclusive(t *testing.T) {
	api := &fakeAPI{searched: []recipes.Recipe{recipeC}, filtered: []recipes.Recipe{recipeB}}
	c := NewController(api, nil)
	ctx := context.Background()

	_ = c.Filter(ctx, recipes.Filters{Cuisine: "French"})
	_ = c.Search(ctx, "pie")
	snap := c.Snapshot()
	if snap.Mode.Kind() != ModeSearched || !snap.Mode.Filters().IsEmpty() {
		t.Fatalf("search should drop filters, mode = %#v", snap.Mode)
	}

	// With the filter dropped, a blank search goes back to the full list.
	_ = c.Search(ctx, "")
	calls := api.Calls()
	if last := calls[len(calls)-1]; last != "ListAll" {
		t.Fatalf("last call = %q, want ListAll", last)
	}

	_ = c.Search(ctx, "pie")
	_ = c.Filter(ctx, recipes.Filters{MealType: "breakfast"})
	snap = c.Snapshot()
	if snap.Mode.Kind() != ModeFiltered || snap.Mode.Query() != "" {
		t.Fatalf("filter should drop query, mode = %#v", snap.Mode)
	}
}

func TestController_EmptyFilterLoads(t *testing.T) {
	api := &fakeAPI{all: []recipes.Recipe{recipeA}}
	c := NewController(api, nil)
	if err := c.Filter(context.Background(), recipes.Filters{}); err != nil {
		t.Fatalf("Filter returned error: %v", err)
	}
	if calls := api.Calls(); !reflect.DeepEqual(calls, []string{"ListAll"}) {
		t.Fatalf("calls = %v, want [ListAll]", calls)
	}
}

func TestController_ClearFiltersResetsModeBeforeLoad(t *testing.T) {
	api := &fakeAPI{filtered: []recipes.Recipe{recipeB}}
	c := NewController(api, nil)
	ctx := context.Background()

	_ = c.Filter(ctx, recipes.Filters{MealType: "breakfast"})
	api.err = errors.New("offline")
	_ = c.ClearFilters(ctx)

	snap := c.Snapshot()
	if snap.Mode.Kind() != ModeUnfiltered {
		t.Fatalf("mode = %v, want unfiltered even though the load failed", snap.Mode.Kind())
	}
	if got := recipeIDs(snap.Recipes); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("ids = %v, want collection kept on failure", got)
	}

	// The filter set is gone, so a blank search loads everything.
	api.err = nil
	_ = c.Search(ctx, " ")
	calls := api.Calls()
	if last := calls[len(calls)-1]; last != "ListAll" {
		t.Fatalf("last call = %q, want ListAll", last)
	}
}

func TestController_ReapplyRerunsCurrentMode(t *testing.T) {
	api := &fakeAPI{}
	c := NewController(api, nil)
	ctx := context.Background()

	_ = c.Reapply(ctx)
	_ = c.Search(ctx, "soup")
	_ = c.Reapply(ctx)
	_ = c.Filter(ctx, recipes.Filters{Cuisine: "Thai"})
	_ = c.Reapply(ctx)

	want := []string{"ListAll", "Search:soup", "Search:soup", "Filter:cuisine=Thai", "Filter:cuisine=Thai"}
	if got := api.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestController_CreatePrependsInEveryMode(t *testing.T) {
	srv := newSeededServer(t)
	ctx := context.Background()
	draft := recipes.Draft{Title: "Zucchini bread", MealType: "snack"}

	setups := map[string]func(*Controller) error{
		"unfiltered": func(c *Controller) error { return c.Load(ctx) },
		"searched":   func(c *Controller) error { return c.Search(ctx, "apple") },
		"filtered":   func(c *Controller) error { return c.Filter(ctx, recipes.Filters{MealType: "breakfast"}) },
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			c := newServerController(t, srv)
			if err := setup(c); err != nil {
				t.Fatalf("setup returned error: %v", err)
			}
			before := c.Snapshot()
			c.OpenCreateForm()

			if err := c.Create(ctx, draft); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			after := c.Snapshot()
			if len(after.Recipes) != len(before.Recipes)+1 {
				t.Fatalf("len = %d, want %d", len(after.Recipes), len(before.Recipes)+1)
			}
			if after.Recipes[0].Title != draft.Title || after.Recipes[0].ID == 0 {
				t.Fatalf("first = %#v, want created recipe", after.Recipes[0])
			}
			if !reflect.DeepEqual(recipeIDs(after.Recipes[1:]), recipeIDs(before.Recipes)) {
				t.Fatalf("rest = %v, want %v", recipeIDs(after.Recipes[1:]), recipeIDs(before.Recipes))
			}
			if after.Form.Open {
				t.Fatalf("form should close after create")
			}
			if after.Mode != before.Mode {
				t.Fatalf("mode changed from %#v to %#v", before.Mode, after.Mode)
			}
		})
	}
}

func TestController_CreateFailureKeepsFormOpen(t *testing.T) {
	c := NewController(&fakeAPI{err: errors.New("422")}, nil)
	c.OpenCreateForm()
	_ = c.Create(context.Background(), recipes.Draft{})
	if snap := c.Snapshot(); !snap.Form.Open {
		t.Fatalf("form should stay open after a failed create")
	}
}

func TestController_UpdateReplacesInPlace(t *testing.T) {
	updated := recipes.Recipe{ID: 2, Title: "B2", MealType: "brunch"}
	api := &fakeAPI{all: []recipes.Recipe{recipeA, recipeB, recipeC}, updated: updated}
	c := NewController(api, nil)
	ctx := context.Background()
	_ = c.Load(ctx)

	c.ShowDetail(recipeB)
	c.OpenEditForm(recipeB)
	if snap := c.Snapshot(); snap.Detail != nil || snap.Form.Editing == nil || snap.Form.Editing.ID != 2 {
		t.Fatalf("OpenEditForm should close detail and set Editing, got %#v", snap)
	}
	c.ShowDetail(recipeB)

	if err := c.Update(ctx, 2, updated.Draft()); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	snap := c.Snapshot()
	want := []recipes.Recipe{recipeA, updated, recipeC}
	if !reflect.DeepEqual(snap.Recipes, want) {
		t.Fatalf("recipes = %#v, want %#v", snap.Recipes, want)
	}
	if snap.Form.Open || snap.Detail != nil {
		t.Fatalf("update should close form and detail, got form=%v detail=%v", snap.Form.Open, snap.Detail)
	}
}

func TestController_DeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		api := &fakeAPI{all: []recipes.Recipe{recipeA, recipeB}}
		c := NewController(api, nil)
		_ = c.Load(ctx)
		if err := c.Delete(ctx, 2, func() bool { return true }); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if got := recipeIDs(c.Snapshot().Recipes); !reflect.DeepEqual(got, []int64{1}) {
			t.Fatalf("ids = %v, want [1]", got)
		}
	})

	for name, confirm := range map[string]func() bool{
		"denied": func() bool { return false },
		"nil":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{all: []recipes.Recipe{recipeA, recipeB}}
			c := NewController(api, nil)
			_ = c.Load(ctx)
			if err := c.Delete(ctx, 2, confirm); err != nil {
				t.Fatalf("Delete returned error: %v", err)
			}
			if got := recipeIDs(c.Snapshot().Recipes); !reflect.DeepEqual(got, []int64{1, 2}) {
				t.Fatalf("ids = %v, want unchanged [1 2]", got)
			}
			for _, call := range api.Calls() {
				if call == "Remove" {
					t.Fatalf("Remove must not be called without confirmation")
				}
			}
		})
	}
}

func TestController_DeleteUnknownIDLeavesCollection(t *testing.T) {
	api := &fakeAPI{all: []recipes.Recipe{recipeA, recipeB}}
	c := NewController(api, nil)
	ctx := context.Background()
	_ = c.Load(ctx)

	if err := c.Delete(ctx, 99, func() bool { return true }); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got := recipeIDs(c.Snapshot().Recipes); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("ids = %v, want [1 2]", got)
	}
}

func TestController_DeleteClosesMatchingDetailOnly(t *testing.T) {
	api := &fakeAPI{all: []recipes.Recipe{recipeA, recipeB, recipeC}}
	c := NewController(api, nil)
	ctx := context.Background()
	_ = c.Load(ctx)
	yes := func() bool { return true }

	c.ShowDetail(recipeA)
	_ = c.Delete(ctx, 2, yes)
	if snap := c.Snapshot(); snap.Detail == nil || snap.Detail.ID != 1 {
		t.Fatalf("detail for another recipe should stay open, got %#v", snap.Detail)
	}
	_ = c.Delete(ctx, 1, yes)
	if snap := c.Snapshot(); snap.Detail != nil {
		t.Fatalf("detail should close when its recipe is deleted")
	}
}

func TestController_MutationsDoNotRequery(t *testing.T) {
	srv := newSeededServer(t)
	c := newServerController(t, srv)
	ctx := context.Background()

	_ = c.Filter(ctx, recipes.Filters{MealType: "breakfast"})
	before := len(srv.Requests())

	if err := c.Create(ctx, recipes.Draft{Title: "Lasagna", MealType: "dinner"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got := len(srv.Requests()) - before; got != 1 {
		t.Fatalf("create issued %d requests, want 1", got)
	}
	snap := c.Snapshot()
	if snap.Recipes[0].Title != "Lasagna" {
		t.Fatalf("non-matching created recipe should stay visible until the next query")
	}
}

func TestController_LoadingOnlyForListQueries(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	api := &blockingAPI{fakeAPI: fakeAPI{all: []recipes.Recipe{recipeA}}, block: block, entered: entered}
	c := NewController(api, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Load(ctx) }()
	<-entered
	if !c.Snapshot().Loading {
		t.Fatalf("Loading should be set while a load is in flight")
	}
	close(block)
	if err := <-done; err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Snapshot().Loading {
		t.Fatalf("Loading should clear after load")
	}

	api.blockCreate = true
	api.block = make(chan struct{})
	go func() { done <- c.Create(ctx, recipes.Draft{Title: "x"}) }()
	<-entered
	if c.Snapshot().Loading {
		t.Fatalf("Loading must not be set for create")
	}
	close(api.block)
	<-done
}

type blockingAPI struct {
	fakeAPI
	block       chan struct{}
	entered     chan struct{}
	blockCreate bool
}

func (b *blockingAPI) ListAll(ctx context.Context) ([]recipes.Recipe, error) {
	b.entered <- struct{}{}
	<-b.block
	return b.fakeAPI.ListAll(ctx)
}

func (b *blockingAPI) Create(ctx context.Context, d recipes.Draft) (recipes.Recipe, error) {
	if b.blockCreate {
		b.entered <- struct{}{}
		<-b.block
	}
	return b.fakeAPI.Create(ctx, d)
}

func TestController_UIOnlyTransitions(t *testing.T) {
	c := NewController(&fakeAPI{}, nil)

	c.OpenCreateForm()
	if snap := c.Snapshot(); !snap.Form.Open || snap.Form.Editing != nil {
		t.Fatalf("OpenCreateForm = %#v", snap.Form)
	}
	c.CloseForm()
	if c.Snapshot().Form.Open {
		t.Fatalf("CloseForm left form open")
	}
	c.ShowDetail(recipeC)
	if snap := c.Snapshot(); snap.Detail == nil || snap.Detail.ID != 3 {
		t.Fatalf("ShowDetail = %#v", snap.Detail)
	}
	c.CloseDetail()
	if c.Snapshot().Detail != nil {
		t.Fatalf("CloseDetail left detail open")
	}
}

func TestMode_Label(t *testing.T) {
	cases := map[string]Mode{
		"All":                                Unfiltered(),
		"Search: soup":                       Searched("soup"),
		"Filter: meal_type=lunch cuisine=Thai": Filtered(recipes.Filters{MealType: "lunch", Cuisine: "Thai"}),
	}
	for want, mode := range cases {
		if got := mode.Label(); got != want {
			t.Fatalf("Label = %q, want %q", got, want)
		}
	}
	if !strings.HasPrefix(ModeFiltered.String(), "filter") {
		t.Fatalf("ModeFiltered.String() = %q", ModeFiltered.String())
	}
}
