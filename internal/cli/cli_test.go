package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/ladle/internal/logtail"
	"github.com/five82/ladle/internal/recipes"
	"github.com/five82/ladle/internal/recipes/recipestest"
)

func seed() []recipes.Recipe {
	return []recipes.Recipe{
		{ID: 1, Title: "Pancakes", Ingredients: "flour, eggs", Instructions: "Fry.", MealType: "breakfast", Cuisine: "American"},
		{ID: 2, Title: "Pad Thai", Ingredients: "noodles", Instructions: "Stir fry.", MealType: "dinner", Cuisine: "Thai"},
	}
}

type result struct {
	out    string
	errOut string
	err    error
}

// run executes the command tree against srv with a config that disables the
// diagnostics log unless configBody says otherwise.
func run(t *testing.T, srv *recipestest.Server, stdin, configBody string, args ...string) result {
	t.Helper()
	t.Setenv("LADLE_API_URL", "")
	if configBody == "" {
		configBody = `log_path = ""`
	}
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte(configBody+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := NewRootCommand("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath, "--api", srv.URL}, args...))

	err := cmd.ExecuteContext(context.Background())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func newServer(t *testing.T, list ...recipes.Recipe) *recipestest.Server {
	t.Helper()
	srv := recipestest.NewServer(list...)
	t.Cleanup(srv.Close)
	return srv
}

func decodeRecipes(t *testing.T, data string) []recipes.Recipe {
	t.Helper()
	var list []recipes.Recipe
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		t.Fatalf("decode output %q: %v", data, err)
	}
	return list
}

func TestList_Formats(t *testing.T) {
	srv := newServer(t, seed()...)

	res := run(t, srv, "", "", "list", "-o", "json")
	if res.err != nil {
		t.Fatalf("list returned error: %v", res.err)
	}
	if got := decodeRecipes(t, res.out); len(got) != 2 || got[0].Title != "Pancakes" {
		t.Fatalf("list json = %+v", got)
	}

	res = run(t, srv, "", "", "list")
	for _, want := range []string{"ID", "Title", "Pancakes", "Pad Thai", "breakfast"} {
		if !strings.Contains(res.out, want) {
			t.Fatalf("table output missing %q:\n%s", want, res.out)
		}
	}

	res = run(t, srv, "", "", "list", "-o", "yaml")
	if !strings.Contains(res.out, "title: Pancakes") || !strings.Contains(res.out, "meal_type: dinner") {
		t.Fatalf("yaml output = %q", res.out)
	}

	res = run(t, srv, "", "", "list", "-o", "csv")
	rows, err := csv.NewReader(strings.NewReader(res.out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	want := [][]string{
		{"ID", "Title", "Meal Type", "Cuisine"},
		{"1", "Pancakes", "breakfast", "American"},
		{"2", "Pad Thai", "dinner", "Thai"},
	}
	if len(rows) != len(want) {
		t.Fatalf("csv rows = %v, want %v", rows, want)
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Fatalf("csv row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestList_EmptyTable(t *testing.T) {
	srv := newServer(t)

	res := run(t, srv, "", "", "list")
	if res.err != nil {
		t.Fatalf("list returned error: %v", res.err)
	}
	if strings.TrimSpace(res.out) != noRecipes {
		t.Fatalf("output = %q, want %q", res.out, noRecipes)
	}
}

func TestList_JMESPathQuery(t *testing.T) {
	srv := newServer(t, seed()...)

	res := run(t, srv, "", "", "list", "-q", "[?cuisine=='Thai'].title")
	if res.err != nil {
		t.Fatalf("list returned error: %v", res.err)
	}
	var titles []string
	if err := json.Unmarshal([]byte(res.out), &titles); err != nil {
		t.Fatalf("decode %q: %v", res.out, err)
	}
	if len(titles) != 1 || titles[0] != "Pad Thai" {
		t.Fatalf("titles = %v, want [Pad Thai]", titles)
	}

	res = run(t, srv, "", "", "list", "-q", "[?")
	if res.err == nil || !strings.Contains(res.err.Error(), "invalid JMESPath") {
		t.Fatalf("err = %v, want invalid JMESPath error", res.err)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	srv := newServer(t, seed()...)

	res := run(t, srv, "", "", "list", "-o", "xml")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown output format") {
		t.Fatalf("err = %v", res.err)
	}
	if got := len(srv.Requests()); got != 0 {
		t.Fatalf("requests = %d, want none before validation passes", got)
	}
}

func TestSearchAndFilter(t *testing.T) {
	srv := newServer(t, seed()...)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"search", []string{"search", "pad"}, []string{"Pad Thai"}},
		{"search words", []string{"search", "pad", "thai"}, []string{"Pad Thai"}},
		{"blank search lists all", []string{"search", " "}, []string{"Pancakes", "Pad Thai"}},
		{"meal type", []string{"filter", "--meal-type", "breakfast"}, []string{"Pancakes"}},
		{"cuisine", []string{"filter", "--cuisine", "Thai"}, []string{"Pad Thai"}},
		{"both no match", []string{"filter", "--meal-type", "breakfast", "--cuisine", "Thai"}, nil},
		{"no flags lists all", []string{"filter"}, []string{"Pancakes", "Pad Thai"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, srv, "", "", append(tt.args, "-o", "json")...)
			if res.err != nil {
				t.Fatalf("%v returned error: %v", tt.args, res.err)
			}
			got := decodeRecipes(t, res.out)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d recipes, want %v", len(got), tt.want)
			}
			for i, r := range got {
				if r.Title != tt.want[i] {
					t.Fatalf("recipe %d = %q, want %q", i, r.Title, tt.want[i])
				}
			}
		})
	}
}

func TestShow(t *testing.T) {
	srv := newServer(t, seed()...)

	res := run(t, srv, "", "", "show", "2")
	if res.err != nil {
		t.Fatalf("show returned error: %v", res.err)
	}
	for _, want := range []string{"Pad Thai", "noodles", "Stir fry."} {
		if !strings.Contains(res.out, want) {
			t.Fatalf("show output missing %q:\n%s", want, res.out)
		}
	}

	res = run(t, srv, "", "", "show", "99")
	if !errors.Is(res.err, recipes.ErrNotFound) {
		t.Fatalf("show 99 err = %v, want ErrNotFound", res.err)
	}

	res = run(t, srv, "", "", "show", "abc")
	if res.err == nil || !strings.Contains(res.err.Error(), "invalid recipe id") {
		t.Fatalf("show abc err = %v", res.err)
	}
}

func TestCreateFromStdin(t *testing.T) {
	srv := newServer(t, seed()...)

	draft := "title: Soup\ningredients: water, salt\ninstructions: Boil.\nmeal_type: lunch\n"
	res := run(t, srv, draft, "", "create", "-f", "-", "-o", "json")
	if res.err != nil {
		t.Fatalf("create returned error: %v", res.err)
	}
	var created recipes.Recipe
	if err := json.Unmarshal([]byte(res.out), &created); err != nil {
		t.Fatalf("decode %q: %v", res.out, err)
	}
	if created.ID != 3 || created.Title != "Soup" || created.MealType != "lunch" {
		t.Fatalf("created = %+v", created)
	}
	if got := len(srv.Recipes()); got != 3 {
		t.Fatalf("server recipes = %d, want 3", got)
	}
}

func TestCreateFromJSONFile(t *testing.T) {
	srv := newServer(t)

	path := filepath.Join(t.TempDir(), "draft.json")
	body := `{"title": "Tacos", "ingredients": "tortillas", "instructions": "Fill.", "cuisine": "Mexican"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res := run(t, srv, "", "", "create", "-f", path)
	if res.err != nil {
		t.Fatalf("create returned error: %v", res.err)
	}
	stored := srv.Recipes()
	if len(stored) != 1 || stored[0].Cuisine != "Mexican" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestCreateRequiresFile(t *testing.T) {
	srv := newServer(t)

	if res := run(t, srv, "", "", "create"); res.err == nil {
		t.Fatalf("expected error without -f")
	}
	if res := run(t, srv, "   ", "", "create", "-f", "-"); res.err == nil {
		t.Fatalf("expected error for empty draft")
	}
}

func TestUpdateMergesDraft(t *testing.T) {
	srv := newServer(t, seed()...)

	res := run(t, srv, "title: Pad Thai Deluxe\n", "", "update", "2", "-f", "-", "-o", "json")
	if res.err != nil {
		t.Fatalf("update returned error: %v", res.err)
	}
	stored := srv.Recipes()
	if len(stored) != 2 {
		t.Fatalf("stored = %d recipes, want 2", len(stored))
	}
	got := stored[1]
	if got.Title != "Pad Thai Deluxe" || got.Instructions != "Stir fry." || got.Cuisine != "Thai" {
		t.Fatalf("updated = %+v, want title changed and other fields kept", got)
	}
}

func TestUpdateBackendFailure(t *testing.T) {
	srv := newServer(t, seed()...)
	srv.Fail("PUT /recipes/:id", 422)

	res := run(t, srv, "title: x\n", "", "update", "1", "-f", "-")
	if got := recipes.StatusCode(res.err); got != 422 {
		t.Fatalf("status = %d (err %v), want 422", got, res.err)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantLeft  int
		wantInOut string
	}{
		{"denied", "n\n", []string{"delete", "1"}, 2, "Cancelled."},
		{"no answer", "", []string{"delete", "1"}, 2, "Cancelled."},
		{"confirmed", "y\n", []string{"delete", "1"}, 1, "Deleted recipe #1"},
		{"confirmed yes", "YES\n", []string{"delete", "1"}, 1, "Deleted recipe #1"},
		{"flag", "", []string{"delete", "1", "--yes"}, 1, "Deleted recipe #1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, seed()...)
			res := run(t, srv, tt.stdin, "", tt.args...)
			if res.err != nil {
				t.Fatalf("delete returned error: %v", res.err)
			}
			if got := len(srv.Recipes()); got != tt.wantLeft {
				t.Fatalf("recipes left = %d, want %d", got, tt.wantLeft)
			}
			if !strings.Contains(res.out, tt.wantInOut) {
				t.Fatalf("output = %q, want %q", res.out, tt.wantInOut)
			}
		})
	}
}

func TestDeletePromptNamesRecipe(t *testing.T) {
	srv := newServer(t, seed()...)

	res := run(t, srv, "n\n", "", "delete", "2")
	if !strings.Contains(res.errOut, "Delete recipe #2 Pad Thai? [y/N]") {
		t.Fatalf("prompt = %q", res.errOut)
	}
}

func TestOptionCommands(t *testing.T) {
	srv := newServer(t, seed()...)

	res := run(t, srv, "", "", "meal-types", "-o", "json")
	if res.err != nil {
		t.Fatalf("meal-types returned error: %v", res.err)
	}
	var values []string
	if err := json.Unmarshal([]byte(res.out), &values); err != nil {
		t.Fatalf("decode %q: %v", res.out, err)
	}
	if strings.Join(values, ",") != "breakfast,dinner" {
		t.Fatalf("meal types = %v", values)
	}

	res = run(t, srv, "", "", "cuisines")
	if !strings.Contains(res.out, "Cuisine") || !strings.Contains(res.out, "American") {
		t.Fatalf("cuisines table = %q", res.out)
	}
}

func TestLogsCommand(t *testing.T) {
	srv := newServer(t, seed()...)

	logPath := filepath.Join(t.TempDir(), "ladle.log")
	lines := `{"time":"2026-03-01T10:00:00Z","level":"DEBUG","msg":"request sent"}` + "\n" +
		`{"time":"2026-03-01T10:00:01Z","level":"ERROR","msg":"recipe action failed","action":"fetch"}` + "\n"
	if err := os.WriteFile(logPath, []byte(lines), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg := `log_path = "` + logPath + `"`

	res := run(t, srv, "", cfg, "logs", "--level", "error")
	if res.err != nil {
		t.Fatalf("logs returned error: %v", res.err)
	}
	if strings.Contains(res.out, "request sent") || !strings.Contains(res.out, "recipe action failed action=fetch") {
		t.Fatalf("logs output = %q", res.out)
	}

	res = run(t, srv, "", cfg, "logs", "-o", "json", "-n", "1")
	var records []logRecord
	if err := json.Unmarshal([]byte(res.out), &records); err != nil {
		t.Fatalf("decode %q: %v", res.out, err)
	}
	if len(records) != 1 || records[0].Level != "ERROR" || records[0].Attrs["action"] != "fetch" {
		t.Fatalf("records = %+v", records)
	}
}

func TestLogsDisabled(t *testing.T) {
	srv := newServer(t)

	res := run(t, srv, "", "", "logs")
	if res.err == nil || !strings.Contains(res.err.Error(), "disabled") {
		t.Fatalf("err = %v, want disabled error", res.err)
	}
}

func TestCommandFailureLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ladle.log")
	cfg := `log_path = "` + logPath + `"`

	srv := newServer(t, seed()...)
	if res := run(t, srv, "", cfg, "show", "99"); !errors.Is(res.err, recipes.ErrNotFound) {
		t.Fatalf("show 99 err = %v, want not found", res.err)
	}

	down := recipestest.NewServer()
	down.Close()
	if res := run(t, down, "", cfg, "list"); res.err == nil {
		t.Fatalf("list against a stopped backend should fail")
	}

	entries, err := logtail.Entries(logPath, 100, slog.LevelError)
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	var failures []logtail.Entry
	for _, e := range entries {
		if e.Message == "command failed" {
			failures = append(failures, e)
		}
	}
	if len(failures) != 2 {
		t.Fatalf("command failures logged = %d, want 2: %+v", len(failures), entries)
	}
	if got := failures[0].Attrs["status"]; got != "404" {
		t.Fatalf("show failure status = %q, want 404", got)
	}
	if got, ok := failures[1].Attrs["status"]; ok {
		t.Fatalf("network failure logged status %q, want none", got)
	}
	if got := failures[1].Attrs["command"]; got != "list" {
		t.Fatalf("network failure command = %q, want list", got)
	}
}

func TestCommandSpan(t *testing.T) {
	srv := newServer(t, seed()...)
	tracePath := filepath.Join(t.TempDir(), "trace.json")
	cfg := "log_path = \"\"\ntrace = true\ntrace_path = \"" + tracePath + "\""

	if res := run(t, srv, "", cfg, "list", "-o", "json"); res.err != nil {
		t.Fatalf("list returned error: %v", res.err)
	}

	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"ladle list"`) {
		t.Fatalf("trace file missing command span: %s", data)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{" 12 ", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"12abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("parseID(%q) = %d, %v; want %d, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
