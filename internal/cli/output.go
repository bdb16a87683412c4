package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jmespath/go-jmespath"
	"gopkg.in/yaml.v3"

	"github.com/five82/ladle/internal/recipes"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML, formatCSV:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, yaml or csv)", format)
	}
}

// tabular is the row form of a result, used by the table and csv formats.
type tabular struct {
	headers []string
	rows    [][]string
	empty   string // printed instead of an empty table
}

// render writes value in the selected output format. With --query the
// expression runs over the JSON form of value and the result is printed as
// YAML when -o yaml is set, otherwise as JSON.
func render(w io.Writer, g *globals, value any, tab tabular) error {
	if g.query != "" {
		result, err := applyQuery(value, g.query)
		if err != nil {
			return err
		}
		if g.output == formatYAML {
			return writeYAML(w, result)
		}
		return writeJSON(w, result)
	}

	switch g.output {
	case formatJSON:
		return writeJSON(w, value)
	case formatYAML:
		generic, err := toGeneric(value)
		if err != nil {
			return err
		}
		return writeYAML(w, generic)
	case formatCSV:
		return writeCSV(w, tab)
	default:
		return writeTable(w, tab)
	}
}

// toGeneric round-trips value through JSON so YAML output carries the same
// keys as JSON output, including fields the client does not model.
func toGeneric(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return generic, nil
}

func applyQuery(value any, expression string) (any, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression %q: %w", expression, err)
	}
	data, err := toGeneric(value)
	if err != nil {
		return nil, err
	}
	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

func writeJSON(w io.Writer, value any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeCSV(w io.Writer, tab tabular) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tab.headers); err != nil {
		return err
	}
	if err := cw.WriteAll(tab.rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, tab tabular) error {
	if len(tab.rows) == 0 && tab.empty != "" {
		_, err := fmt.Fprintln(w, tab.empty)
		return err
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(tab.headers...).
		Rows(tab.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func recipeRows(list []recipes.Recipe, empty string) tabular {
	tab := tabular{
		headers: []string{"ID", "Title", "Meal Type", "Cuisine"},
		rows:    make([][]string, 0, len(list)),
		empty:   empty,
	}
	for _, r := range list {
		tab.rows = append(tab.rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.DisplayTitle(),
			r.MealType,
			r.Cuisine,
		})
	}
	return tab
}

func recipeDetailRows(r recipes.Recipe) tabular {
	tab := tabular{
		headers: []string{"Field", "Value"},
		rows: [][]string{
			{"id", strconv.FormatInt(r.ID, 10)},
			{"title", r.DisplayTitle()},
			{"meal_type", r.MealType},
			{"cuisine", r.Cuisine},
			{"ingredients", strings.Join(r.IngredientList(), "\n")},
			{"instructions", strings.TrimSpace(r.Instructions)},
		},
	}
	for _, key := range sortedKeys(r.Extra) {
		tab.rows = append(tab.rows, []string{key, string(r.Extra[key])})
	}
	return tab
}

func valueRows(header string, values []string, empty string) tabular {
	tab := tabular{headers: []string{header}, empty: empty}
	for _, v := range values {
		tab.rows = append(tab.rows, []string{v})
	}
	return tab
}
