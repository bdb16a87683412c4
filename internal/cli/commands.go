package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"

	"github.com/five82/ladle/internal/app"
	"github.com/five82/ladle/internal/logtail"
	"github.com/five82/ladle/internal/recipes"
)

const noRecipes = "No recipes found."

// withSession opens a session, runs fn and closes the session again.
func withSession(cmd *cobra.Command, g *globals, fn func(ctx context.Context, s *app.Session) error) error {
	s, err := g.session(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, span := s.Tracer.Start(cmd.Context(), "ladle "+cmd.Name())
	defer span.End()

	if err := fn(ctx, s); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		attrs := []any{
			slog.String("command", cmd.Name()),
			slog.String("error", err.Error()),
		}
		if status := recipes.StatusCode(err); status > 0 {
			attrs = append(attrs, slog.Int("status", status))
		}
		s.Logger.Error("command failed", attrs...)
		return err
	}
	return nil
}

func newListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				list, err := s.Client.ListAll(ctx)
				if err != nil {
					return fmt.Errorf("list recipes: %w", err)
				}
				return render(cmd.OutOrStdout(), g, list, recipeRows(list, noRecipes))
			})
		},
	}
}

func newShowCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				r, err := s.Client.Get(ctx, id)
				if err != nil {
					return fmt.Errorf("get recipe %d: %w", id, err)
				}
				return render(cmd.OutOrStdout(), g, r, recipeDetailRows(r))
			})
		},
	}
}

func newSearchCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search recipes by free text",
		Long:  "Search recipes by free text. A blank query lists every recipe.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				var (
					list []recipes.Recipe
					err  error
				)
				if strings.TrimSpace(query) == "" {
					list, err = s.Client.ListAll(ctx)
				} else {
					list, err = s.Client.Search(ctx, query)
				}
				if err != nil {
					return fmt.Errorf("search recipes: %w", err)
				}
				return render(cmd.OutOrStdout(), g, list, recipeRows(list, noRecipes))
			})
		},
	}
}

func newFilterCommand(g *globals) *cobra.Command {
	var filters recipes.Filters
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter recipes by meal type and cuisine",
		Long:  "Filter recipes by meal type and cuisine. Without either flag every recipe is listed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := recipes.Filters{
				MealType: strings.TrimSpace(filters.MealType),
				Cuisine:  strings.TrimSpace(filters.Cuisine),
			}
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				var (
					list []recipes.Recipe
					err  error
				)
				if f.IsEmpty() {
					list, err = s.Client.ListAll(ctx)
				} else {
					list, err = s.Client.Filter(ctx, f)
				}
				if err != nil {
					return fmt.Errorf("filter recipes: %w", err)
				}
				return render(cmd.OutOrStdout(), g, list, recipeRows(list, noRecipes))
			})
		},
	}
	cmd.Flags().StringVar(&filters.MealType, "meal-type", "", "meal type to match")
	cmd.Flags().StringVar(&filters.Cuisine, "cuisine", "", "cuisine to match")
	return cmd
}

func newCreateCommand(g *globals) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Create a recipe from a YAML or JSON draft",
		Long: `Create a recipe from a YAML or JSON draft file ("-" reads stdin).

Draft keys: title, ingredients, instructions, meal_type, cuisine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var draft recipes.Draft
			if err := readDraft(cmd.InOrStdin(), file, &draft); err != nil {
				return err
			}
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				created, err := s.Client.Create(ctx, draft)
				if err != nil {
					return fmt.Errorf("create recipe: %w", err)
				}
				s.Logger.Info("recipe created", slog.Int64("id", created.ID))
				return render(cmd.OutOrStdout(), g, created, recipeDetailRows(created))
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "draft file (YAML or JSON, - for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUpdateCommand(g *globals) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update ID -f FILE",
		Short: "Update a recipe from a YAML or JSON draft",
		Long: `Update a recipe from a YAML or JSON draft file ("-" reads stdin).

Keys missing from the draft keep the recipe's current values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				current, err := s.Client.Get(ctx, id)
				if err != nil {
					return fmt.Errorf("get recipe %d: %w", id, err)
				}
				draft := current.Draft()
				if err := readDraft(cmd.InOrStdin(), file, &draft); err != nil {
					return err
				}
				updated, err := s.Client.Update(ctx, id, draft)
				if err != nil {
					return fmt.Errorf("update recipe %d: %w", id, err)
				}
				s.Logger.Info("recipe updated", slog.Int64("id", id))
				return render(cmd.OutOrStdout(), g, updated, recipeDetailRows(updated))
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "draft file (YAML or JSON, - for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteCommand(g *globals) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a recipe",
		Long:  "Delete a recipe. Asks for confirmation unless --yes is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				if !yes {
					r, err := s.Client.Get(ctx, id)
					if err != nil {
						return fmt.Errorf("get recipe %d: %w", id, err)
					}
					prompt := fmt.Sprintf("Delete recipe #%d %s? [y/N] ", r.ID, r.DisplayTitle())
					if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt) {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
						return nil
					}
				}
				if err := s.Client.Remove(ctx, id); err != nil {
					return fmt.Errorf("delete recipe %d: %w", id, err)
				}
				s.Logger.Info("recipe deleted", slog.Int64("id", id))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe #%d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

type optionKind int

const (
	optionMealTypes optionKind = iota
	optionCuisines
)

func newOptionsCommand(g *globals, use, short string, kind optionKind) *cobra.Command {
	header := "Meal Type"
	if kind == optionCuisines {
		header = "Cuisine"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, g, func(ctx context.Context, s *app.Session) error {
				fetch := s.Client.MealTypes
				if kind == optionCuisines {
					fetch = s.Client.Cuisines
				}
				options, err := fetch(ctx)
				if err != nil {
					return fmt.Errorf("list %s: %w", use, err)
				}
				values := recipes.OptionValues(options)
				return render(cmd.OutOrStdout(), g, values, valueRows(header, values, "None."))
			})
		},
	}
}

// logRecord is the structured form of a log entry for json and yaml output.
type logRecord struct {
	Time    string            `json:"time,omitempty"`
	Level   string            `json:"level"`
	Message string            `json:"msg"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

func newLogsCommand(g *globals) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of the diagnostics log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var minLevel slog.Level
			if err := minLevel.UnmarshalText([]byte(level)); err != nil {
				return fmt.Errorf("invalid level %q: %w", level, err)
			}
			return withSession(cmd, g, func(_ context.Context, s *app.Session) error {
				path := s.Config.LogPath
				if path == "" {
					return errors.New("diagnostics logging is disabled (log_path is empty)")
				}
				entries, err := logtail.Entries(path, lines, minLevel)
				if err != nil {
					return fmt.Errorf("read log: %w", err)
				}

				out := cmd.OutOrStdout()
				if g.output == formatTable && g.query == "" {
					for _, e := range entries {
						fmt.Fprintln(out, e.Format())
					}
					return nil
				}
				records := make([]logRecord, 0, len(entries))
				tab := tabular{headers: []string{"Time", "Level", "Message"}}
				for _, e := range entries {
					rec := logRecord{Level: e.Level.String(), Message: e.Message, Attrs: e.Attrs}
					if !e.Time.IsZero() {
						rec.Time = e.Time.Format("2006-01-02T15:04:05.000Z07:00")
					}
					records = append(records, rec)
					tab.rows = append(tab.rows, []string{rec.Time, rec.Level, rec.Message})
				}
				return render(out, g, records, tab)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to read from the end of the log")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level (debug/info/warn/error)")
	return cmd
}

// readDraft decodes a YAML or JSON draft from path ("-" for in) into draft.
// Keys absent from the file leave draft's fields untouched.
func readDraft(in io.Reader, path string, draft *recipes.Draft) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return errors.New("draft is empty")
	}
	// JSON is valid YAML, so one decoder covers both.
	if err := yaml.Unmarshal(data, draft); err != nil {
		return fmt.Errorf("parse draft: %w", err)
	}
	return nil
}

// confirm prints prompt and reports whether the answer starts with y.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
