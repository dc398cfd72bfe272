package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpcoutinho/vitae/internal/config"
	"github.com/mpcoutinho/vitae/internal/content"
	"github.com/mpcoutinho/vitae/internal/importer"
	"github.com/mpcoutinho/vitae/internal/prefs"
	"github.com/mpcoutinho/vitae/internal/resume"
	"github.com/mpcoutinho/vitae/internal/search"
	"github.com/mpcoutinho/vitae/internal/storage"
)

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Parse content documents and report advisory notes",
	Long: `Parse content documents and report advisory notes.

Parsing is lenient: problems never abort, they surface as notes and
the affected entry is dropped. Files named projects.*.md are parsed as
project portfolios, everything else as a résumé.

Examples:
  vitae validate content/resume.en.md
  vitae validate content/*.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clean := true
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			var notes []string
			if isProjectsFile(path) {
				res := resume.ParseProjects(string(data))
				notes = res.Errors
				printStatus(filepath.Base(path), "%d projects", len(res.Projects))
			} else {
				res := resume.ParseResume(string(data))
				notes = res.Errors
				printStatus(filepath.Base(path), "%d experience, %d education, %d skill categories",
					len(res.Data.Experience), len(res.Data.Education), len(res.Data.Skills))
			}

			for _, n := range notes {
				printWarning("%s: %s", filepath.Base(path), n)
				clean = false
			}
		}
		if clean {
			printSuccess("All documents parsed without notes")
		}
		return nil
	},
}

func isProjectsFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "projects.")
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export parsed content as JSON or normalized markdown",
	Long: `Export parsed content as JSON or normalized markdown.

Markdown output re-serializes the parsed data, which normalizes
spacing and label forms without losing any field.

Examples:
  vitae export --lang en --format json
  vitae export --lang pt --format markdown --output resume.pt.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		b, err := loadBundle(lang)
		if err != nil {
			return err
		}

		var out string
		switch format {
		case "json":
			data, err := json.MarshalIndent(map[string]any{
				"resume":   b.Resume,
				"projects": b.Projects,
			}, "", "  ")
			if err != nil {
				return err
			}
			out = string(data) + "\n"
		case "markdown":
			out = resume.WriteResume(b.Resume)
		default:
			return fmt.Errorf("unknown format %q (want json or markdown)", format)
		}

		if output == "" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		printSuccess("Exported %s content to %s", b.Lang, output)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("lang", "", "language to export (default: site default)")
	exportCmd.Flags().String("format", "json", "output format: json or markdown")
	exportCmd.Flags().String("output", "", "output file path (default: stdout)")
}

// loadBundle parses the configured content directory directly, without
// a running server.
func loadBundle(lang string) (content.Bundle, error) {
	cfg, err := config.Load()
	if err != nil {
		return content.Bundle{}, err
	}
	if lang == "" {
		lang = cfg.Site.DefaultLanguage
	}

	lib := content.NewLibrary(cfg.Content.Dir, cfg.LanguageList())
	if err := lib.Load(context.Background()); err != nil {
		return content.Bundle{}, err
	}
	return lib.Bundle(lang)
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the project portfolio",
	Long: `Search the project portfolio with a free-text query and facet
filters. Facet flags repeat; values within one facet combine with OR,
different facets combine with AND.

Examples:
  vitae search checkout
  vitae search --industry Healthcare --technology Go
  vitae search dashboard --lang pt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		industries, _ := cmd.Flags().GetStringArray("industry")
		technologies, _ := cmd.Flags().GetStringArray("technology")
		projectTypes, _ := cmd.Flags().GetStringArray("project-type")
		clientTypes, _ := cmd.Flags().GetStringArray("client-type")

		b, err := loadBundle(lang)
		if err != nil {
			return err
		}

		f := search.ProjectFilter{
			Query:        strings.Join(args, " "),
			Industries:   industries,
			Technologies: technologies,
			ProjectTypes: projectTypes,
			ClientTypes:  clientTypes,
		}
		matched := search.FilterProjects(b.Projects, f)

		if len(matched) == 0 {
			fmt.Println("No projects found.")
			return nil
		}
		for _, p := range matched {
			fmt.Printf("\n%s\n", colorize(colorBold, p.Title))
			if p.Industry != "" || p.ProjectType != "" {
				fmt.Printf("  %s\n", strings.TrimSpace(p.Industry+"  "+p.ProjectType))
			}
			if p.Result != "" {
				fmt.Printf("  %s\n", p.Result)
			}
			if len(p.Technologies) > 0 {
				fmt.Printf("  %s\n", colorize(colorCyan, strings.Join(p.Technologies, ", ")))
			}
		}
		fmt.Printf("\n%d of %d projects\n", len(matched), len(b.Projects))
		return nil
	},
}

func init() {
	searchCmd.Flags().String("lang", "", "language to search (default: site default)")
	searchCmd.Flags().StringArray("industry", nil, "industry facet filter (repeatable)")
	searchCmd.Flags().StringArray("technology", nil, "technology facet filter (repeatable)")
	searchCmd.Flags().StringArray("project-type", nil, "project type facet filter (repeatable)")
	searchCmd.Flags().StringArray("client-type", nil, "client type facet filter (repeatable)")
}

// --- lang ---

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or set the site default language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		mgr := prefs.NewManager(store, cfg.LanguageList(), cfg.Site.DefaultLanguage)

		if len(args) == 0 {
			lang, err := mgr.DefaultLang()
			if err != nil {
				return err
			}
			printStatus("Default language", "%s", lang)
			printStatus("Available", "%s", strings.Join(mgr.Languages(), ", "))
			return nil
		}

		if err := mgr.SetDefaultLang(args[0]); err != nil {
			return err
		}
		printSuccess("Default language set to %s", args[0])
		return nil
	},
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Convert a PDF or HTML résumé into a draft markdown document",
	Long: `Convert a PDF or HTML résumé into a draft markdown document.

The draft follows the same conventions the server parses, but section
and field detection is heuristic: review and edit the output before
publishing it.

Examples:
  vitae import old-resume.pdf --output content/resume.en.md
  vitae import linkedin-export.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		draft, err := importer.FromFile(args[0])
		if err != nil {
			return err
		}

		if output == "" {
			fmt.Print(draft)
			return nil
		}
		if err := os.WriteFile(output, []byte(draft), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		printSuccess("Draft written to %s", output)

		res := resume.ParseResume(draft)
		for _, n := range res.Errors {
			printWarning("%s", n)
		}
		printStep("Review the draft before publishing it to the content directory")
		return nil
	},
}

func init() {
	importCmd.Flags().String("output", "", "output file path (default: stdout)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
