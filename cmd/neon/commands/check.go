package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/livefir/neon/internal/compiler"
)

// checkResult is the JSON form of a template check.
type checkResult struct {
	Template     string   `json:"template"`
	Dependencies []string `json:"dependencies"`
	Bound        []string `json:"bound"`
	Diagnostics  []string `json:"diagnostics"`
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check <template>...",
		Short: "Compile templates and report their dependencies",
		Long: `Check compiles each template and lists the data keys it depends on,
the keys bound to form inputs and any diagnostics, such as unclosed blocks
or unknown partials.

Examples:
  neon check page.html
  neon check --strict --json templates/*.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := compiler.New(
				compiler.WithCache(compiler.NewCache()),
				compiler.WithPartials(a.partials),
				compiler.WithLogger(a.logger),
				compiler.WithCompileHook(a.metrics.RecordCompile),
			)

			results := make([]checkResult, 0, len(args))
			problems := 0
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read template: %w", err)
				}
				tmpl, err := c.Compile(string(src))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				res := checkResult{
					Template:     path,
					Dependencies: nonNil(tmpl.Dependencies()),
					Bound:        nonNil(tmpl.BoundDependencies()),
					Diagnostics:  []string{},
				}
				for _, d := range tmpl.Diagnostics() {
					res.Diagnostics = append(res.Diagnostics, d.String())
				}
				problems += len(res.Diagnostics)
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					fmt.Fprintln(out, headerStyle.Render(res.Template))
					fmt.Fprintf(out, "  dependencies: %s\n", list(res.Dependencies))
					fmt.Fprintf(out, "  bound:        %s\n", list(res.Bound))
					for _, d := range res.Diagnostics {
						fmt.Fprintf(out, "  %s %s\n", warnStyle.Render("warning"), d)
					}
				}
			}

			if strict && problems > 0 {
				return fmt.Errorf("%d diagnostic(s) reported", problems)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any diagnostic is reported")
	return cmd
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func list(s []string) string {
	if len(s) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(s, ", ")
}
