package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/livefir/neon/internal/diff"
	"github.com/livefir/neon/internal/dom"
)

// diffResult is the JSON form of a reconcile.
type diffResult struct {
	Type    diff.ChangeType `json:"type"`
	Stats   diff.Stats      `json:"stats"`
	Changes []diff.Change   `json:"changes"`
	HTML    string          `json:"html,omitempty"`
}

// reconcileInto reconciles fresh's children into live and collects the changes.
func reconcileInto(live, fresh *dom.Node) diffResult {
	res := diffResult{Changes: []diff.Change{}}
	_, res.Stats = diff.ReconcileStats(live, fresh, diff.Options{
		ChildrenOnly: true,
		Observer: func(c diff.Change) {
			res.Changes = append(res.Changes, c)
		},
	})
	res.Type = diff.Classify(res.Changes)
	return res
}

func writeDiff(w io.Writer, res diffResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	for _, c := range res.Changes {
		if err := printChange(w, c); err != nil {
			return err
		}
	}
	if err := printSummary(w, res.Changes, res.Stats); err != nil {
		return err
	}
	if res.HTML != "" {
		_, err := fmt.Fprintln(w, res.HTML)
		return err
	}
	return nil
}

func newDiffCmd(a *app) *cobra.Command {
	var (
		fromFile string
		toFile   string
		asJSON   bool
		withHTML bool
	)

	cmd := &cobra.Command{
		Use:   "diff <template>",
		Short: "Show the DOM changes between two data sets",
		Long: `Diff renders the template with the --from data, then reconciles the
rendering of the --to data into it and prints every change applied to the
live tree, followed by a summary.

Examples:
  neon diff list.html --from before.yaml --to after.yaml
  neon diff list.html --to after.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.mount(args[0], fromFile)
			if err != nil {
				return err
			}
			defer from.Close()

			to, err := a.mount(args[0], toFile)
			if err != nil {
				return err
			}
			defer to.Close()

			res := reconcileInto(from.Root(), to.Root())
			a.metrics.RecordReconcile(res.Stats)
			if withHTML {
				res.HTML = from.HTML()
			}
			a.logger.Debug("diffed template", "template", args[0], "changes", len(res.Changes), "type", res.Type)

			return writeDiff(cmd.OutOrStdout(), res, asJSON)
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "YAML data rendered first (default empty)")
	cmd.Flags().StringVar(&toFile, "to", "", "YAML data reconciled into the first rendering")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&withHTML, "html", false, "print the reconciled markup")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
