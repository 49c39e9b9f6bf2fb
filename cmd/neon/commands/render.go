package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template with YAML data",
		Long: `Render compiles the template, mounts it with the data file and writes
the resulting markup to stdout.

Examples:
  neon render page.html
  neon render page.html --data data.yaml --minify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.mount(args[0], dataFile)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			if err := c.WriteHTML(out); err != nil {
				return fmt.Errorf("failed to write markup: %w", err)
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML data file")
	cmd.Flags().Bool("minify", false, "minify the rendered markup")
	return cmd
}
