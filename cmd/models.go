package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/particle-life-field/internal/mood"
)

func newModelsCmd(a *app) *cobra.Command {
	var useCase string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models offered by the local inference server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := mood.NewModelClient(a.cfg.Mood.ModelsURL, a.cfg.Mood.ModelsTimeout)
			models, err := client.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing models: %w", err)
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFAMILY\tOWNER")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.DisplayName(), m.OwnedBy)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if useCase != "" {
				if m, ok := mood.Recommend(models, useCase); ok {
					fmt.Fprintf(out, "\nrecommended for %s: %s\n", useCase, m.ID)
				} else {
					fmt.Fprintf(out, "\nno models available for %s\n", useCase)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&useCase, "use-case", "", "recommend a model for: speed, reasoning or creativity")
	cmd.Flags().String("models-url", "", "OpenAI-style model listing URL")
	return cmd
}
