package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/render"
)

var fineTuneCmd = &cobra.Command{
	Use:   "fine-tune",
	Short: "Inspect fine-tuning jobs",
}

var fineTuneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fine-tuning jobs",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := commandContext()
		defer stop()

		jobs, err := newClient().ListFineTuningJobs(ctx)
		if err != nil {
			return err
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, jobs)
		}

		rows := make([][]string, 0, len(jobs))
		for _, job := range jobs {
			rows = append(rows, []string{
				job.ID,
				job.Model,
				job.FineTunedModel,
				job.Status,
				formatUnixTime(job.CreatedAt),
			})
		}

		return render.List(os.Stdout,
			[]string{"ID", "Model", "Fine-Tuned Model", "Status", "Created"}, rows)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	fineTuneCmd.AddCommand(fineTuneListCmd)
	rootCmd.AddCommand(fineTuneCmd)
}
