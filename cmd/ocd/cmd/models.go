package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/render"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect available models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available models",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := commandContext()
		defer stop()

		models, err := newClient().ListModels(ctx)
		if err != nil {
			return err
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, models)
		}

		rows := make([][]string, 0, len(models))
		for _, model := range models {
			rows = append(rows, []string{
				model.ID,
				formatUnixTime(model.Created),
				model.OwnedBy,
			})
		}

		return render.List(os.Stdout, []string{"ID", "Created", "Owned By"}, rows)
	},
}

var modelsRetrieveCmd = &cobra.Command{
	Use:   "retrieve MODEL_ID",
	Short: "Show details about a single model",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, stop := commandContext()
		defer stop()

		model, err := newClient().RetrieveModel(ctx, args[0])
		if err != nil {
			return err
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, model)
		}

		return render.FieldValue(os.Stdout,
			[]string{"id", "created", "owned_by"},
			[]string{
				model.ID,
				strconv.FormatInt(model.Created, 10),
				model.OwnedBy,
			})
	},
}

var modelsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Open the models overview documentation page",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return openPage(openaiDocsBase + "/models/overview")
	},
}

// formatUnixTime renders a Unix timestamp for table output.
func formatUnixTime(seconds int64) string {
	if seconds == 0 {
		return ""
	}

	return time.Unix(seconds, 0).UTC().Format(time.DateOnly)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	modelsCmd.AddCommand(modelsListCmd, modelsRetrieveCmd, modelsOverviewCmd)
	rootCmd.AddCommand(modelsCmd)
}
