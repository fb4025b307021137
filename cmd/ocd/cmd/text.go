package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/defaults"
	"github.com/davedittrich/ocd/internal/render"
	"github.com/davedittrich/ocd/internal/tokens"
)

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Work with text files",
}

// textAnalyzeCmd reports size, line and model token counts for files,
// which helps estimate API costs before submitting content.
var textAnalyzeCmd = &cobra.Command{
	Use:   "analyze FILE [FILE...]",
	Short: "Analyze one or more text files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		counter, err := tokens.NewCounter(defaults.TokenEncoding)
		if err != nil {
			return err
		}

		analyses := make([]*tokens.Analysis, 0, len(args))

		for _, filename := range args {
			analysis, err := tokens.AnalyzeFile(filename, counter)
			if err != nil {
				return err
			}

			analyses = append(analyses, analysis)
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, analyses)
		}

		rows := make([][]string, 0, len(analyses))
		for _, analysis := range analyses {
			rows = append(rows, []string{
				analysis.Name,
				analysis.Type,
				strconv.Itoa(analysis.Bytes),
				strconv.Itoa(analysis.Lines),
				strconv.Itoa(analysis.Tokens),
			})
		}

		return render.List(os.Stdout,
			[]string{"Name", "Type", "Bytes", "Lines", "Tokens"}, rows)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	textCmd.AddCommand(textAnalyzeCmd)
	rootCmd.AddCommand(textCmd)
}
