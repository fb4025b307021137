package cmd

import "github.com/spf13/cobra"

// usageCmd opens the account usage page, which has no API endpoint.
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Open the OpenAI account page to see usage details",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return openPage(openaiBase + "/account/usage")
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(usageCmd)
}
