package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/api"
	"github.com/davedittrich/ocd/internal/render"
)

// aboutCmd reports API access settings for situational awareness:
// whether a key is set, whether it is accepted, and the organization.
var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "About OpenAI API access settings",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := commandContext()
		defer stop()

		keySet := api.HasAPIKey()
		accessGranted := false

		if keySet {
			_, err := newClient().ListModels(ctx)
			if err != nil && !api.IsAuthenticationError(err) {
				return err
			}

			accessGranted = err == nil
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, map[string]any{
				"api_key_set":        keySet,
				"api_access_granted": accessGranted,
				"organization":       organization,
			})
		}

		return render.FieldValue(os.Stdout,
			[]string{"api_key_set", "api_access_granted", "organization"},
			[]string{
				strconv.FormatBool(keySet),
				strconv.FormatBool(accessGranted),
				organization,
			})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(aboutCmd)
}
