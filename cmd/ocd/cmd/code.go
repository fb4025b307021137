package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/api"
	"github.com/davedittrich/ocd/internal/logger"
)

var (
	docstringModelID     string
	docstringTemperature float64
	docstringMaxTokens   int64
	docstringSource      string
	docstringDestination string
)

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Code-oriented commands",
}

// codeDocstringCmd generates a docstring for Python code. It works like
// a filter by default, reading code from standard input and writing the
// docstring to standard output.
var codeDocstringCmd = &cobra.Command{
	Use:   "docstring",
	Short: "Create a docstring for Python code",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := commandContext()
		defer stop()

		var (
			source []byte
			err    error
		)

		if docstringSource == "-" {
			source, err = io.ReadAll(os.Stdin)
		} else {
			source, err = os.ReadFile(docstringSource)
		}

		if err != nil {
			return fmt.Errorf("read source code: %w", err)
		}

		completion, err := newClient().CreateChat(ctx, &api.ChatRequest{
			ModelID: docstringModelID,
			Instruction: "Write an elaborate, high quality docstring for the " +
				"given Python code. Respond with only the docstring body, " +
				"without surrounding quotes.",
			Input:       string(source),
			Temperature: docstringTemperature,
			MaxTokens:   docstringMaxTokens,
		})
		if err != nil {
			return err
		}

		if reason := completion.Choices[0].FinishReason; reason != "stop" {
			logger.InfoKV(ctx, "Completion did not stop normally", "finish_reason", reason)
		}

		result := fmt.Sprintf("\"\"\"\n%s\n\"\"\"\n", completion.FirstText())

		if docstringDestination == "-" {
			fmt.Print(result)
			return nil
		}

		if err = os.WriteFile(docstringDestination, []byte(result), 0o644); err != nil {
			return fmt.Errorf("write docstring: %w", err)
		}

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	d := loadedDefaults()

	flags := codeDocstringCmd.Flags()
	flags.StringVarP(&docstringModelID, "model", "m", d.CodeModelID, "ID of the model to use")
	flags.Float64Var(&docstringTemperature, "temperature", d.CodeTemperature, "sampling temperature to use")
	flags.Int64Var(&docstringMaxTokens, "max-tokens", d.CodeMaxTokens, "maximum tokens")
	flags.StringVar(&docstringSource, "source", "-", "read code from a source file instead of stdin")
	flags.StringVar(&docstringDestination, "destination", "-", "write the docstring to a file instead of stdout")

	codeCmd.AddCommand(codeDocstringCmd)
	rootCmd.AddCommand(codeCmd)
}
