package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/api"
	"github.com/davedittrich/ocd/internal/render"
)

var (
	completionModelID     string
	completionPrompt      string
	completionSuffix      string
	completionMaxTokens   int64
	completionTemperature float64
	completionEcho        bool
	completionAll         bool
	completionUsage       bool
)

var completionsCmd = &cobra.Command{
	Use:   "completions",
	Short: "Generate text completions",
}

// completionsCreateCmd creates a completion from a prompt. Trailing
// whitespace is trimmed from the prompt because it impacts tokenization.
var completionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a completion from a prompt using a model",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if completionAll && completionUsage {
			return errExclusiveOutputFlags
		}

		ctx, stop := commandContext()
		defer stop()

		prompt := strings.TrimRight(completionPrompt, " \t\r\n")

		completion, err := newClient().CreateCompletion(ctx, &api.CompletionRequest{
			ModelID:     completionModelID,
			Prompt:      prompt,
			Suffix:      completionSuffix,
			MaxTokens:   completionMaxTokens,
			Temperature: completionTemperature,
			Echo:        completionEcho,
		})
		if err != nil {
			return err
		}

		if completionEcho {
			fmt.Println(completion.FirstText())
			return nil
		}

		return renderCompletion(prompt, "", completion, completionAll, completionUsage)
	},
}

// renderCompletion writes a completion result as a field/value table or
// JSON, shared by the completion and edit commands.
func renderCompletion(prompt, instruction string, completion *api.Completion, all, usage bool) error {
	if isJSONOutput() {
		return render.JSON(os.Stdout, completion)
	}

	fields := []string{"prompt"}
	values := []string{prompt}

	if instruction != "" {
		fields = append(fields, "instruction")
		values = append(values, instruction)
	}

	if all {
		for i, choice := range completion.Choices {
			fields = append(fields, fmt.Sprintf("completion_%d", i))
			values = append(values, choice.Text)
		}
	} else {
		fields = append(fields, "completion")
		values = append(values, completion.FirstText())
	}

	if usage {
		fields = append(fields, "prompt_tokens", "completion_tokens", "total_tokens")
		values = append(values,
			strconv.FormatInt(completion.Usage.PromptTokens, 10),
			strconv.FormatInt(completion.Usage.CompletionTokens, 10),
			strconv.FormatInt(completion.Usage.TotalTokens, 10))
	}

	return render.FieldValue(os.Stdout, fields, values)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	d := loadedDefaults()

	flags := completionsCreateCmd.Flags()
	flags.StringVarP(&completionModelID, "model", "m", d.ModelID, "ID of the model to use")
	flags.StringVar(&completionPrompt, "prompt", "", "prompt for completion")
	flags.StringVar(&completionSuffix, "suffix", "", "suffix that comes after a completion of inserted text")
	flags.Int64Var(&completionMaxTokens, "max-tokens", d.MaxTokens, "maximum tokens")
	flags.Float64Var(&completionTemperature, "temperature", d.Temperature, "sampling temperature to use")
	flags.BoolVar(&completionEcho, "echo", false, "echo back the prompt in addition to the completion")
	flags.BoolVarP(&completionAll, "all", "a", false, "return all results in the completion")
	flags.BoolVarP(&completionUsage, "usage", "u", false, "output usage information")

	_ = completionsCreateCmd.MarkFlagRequired("prompt")

	completionsCmd.AddCommand(completionsCreateCmd)
	rootCmd.AddCommand(completionsCmd)
}
