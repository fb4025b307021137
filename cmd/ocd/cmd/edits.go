package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/api"
)

var (
	editModelID     string
	editPrompt      string
	editInstruction string
	editN           int64
	editTemperature float64
	editAll         bool
	editUsage       bool
)

var editsCmd = &cobra.Command{
	Use:   "edits",
	Short: "Rewrite prompts from instructions",
}

// editsCreateCmd rewrites a prompt according to an instruction. The
// instruction is sent as the system message of a chat completion.
var editsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Edit a prompt given an instruction and return the result",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if editAll && editUsage {
			return errExclusiveOutputFlags
		}

		ctx, stop := commandContext()
		defer stop()

		prompt := strings.TrimRight(editPrompt, " \t\r\n")

		completion, err := newClient().CreateChat(ctx, &api.ChatRequest{
			ModelID:     editModelID,
			Instruction: editInstruction,
			Input:       prompt,
			Temperature: editTemperature,
			N:           editN,
		})
		if err != nil {
			return err
		}

		// Multiple choices only surface through the all-results view.
		all := editAll || editN > 1

		return renderCompletion(prompt, editInstruction, completion, all, editUsage)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	d := loadedDefaults()

	flags := editsCreateCmd.Flags()
	flags.StringVarP(&editModelID, "model", "m", d.EditModelID, "ID of the model to use")
	flags.StringVar(&editPrompt, "prompt", "", "prompt to edit")
	flags.StringVar(&editInstruction, "instruction", "", "instruction that tells the model how to edit the prompt")
	flags.Int64VarP(&editN, "number", "n", d.N, "how many edits to generate")
	flags.Float64Var(&editTemperature, "temperature", d.Temperature, "sampling temperature to use")
	flags.BoolVarP(&editAll, "all", "a", false, "return all results in the completion")
	flags.BoolVarP(&editUsage, "usage", "u", false, "output usage information")

	_ = editsCreateCmd.MarkFlagRequired("prompt")

	editsCmd.AddCommand(editsCreateCmd)
	rootCmd.AddCommand(editsCmd)
}
