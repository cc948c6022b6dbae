package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shortsmith/internal/app"
)

var (
	scriptSubject    string
	scriptParagraphs int
	scriptModel      string
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Generate a narration script",
	Long:  `Generate a cleaned narration script with the requested number of paragraphs.`,
	RunE:  runScript,
}

func init() {
	scriptCmd.Flags().StringVarP(&scriptSubject, "subject", "s", "", "Video subject")
	scriptCmd.Flags().IntVarP(&scriptParagraphs, "paragraphs", "p", 0, "Number of paragraphs (default from config)")
	scriptCmd.Flags().StringVarP(&scriptModel, "model", "m", "", "Model tier: fast or high-quality")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	if scriptSubject == "" {
		return errors.New("please provide --subject")
	}

	ctx := cmd.Context()

	env, err := newCmdEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	model, err := env.pipeline.Model(scriptModel)
	if err != nil {
		return err
	}

	var result *app.ScriptResult
	err = runWithSpinner("Generating script", func() error {
		var genErr error
		result, genErr = env.pipeline.Script(ctx, scriptSubject, scriptParagraphs, model)
		return genErr
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(result.Script)
	fmt.Println()
	printSaved(result.Path)
	return nil
}
