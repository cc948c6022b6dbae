package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shortsmith/internal/app"
)

var (
	termsSubject    string
	termsAmount     int
	termsScriptFile string
	termsModel      string
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Generate stock footage search terms",
	Long:  `Generate English search terms for stock footage matching a subject and script.`,
	RunE:  runTerms,
}

func init() {
	termsCmd.Flags().StringVarP(&termsSubject, "subject", "s", "", "Video subject")
	termsCmd.Flags().IntVarP(&termsAmount, "amount", "n", 0, "Number of terms (default from config)")
	termsCmd.Flags().StringVarP(&termsScriptFile, "script-file", "f", "", "File containing the script")
	termsCmd.Flags().StringVarP(&termsModel, "model", "m", "", "Model tier: fast or high-quality")
	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, args []string) error {
	if termsSubject == "" {
		return errors.New("please provide --subject")
	}

	script, err := readScriptFile(termsScriptFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	env, err := newCmdEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	model, err := env.pipeline.Model(termsModel)
	if err != nil {
		return err
	}

	var result *app.SearchTermsResult
	err = runWithSpinner("Generating search terms", func() error {
		var genErr error
		result, genErr = env.pipeline.SearchTerms(ctx, termsSubject, termsAmount, script, model)
		return genErr
	})
	if err != nil {
		return err
	}

	if len(result.Terms) == 0 {
		fmt.Println(warnStyle.Render("No search terms returned"))
	}
	for _, term := range result.Terms {
		fmt.Println("  • " + term)
	}
	printSaved(result.Path)

	if len(result.Terms) > 0 {
		fmt.Println(labelStyle.Render("Joined: ") + strings.Join(result.Terms, ", "))
	}
	return nil
}
