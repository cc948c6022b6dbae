package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shortsmith/internal/app"
)

var (
	metadataSubject    string
	metadataScriptFile string
	metadataModel      string
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Generate title, description and keywords",
	Long:  `Generate upload metadata for a script. Fields that fail are reported and left empty.`,
	RunE:  runMetadata,
}

func init() {
	metadataCmd.Flags().StringVarP(&metadataSubject, "subject", "s", "", "Video subject")
	metadataCmd.Flags().StringVarP(&metadataScriptFile, "script-file", "f", "", "File containing the script")
	metadataCmd.Flags().StringVarP(&metadataModel, "model", "m", "", "Model tier: fast or high-quality")
	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, args []string) error {
	if metadataSubject == "" {
		return errors.New("please provide --subject")
	}

	script, err := readScriptFile(metadataScriptFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	env, err := newCmdEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	model, err := env.pipeline.Model(metadataModel)
	if err != nil {
		return err
	}

	var (
		result  *app.MetadataResult
		partial error
	)
	err = runWithSpinner("Generating metadata", func() error {
		var genErr error
		result, genErr = env.pipeline.Metadata(ctx, metadataSubject, script, model)
		if result != nil {
			partial = genErr
			return nil
		}
		return genErr
	})
	if err != nil {
		return err
	}

	meta := result.Metadata
	fmt.Println(labelStyle.Render("Title: ") + meta.Title)
	fmt.Println(labelStyle.Render("Description: ") + meta.Description)
	fmt.Println(labelStyle.Render("Keywords: ") + strings.Join(meta.Keywords, ", "))
	printSaved(result.Path)

	if partial != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Some fields failed: %v", partial)))
	}
	return nil
}
