package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [session-prefix]",
	Short: "List saved artifacts",
	Long:  `List scripts, search terms, metadata and subtitles in the configured storage, optionally narrowed to sessions starting with a prefix.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newCmdEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	var prefix string
	if len(args) == 1 {
		prefix = args[0]
	}

	names, err := env.pipeline.Artifacts(ctx, prefix)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println(warnStyle.Render("No artifacts found"))
		return nil
	}

	fmt.Println(labelStyle.Render(fmt.Sprintf("%d artifacts", len(names))))
	for _, name := range names {
		fmt.Println("  • " + name)
	}
	return nil
}
