package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortsmith/internal/app"
)

var transcribePrint bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe audio into SRT subtitles",
	Long:  `Send an audio file to flash speech recognition and export the transcript as SRT.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func init() {
	transcribeCmd.Flags().BoolVarP(&transcribePrint, "print", "p", false, "Print the SRT to stdout")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newCmdEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	var result *app.TranscribeResult
	err = runWithSpinner("Transcribing audio", func() error {
		var recErr error
		result, recErr = env.pipeline.Transcribe(ctx, args[0])
		return recErr
	})
	if err != nil {
		return err
	}

	fmt.Println(infoStyle.Render(fmt.Sprintf("%d sentences, request %s", result.Sentences, result.RequestID)))
	if transcribePrint {
		fmt.Println()
		fmt.Print(result.SRT)
	}
	printSaved(result.Path)
	return nil
}
