package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"

	"shortsmith/internal/app"
	"shortsmith/pkg/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
)

type cmdEnv struct {
	pipeline *app.Pipeline
	build    *app.BuildResult
}

func (r *cmdEnv) Close() {
	_ = r.build.Close()
}

func newCmdEnv(ctx context.Context) (*cmdEnv, error) {
	cfg, err := config.LoadFrom(ctx, configPath)
	if err != nil {
		return nil, err
	}

	build, err := app.BuildService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &cmdEnv{
		pipeline: app.NewPipeline(build.Service),
		build:    build,
	}, nil
}

func readScriptFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}

func printSaved(path string) {
	fmt.Println(infoStyle.Render("Saved to " + path))
}
