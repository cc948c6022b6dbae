package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const envFile = ".env"

var envOrder = []string{
	"DASHSCOPE_API_KEY",
	"GROQ_API_KEY",
	"GEMINI_API_KEY",
	"TENCENT_APP_ID",
	"TENCENT_SECRET_ID",
	"TENCENT_SECRET_KEY",
	"GOOGLE_CLOUD_PROJECT",
	"GCS_BUCKET",
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Shortsmith",
	Long:  `Configure API keys, create directories, and set up the environment for Shortsmith.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Shortsmith Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return nil
}

func createDirectories() error {
	if err := os.MkdirAll("output", 0755); err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func configureEnv() error {
	if _, err := os.Stat(envFile); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureLLM(env); err != nil {
		return err
	}

	if err := configureTencent(env); err != nil {
		return err
	}

	if err := configureGCP(env); err != nil {
		return err
	}

	f, err := os.Create(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := writeEnv(f, env); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	printNextSteps()
	return nil
}

func configureLLM(env map[string]string) error {
	var provider string
	if err := huh.NewSelect[string]().
		Title("LLM provider").
		Options(
			huh.NewOption("DashScope (Qwen)", "dashscope"),
			huh.NewOption("Groq", "groq"),
			huh.NewOption("Gemini", "gemini"),
		).
		Value(&provider).
		Run(); err != nil {
		return err
	}

	keys := map[string]struct {
		env  string
		name string
		url  string
	}{
		"dashscope": {"DASHSCOPE_API_KEY", "DashScope API Key", "https://dashscope.console.aliyun.com/apiKey"},
		"groq":      {"GROQ_API_KEY", "GROQ API Key", "https://console.groq.com/keys"},
		"gemini":    {"GEMINI_API_KEY", "Gemini API Key", "https://aistudio.google.com/apikey"},
	}
	key := keys[provider]

	var value string
	if err := huh.NewInput().
		Title(key.name).
		Description(key.url).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Validate(required(key.name)).
		Run(); err != nil {
		return err
	}

	env[key.env] = strings.TrimSpace(value)

	if provider != "dashscope" {
		fmt.Println(infoStyle.Render(fmt.Sprintf("Set llm.provider: %s in config.yaml", provider)))
	}
	return nil
}

func configureTencent(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Tencent speech recognition?").
		Description("Required for the transcribe command").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	fmt.Println(infoStyle.Render(`
To get Tencent Cloud credentials:
1. Go to https://console.cloud.tencent.com/cam/capi
2. Create a SecretId / SecretKey pair
3. Copy the AppID from the account information page
`))

	var appID, secretID, secretKey string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tencent AppID").
				Value(&appID).
				Validate(required("AppID")),
			huh.NewInput().
				Title("Tencent SecretId").
				Value(&secretID).
				Validate(required("SecretId")),
			huh.NewInput().
				Title("Tencent SecretKey").
				EchoMode(huh.EchoModePassword).
				Value(&secretKey).
				Validate(required("SecretKey")),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	env["TENCENT_APP_ID"] = strings.TrimSpace(appID)
	env["TENCENT_SECRET_ID"] = strings.TrimSpace(secretID)
	env["TENCENT_SECRET_KEY"] = strings.TrimSpace(secretKey)
	return nil
}

func configureGCP(env map[string]string) error {
	var setupGCP bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("For GCS artifact storage, Secret Manager and Vertex AI (optional)").
		Value(&setupGCP).
		Run(); err != nil {
		return err
	}

	if !setupGCP {
		return nil
	}

	project := activeGCPProject()
	var bucket string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project ID").
				Description("Defaults to the active gcloud project").
				Value(&project).
				Validate(validateProjectID),
			huh.NewInput().
				Title("GCS bucket for artifacts").
				Description("Leave empty to keep artifacts in ./output").
				Value(&bucket),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	project = strings.TrimSpace(project)
	env["GOOGLE_CLOUD_PROJECT"] = project
	if bucket = strings.TrimSpace(bucket); bucket != "" {
		env["GCS_BUCKET"] = bucket
	}

	if !commandExists("gcloud") {
		fmt.Println(warnStyle.Render("gcloud CLI not found, enable secretmanager, storage and aiplatform APIs manually"))
		return nil
	}

	if err := enableGCPAPIs(project); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
	}
	return nil
}

// activeGCPProject returns "" when gcloud is missing or has no project set.
func activeGCPProject() string {
	if !commandExists("gcloud") {
		return ""
	}
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(project string) error {
	apis := []string{
		"secretmanager.googleapis.com",
		"storage.googleapis.com",
		"aiplatform.googleapis.com",
	}

	return runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd("gcloud", args...)
	})
}

// writeEnv writes known keys in a fixed order and skips empty values.
func writeEnv(w io.Writer, env map[string]string) error {
	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			if _, err := fmt.Fprintf(w, "%s=%s\n", key, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Adjust config.yaml (provider, language, model tier)")
	fmt.Println("  2. Run: shortsmith script -s \"your subject\"")
	fmt.Println("  3. Run: shortsmith transcribe narration.mp3")
}

func validateProjectID(s string) error {
	if n := len(strings.TrimSpace(s)); n < 6 || n > 30 {
		return fmt.Errorf("project ID must be 6-30 characters")
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	var stderr bytes.Buffer
	c := exec.Command(name, args...)
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
