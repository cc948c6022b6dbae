package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SecretAccessor fetches the latest version of a named secret. It returns
// ("", nil) when the secret does not exist.
type SecretAccessor interface {
	Access(ctx context.Context, name string) (string, error)
}

type SecretManager struct {
	client  *secretmanager.Client
	project string
}

func NewSecretManager(ctx context.Context, project string) (*SecretManager, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &SecretManager{client: client, project: project}, nil
}

func (s *SecretManager) Close() error {
	return s.client.Close()
}

func (s *SecretManager) Access(ctx context.Context, name string) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.project, name),
	})
	if status.Code(err) == codes.NotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

// fillSecrets only fills credentials the environment left empty.
func fillSecrets(ctx context.Context, cfg *Config, accessor SecretAccessor) error {
	targets := []struct {
		name  string
		field *string
	}{
		{"DASHSCOPE_API_KEY", &cfg.DashScopeAPIKey},
		{"GROQ_API_KEY", &cfg.GroqAPIKey},
		{"GEMINI_API_KEY", &cfg.GeminiAPIKey},
		{"TENCENT_APP_ID", &cfg.TencentAppID},
		{"TENCENT_SECRET_ID", &cfg.TencentSecretID},
		{"TENCENT_SECRET_KEY", &cfg.TencentSecretKey},
		{"GCS_BUCKET", &cfg.GCSBucket},
	}

	for _, t := range targets {
		if *t.field != "" {
			continue
		}

		value, err := accessor.Access(ctx, t.name)
		if err != nil {
			return err
		}
		if value == "" {
			slog.Debug("Secret not found", "name", t.name)
			continue
		}

		*t.field = value
		slog.Debug("Loaded secret", "name", t.name)
	}

	return nil
}
