package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// ArtifactStore persists generated scripts, metadata and subtitles.
type ArtifactStore interface {
	// Save writes data under name and returns where it ended up.
	Save(ctx context.Context, name string, data []byte) (string, error)
	List(ctx context.Context) ([]string, error)
}

var (
	_ ArtifactStore = (*LocalStorage)(nil)
	_ ArtifactStore = (*GCSStorage)(nil)
)

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("artifact name is empty")
	}

	cleaned := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}

	return cleaned, nil
}
