package static

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// FS returns the embedded assets rooted at the static directory.
func FS() (fs.FS, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded static files: %w", err)
	}
	return sub, nil
}
