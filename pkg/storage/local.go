package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type localStorage struct {
	root string
}

// NewLocalStorage stores uploads under root, partitioned by the logical
// folder passed to Save (avatars/, works/methodical/, uploads/files/, ...).
func NewLocalStorage(root string) (FileStorage, error) {
	if root == "" {
		root = "media"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %s: %w", root, err)
	}
	return &localStorage{root: root}, nil
}

func (s *localStorage) Save(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}

	// Prefix with nanos so repeated uploads of the same name never clash.
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileName))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}

	ref := strings.TrimPrefix(folder, "/") + "/" + name
	return ref, nil
}

func (s *localStorage) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	path := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

func (s *localStorage) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return "/media/" + ref
}
