package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"proxyconf/internal/importers"
	"proxyconf/internal/sharelink"
)

// FileSource reads links from a local file; "-" means stdin.
type FileSource struct{}

func (s *FileSource) Fetch(_ context.Context, path string) ([]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return sharelink.DecodeSubscription(string(data)), nil
}

func init() {
	importers.Register("file", func() importers.Source { return &FileSource{} })
}
