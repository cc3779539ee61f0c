package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ResolveDumpPath validates the dump location before any cloud resource is
// touched and returns a local directory the loader can mount.
//
// Local paths are checked for existence. s3:// URLs are downloaded into a
// temporary directory; the returned cleanup removes it.
func ResolveDumpPath(ctx context.Context, path string) (string, func(), error) {
	noop := func() {}

	if strings.HasPrefix(path, "s3://") {
		dir, err := os.MkdirTemp("", "auractl-dump-*")
		if err != nil {
			return "", noop, fmt.Errorf("failed to create dump staging directory: %w", err)
		}
		cleanup := func() { _ = os.RemoveAll(dir) }
		if _, err := fetchFromS3(ctx, path, dir); err != nil {
			cleanup()
			return "", noop, err
		}
		return dir, cleanup, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", noop, fmt.Errorf("dump path %s not found: %w", path, err)
	}
	if !info.IsDir() {
		return "", noop, fmt.Errorf("dump path %s must be a directory containing the dump files", path)
	}
	return path, noop, nil
}
