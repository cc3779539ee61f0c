package seed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultImage is the Neo4j enterprise image whose neo4j-admin performs
// the upload.
const DefaultImage = "neo4j:2025.04.0-enterprise"

// DockerLoader runs the dump upload in a docker container.
type DockerLoader struct {
	// Image overrides DefaultImage when set.
	Image string
}

var _ Loader = (*DockerLoader)(nil)

// execCommandContext is replaced in tests.
var execCommandContext = exec.CommandContext

// Seed mounts the directory containing the dump into the container and
// runs neo4j-admin database upload against the target instance.
func (l *DockerLoader) Seed(ctx context.Context, target Target, dumpPath string, progress ProgressFunc) (*Result, error) {
	absPath, err := filepath.Abs(dumpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dump path %s: %w", dumpPath, err)
	}

	args := l.uploadArgs(target, absPath)
	// #nosec G204 - arguments are built from internal config, not user-controlled shell input
	cmd := execCommandContext(ctx, "docker", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach to docker output: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start docker: %w", err)
	}

	lastLine := streamProgress(stdout, progress)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("dump load interrupted: %w", ctx.Err())
		}
		return &Result{Success: false, Message: fmt.Sprintf("neo4j-admin upload failed: %v: %s", err, lastLine)}, nil
	}
	return &Result{Success: true, Message: "dump loaded"}, nil
}

func (l *DockerLoader) uploadArgs(target Target, absDumpDir string) []string {
	image := l.Image
	if image == "" {
		image = DefaultImage
	}
	database := target.Database
	if database == "" {
		database = "neo4j"
	}

	upload := strings.Join([]string{
		"./bin/neo4j-admin database upload " + database,
		"--from-path=/dumps",
		fmt.Sprintf("--to-uri=neo4j+s://%s.databases.neo4j.io", target.InstanceID),
		"--overwrite-destination=true",
		"--to-user=neo4j",
		"--to-password=" + target.Password,
	}, " ")

	return []string{
		"run", "--rm",
		"-v", absDumpDir + ":/dumps",
		image,
		"bash", "-c", upload,
	}
}

// streamProgress forwards each output line to progress and returns the
// last non-empty line, used to enrich failure messages.
func streamProgress(r io.Reader, progress ProgressFunc) string {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lastLine string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lastLine = line
		if progress != nil {
			progress(line)
		}
	}
	return lastLine
}
