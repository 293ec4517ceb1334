package gitstats

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wethinkt/go-molty/internal/dashlog"
)

// GitCounter counts commits on HEAD and newline characters across tracked
// files by running git in each checkout.
type GitCounter struct {
	// Git is the git executable; empty means "git" from PATH.
	Git string
}

func (g GitCounter) command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	bin := g.Git
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	return cmd
}

// RepoStats implements RepoCounter. Each half fails independently; the
// checkout is reported as long as either count was obtained.
func (g GitCounter) RepoStats(ctx context.Context, path string) (commits, loc int, ok bool) {
	commits, commitsOK := g.commitCount(ctx, path)
	loc, locOK := g.lineCount(ctx, path)
	return commits, loc, commitsOK || locOK
}

func (g GitCounter) commitCount(ctx context.Context, path string) (int, bool) {
	out, err := g.command(ctx, path, "rev-list", "--count", "HEAD").Output()
	if err != nil {
		dashlog.Log.Debug("git rev-list failed", "path", path, "error", err)
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (g GitCounter) lineCount(ctx context.Context, path string) (int, bool) {
	out, err := g.command(ctx, path, "ls-files", "-z").Output()
	if err != nil {
		dashlog.Log.Debug("git ls-files failed", "path", path, "error", err)
		return 0, false
	}

	total := 0
	for _, name := range strings.Split(string(out), "\x00") {
		if name == "" {
			continue
		}
		n, err := countLines(filepath.Join(path, name))
		if err != nil {
			continue
		}
		total += n
	}
	return total, true
}

// countLines counts newline bytes the way wc -l does. Directories (such as
// submodules) and unreadable files return an error.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, 32*1024)
	count := 0
	for {
		n, err := f.Read(buf)
		count += bytes.Count(buf[:n], []byte{'\n'})
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
	}
}
