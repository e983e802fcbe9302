package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestRunVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"-version"}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		t.Fatalf("expected version output, got %q", buf.String())
	}
}

func TestRunHelp(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"-h"}, &buf); err != nil {
		t.Fatalf("run -h should swallow flag.ErrHelp, got %v", err)
	}
}

func TestRunUnknownFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"-definitely-not-a-flag"}, &buf); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
}

func TestRunMissingRepository(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{t.TempDir()}, &buf); err == nil {
		t.Fatal("expected an error for a directory without a repository")
	}
}

func TestRunRendersRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if _, err := wt.Commit("initial import", &gitlib.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var buf bytes.Buffer
	if err := run([]string{"-mode", "light", dir}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "initial import") {
		t.Fatalf("output missing commit summary:\n%s", output)
	}
	if !strings.Contains(output, "◉") {
		t.Fatalf("output missing HEAD node:\n%s", output)
	}
	if !strings.Contains(output, "[HEAD -> master]") {
		t.Fatalf("output missing HEAD badge:\n%s", output)
	}
}
