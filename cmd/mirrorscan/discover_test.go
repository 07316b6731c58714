package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mirrorscan/mirrorscan/internal/config"
)

// TestBuildConfig tests flag-to-config translation.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults with one target", func(t *testing.T) {
		t.Parallel()

		cmd := NewDiscoverCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://example.com/" {
			t.Errorf("Targets = %v", cfg.Targets)
		}
		if cfg.MaxCrawlPages != config.DefaultMaxCrawlPages {
			t.Errorf("MaxCrawlPages = %d", cfg.MaxCrawlPages)
		}
		if !cfg.SaveToDB {
			t.Error("SaveToDB should default to true")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config invalid: %v", err)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewDiscoverCmd()
		args := []string{
			"--max-pages", "5",
			"--delay", "0s",
			"--timeout", "10s",
			"--domain-suffix", "example.org",
			"--no-db",
			"--json",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxCrawlPages != 5 {
			t.Errorf("MaxCrawlPages = %d, want 5", cfg.MaxCrawlPages)
		}
		if cfg.Delay != 0 {
			t.Errorf("Delay = %v, want 0", cfg.Delay)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
		}
		if cfg.DomainSuffix != "example.org" {
			t.Errorf("DomainSuffix = %q", cfg.DomainSuffix)
		}
		if cfg.SaveToDB {
			t.Error("SaveToDB should be false with --no-db")
		}
		if !cfg.JSONSummary {
			t.Error("JSONSummary should be true with --json")
		}
	})

	t.Run("conflicting formats fail validation", func(t *testing.T) {
		t.Parallel()

		cmd := NewDiscoverCmd()
		if err := cmd.ParseFlags([]string{"--json", "--markdown"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := cfg.Validate(); !errors.Is(err, config.ErrConflictingSummaryFormats) {
			t.Errorf("Validate() = %v, want ErrConflictingSummaryFormats", err)
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewDiscoverCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, []string{"https://example.com/"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

// TestReadTargetList tests start URL list files.
func TestReadTargetList(t *testing.T) {
	t.Parallel()

	t.Run("skips blanks and comments", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "targets.txt")
		content := "# properties to mirror\nhttps://a.example/\n\n  https://b.example/  \n# done\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		targets, err := readTargetList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"https://a.example/", "https://b.example/"}
		if len(targets) != len(want) {
			t.Fatalf("targets = %v, want %v", targets, want)
		}
		for i := range want {
			if targets[i] != want[i] {
				t.Errorf("targets[%d] = %q, want %q", i, targets[i], want[i])
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := readTargetList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Error("expected error for missing list file")
		}
	})
}

// TestTargetSuffix tests internal-domain resolution per target.
func TestTargetSuffix(t *testing.T) {
	t.Parallel()

	t.Run("explicit suffix wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.DomainSuffix = "example.org"
		got, err := targetSuffix(cfg, "https://www.example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "example.org" {
			t.Errorf("suffix = %q, want example.org", got)
		}
	})

	t.Run("derived from target", func(t *testing.T) {
		t.Parallel()

		got, err := targetSuffix(config.NewConfig(), "https://www.example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "example.com" {
			t.Errorf("suffix = %q, want example.com", got)
		}
	})
}
