package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version string resolution.
func TestGetVersion(t *testing.T) {
	t.Run("ldflags version wins", func(t *testing.T) {
		original := version
		defer func() { version = original }()

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("expected v1.2.3, got %q", got)
		}
	})

	t.Run("falls back without ldflags", func(t *testing.T) {
		original := version
		defer func() { version = original }()

		version = ""
		if got := getVersion(); got == "" {
			t.Error("expected a non-empty fallback version")
		}
	})
}

// TestGetCommit tests commit hash resolution.
func TestGetCommit(t *testing.T) {
	original := commit
	defer func() { commit = original }()

	commit = "abc1234"
	if got := getCommit(); got != "abc1234" {
		t.Errorf("expected abc1234, got %q", got)
	}
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("failed to run version command: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "agtalk-scraper version") {
		t.Errorf("expected version line, got %q", got)
	}
	if !strings.Contains(got, "commit:") {
		t.Errorf("expected commit line, got %q", got)
	}
}
