package version

import (
	"strings"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" {
		t.Error("BuildTime should be initialized")
	}
	if GitCommit == "" {
		t.Error("GitCommit should be initialized")
	}
}

func TestResolvePrefersStampedVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got := Resolve(); got != "v1.2.3" {
		t.Errorf("Resolve() = %q, want v1.2.3", got)
	}
}

func TestString(t *testing.T) {
	old, oldCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = old, oldCommit })

	Version, GitCommit = "v0.3.0", "abc123"
	got := String()
	if !strings.HasPrefix(got, "docsplice v0.3.0 (commit abc123") {
		t.Errorf("String() = %q", got)
	}
}
