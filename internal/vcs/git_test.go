package vcs_test

import (
	"testing"

	"deadwood/internal/vcs"
)

func TestLookup(t *testing.T) {
	t.Run("non-repository falls back to local and unknown", func(t *testing.T) {
		info := vcs.Lookup(t.TempDir())

		if info.Repo != "local" {
			t.Errorf("Repo = %q, want local", info.Repo)
		}
		if info.Commit != "unknown" {
			t.Errorf("Commit = %q, want unknown", info.Commit)
		}
	})
}
