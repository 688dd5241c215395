package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{
			name:     "empty",
			settings: nil,
		},
		{
			name: "clean checkout",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.modified", Value: "false"},
				{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
			},
			wantVersion: "dev-20260314",
			wantCommit:  "0123456",
		},
		{
			name: "dirty short revision",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			},
			wantCommit: "abc-dirty",
		},
		{
			name: "unparseable time",
			settings: []debug.BuildSetting{
				{Key: "vcs.time", Value: "yesterday"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := fromSettings(tt.settings)
			if v != tt.wantVersion {
				t.Errorf("version = %q, want %q", v, tt.wantVersion)
			}
			if c != tt.wantCommit {
				t.Errorf("commit = %q, want %q", c, tt.wantCommit)
			}
		})
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Version+" (commit: "+Commit) {
		t.Errorf("Full() = %q", full)
	}
	if Version == "" || Commit == "" {
		t.Error("init left Version or Commit empty")
	}
}
