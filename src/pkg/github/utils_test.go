package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		in        string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{in: "apache/datafusion", wantOwner: "apache", wantRepo: "datafusion"},
		{in: "apache/datafusion/sub", wantOwner: "apache", wantRepo: "datafusion"},
		{in: "datafusion", wantErr: true},
		{in: "/datafusion", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := ParseOwnerRepo(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestPRNumberFromRef(t *testing.T) {
	tests := []struct {
		ref    string
		want   int
		wantOK bool
	}{
		{ref: "refs/pull/1234/merge", want: 1234, wantOK: true},
		{ref: "refs/pull/7/head", want: 7, wantOK: true},
		{ref: "refs/heads/main"},
		{ref: ""},
		{ref: "refs/pull/abc/merge"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := PRNumberFromRef(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePRNumber(t *testing.T) {
	dir := t.TempDir()
	prEvent := filepath.Join(dir, "pr.json")
	require.NoError(t, os.WriteFile(prEvent, []byte(`{"action":"synchronize","number":99,"pull_request":{"number":99}}`), 0644))
	pushEvent := filepath.Join(dir, "push.json")
	require.NoError(t, os.WriteFile(pushEvent, []byte(`{"ref":"refs/heads/main"}`), 0644))

	tests := []struct {
		name      string
		explicit  int
		ref       string
		eventPath string
		want      int
		wantErr   bool
	}{
		{name: "explicit wins", explicit: 5, ref: "refs/pull/6/merge", want: 5},
		{name: "from ref", ref: "refs/pull/6/merge", eventPath: prEvent, want: 6},
		{name: "from event", ref: "refs/heads/feature", eventPath: prEvent, want: 99},
		{name: "event without PR", eventPath: pushEvent, wantErr: true},
		{name: "nothing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePRNumber(tt.explicit, tt.ref, tt.eventPath)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
