package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gh-nvat/semver-gate/src/pkg/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	posts []string
	err   error
}

func (p *recordingPoster) PostReport(ctx context.Context, prNumber int, body, bodyFile string) error {
	p.posts = append(p.posts, body)
	return p.err
}

func factoryFor(p *recordingPoster, calls *int) PosterFactory {
	return func(token, repository string) (github.CommentPoster, error) {
		*calls++
		return p, nil
	}
}

func TestAppendEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_env")
	require.NoError(t, os.WriteFile(path, []byte("EXISTING=1\n"), 0644))

	require.NoError(t, AppendEnvFile(path, ENV_FLAG, "true"))
	require.NoError(t, AppendEnvFile(path, "OTHER", "x"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EXISTING=1\nBREAKING_CHANGES_DETECTED=true\nOTHER=x\n", string(data))
}

func TestNotifier_Notify(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		breaking      bool
		posterErr     error
		wantFlag      string
		wantFactory   int
		wantCommented bool
	}{
		{
			name:          "breaking with credentials posts",
			settings:      Settings{Token: "t", Repository: "apache/datafusion", PRNumber: 7},
			breaking:      true,
			wantFlag:      "BREAKING_CHANGES_DETECTED=true\n",
			wantFactory:   1,
			wantCommented: true,
		},
		{
			name:        "token unset never posts",
			settings:    Settings{Repository: "apache/datafusion", PRNumber: 7},
			breaking:    true,
			wantFlag:    "BREAKING_CHANGES_DETECTED=true\n",
			wantFactory: 0,
		},
		{
			name:        "repository unset never posts",
			settings:    Settings{Token: "t", PRNumber: 7},
			breaking:    true,
			wantFlag:    "BREAKING_CHANGES_DETECTED=true\n",
			wantFactory: 0,
		},
		{
			name:        "not breaking never posts",
			settings:    Settings{Token: "t", Repository: "apache/datafusion", PRNumber: 7},
			breaking:    false,
			wantFlag:    "BREAKING_CHANGES_DETECTED=false\n",
			wantFactory: 0,
		},
		{
			name:        "missing PR number",
			settings:    Settings{Token: "t", Repository: "apache/datafusion"},
			breaking:    true,
			wantFlag:    "BREAKING_CHANGES_DETECTED=true\n",
			wantFactory: 0,
		},
		{
			name:        "posting failure is swallowed",
			settings:    Settings{Token: "t", Repository: "apache/datafusion", PRNumber: 7},
			breaking:    true,
			posterErr:   errors.New("HTTP 502"),
			wantFlag:    "BREAKING_CHANGES_DETECTED=true\n",
			wantFactory: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile := filepath.Join(t.TempDir(), "github_env")
			tt.settings.EnvFile = envFile

			poster := &recordingPoster{err: tt.posterErr}
			calls := 0
			res, err := NewNotifier(tt.settings, factoryFor(poster, &calls)).Notify(context.Background(), tt.breaking, "# report")
			require.NoError(t, err)

			data, err := os.ReadFile(envFile)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlag, string(data))
			assert.True(t, res.FlagWritten)
			assert.Equal(t, tt.wantFactory, calls)
			assert.Equal(t, tt.wantCommented, res.Commented)
		})
	}
}

func TestNotifier_NoEnvFile(t *testing.T) {
	calls := 0
	res, err := NewNotifier(Settings{}, factoryFor(&recordingPoster{}, &calls)).Notify(context.Background(), true, "# report")
	require.NoError(t, err)
	assert.False(t, res.FlagWritten)
	assert.Equal(t, 0, calls)
}

func TestNotifier_EnvFileUnwritable(t *testing.T) {
	settings := Settings{EnvFile: filepath.Join(t.TempDir(), "missing-dir", "env")}
	_, err := NewNotifier(settings, nil).Notify(context.Background(), false, "")
	assert.Error(t, err)
}
