package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/webfit/tokens"
	"github.com/randalmurphal/webfit/truncate"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	assert.Empty(t, p.Encoding)
	assert.Equal(t, 4096, p.TotalTokens)
	assert.Equal(t, truncate.DefaultMarker, p.Marker)
	assert.Equal(t, truncate.DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, []string{"tag", "bbox"}, p.ProtectedFields)
	assert.NoError(t, p.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "profile.yaml", `
total_tokens: 2048
marker: "[...]"
max_attempts: 3
iterative_reduction: true
allocation:
  instructions: 1
  history: 2
  page: 4
  candidates: 2
  reserved: 1
protected_fields: [tag]
num_prev_turns: 10
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2048, p.TotalTokens)
	assert.Equal(t, "[...]", p.Marker)
	assert.Equal(t, 3, p.MaxAttempts)
	assert.True(t, p.IterativeReduction)
	assert.Equal(t, []string{"tag"}, p.ProtectedFields)
	assert.Equal(t, 10, p.NumPrevTurns)

	// Unset keys keep their defaults.
	assert.Equal(t, tokens.DefaultCharsPerToken, p.CharsPerToken)
	assert.Equal(t, 5, p.NumUtterances)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "profile.toml", `
encoding = "cl100k_base"
total_tokens = 1024
keep_empty_nodes = true

[allocation]
instructions = 10
history = 10
page = 50
candidates = 20
reserved = 10
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cl100k_base", p.Encoding)
	assert.Equal(t, 1024, p.TotalTokens)
	assert.True(t, p.KeepEmptyNodes)
	assert.Equal(t, 50, p.Allocation.Page)
}

func TestLoad_UnknownExtension(t *testing.T) {
	path := writeFile(t, "profile.ini", "total_tokens = 1")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "profile.yaml", "total_tokens: -5")
	_, err := Load(path)
	assert.Error(t, err)

	path = writeFile(t, "broken.yaml", "total_tokens: [")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestProfile_Budget(t *testing.T) {
	p := DefaultProfile()
	p.TotalTokens = 1000

	b := p.Budget()
	assert.Equal(t, 1000, b.Total)
	assert.Equal(t, 400, b.Page)
	assert.Equal(t, 250, b.Candidates)

	p.Allocation = Allocation{Page: 1, Candidates: 1}
	b = p.Budget()
	assert.Equal(t, 500, b.Page)
	assert.Equal(t, 0, b.Instructions)
}

func TestProfile_Tokenizer(t *testing.T) {
	p := DefaultProfile()
	tok, err := p.Tokenizer()
	require.NoError(t, err)
	assert.Positive(t, tok.Count("four characters at a time"))

	p.CharsPerToken = 2
	tok, err = p.Tokenizer()
	require.NoError(t, err)
	assert.Equal(t, 5, tok.Count("0123456789"))
}

func TestProfile_Options(t *testing.T) {
	p := DefaultProfile()
	p.Marker = "[cut]"
	p.MaxAttempts = 7
	p.KeepEmptyNodes = true
	p.KeepEmptyFields = true
	p.NumPrevTurns = 3

	tree := p.TreeOptions()
	assert.Equal(t, "[cut]", tree.Marker)
	assert.Equal(t, 7, tree.MaxAttempts)
	assert.True(t, tree.KeepEmpty)

	cand := p.CandidateOptions()
	assert.Equal(t, "[cut]", cand.Marker)
	assert.True(t, cand.KeepEmpty)

	pr := p.PromptOptions()
	assert.Equal(t, 3, pr.NumPrevTurns)
	assert.Equal(t, 7, pr.MaxAttempts)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"total_tokens"`)
	assert.Contains(t, s, `"allocation"`)
	assert.Contains(t, s, `"protected_fields"`)
}

func TestWatch(t *testing.T) {
	path := writeFile(t, "profile.yaml", "total_tokens: 100")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, path)
	require.NoError(t, err)

	select {
	case p := <-ch:
		assert.Equal(t, 100, p.TotalTokens)
	case <-time.After(2 * time.Second):
		t.Fatal("initial profile never arrived")
	}

	require.NoError(t, os.WriteFile(path, []byte("total_tokens: 200"), 0o644))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			require.True(t, ok, "channel closed before reload arrived")
			if p.TotalTokens == 200 {
				return
			}
		case <-deadline:
			t.Fatal("reloaded profile never arrived")
		}
	}
}

func TestWatch_MissingFile(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
