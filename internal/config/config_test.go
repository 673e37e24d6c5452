package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slzatz/vimbridge/internal/config"
	"github.com/slzatz/vimbridge/vim"
	"github.com/slzatz/vimbridge/vim/govim"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.EngineAuto, cfg.Engine)
	assert.Equal(t, 8, cfg.Options.TabSize)
	assert.Len(t, cfg.ClosingPairs(), 5)
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
engine: go
log_level: debug
journal: events.db
options:
  tab_size: 4
  insert_spaces: true
  auto_closing_pairs:
    enabled: true
    pairs: ["()", "<>"]
`)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, config.EngineGo, cfg.Engine)
	assert.True(t, cfg.UseGoEngine())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "events.db", cfg.Journal)
	assert.Equal(t, 4, cfg.Options.TabSize)
	assert.True(t, cfg.Options.InsertSpaces)
	assert.Equal(t, []vim.AutoClosingPair{{Open: '(', Close: ')'}, {Open: '<', Close: '>'}}, cfg.ClosingPairs())
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	cfg, err := config.FromYAML([]byte("log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Options.TabSize)
	assert.Equal(t, config.EngineAuto, cfg.Engine)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"Unknown engine", "engine: neovim\n", "engine"},
		{"Unknown level", "log_level: loud\n", "log_level"},
		{"Zero tab size", "options: {tab_size: 0}\n", "options.tab_size"},
		{"Bad pair", "options: {auto_closing_pairs: {pairs: [\"(\"]}}\n", "options.auto_closing_pairs.pairs[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromYAML([]byte(tt.yaml))
			var verr *config.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("Malformed yaml", func(t *testing.T) {
		_, err := config.FromYAML([]byte("options: [\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing file gives defaults", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(dir, "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("Save and load", func(t *testing.T) {
		path := filepath.Join(dir, "vimbridge.yaml")
		cfg := config.Default()
		cfg.Engine = config.EngineGo
		cfg.Options.TabSize = 2
		require.NoError(t, cfg.Save(path))

		loaded, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("Invalid file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("engine: x\n"), 0o644))
		_, err := config.Load(path)
		assert.ErrorContains(t, err, "bad.yaml")
	})
}

func TestApply(t *testing.T) {
	b := vim.New(govim.NewEngine())
	require.NoError(t, b.Init(vim.HandlersFunc(func(vim.Event) {})))

	cfg := config.Default()
	cfg.Options.TabSize = 3
	cfg.Options.InsertSpaces = true
	cfg.Options.AutoClosingPairs.Enabled = true
	cfg.Options.AutoClosingPairs.Pairs = []string{"<>"}
	require.NoError(t, cfg.Apply(b))

	assert.Equal(t, 3, b.TabSize())
	assert.True(t, b.InsertSpaces())
	assert.True(t, b.AutoClosingPairs())

	require.NoError(t, b.Input("i<lt><Esc>"))
	assert.Equal(t, "<>", b.BufferLine(b.BufferCurrent(), 1))
}
