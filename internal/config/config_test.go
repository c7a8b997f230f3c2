package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadBlocks("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBlocksConfig(), cfg)
	assert.NotEmpty(t, GetDefaultYAML("blocks"))
	assert.Nil(t, GetDefaultYAML("snake"))
}

func TestLoadBlocksCustomPathIsLayered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "rules:\n  lock_delay_ms: 300\nonline:\n  attack_mode: lines\n")

	cfg, err := LoadBlocks(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Rules.LockDelayMs)
	assert.Equal(t, AttackLines, cfg.Online.AttackMode)
	assert.Equal(t, 10, cfg.Rules.Width, "unset keys keep defaults")
	assert.Equal(t, map[int]int{2: 1, 3: 2, 4: 4}, cfg.Duo.GarbageTable)
}

func TestLoadBlocksGarbageTableReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "duo:\n  garbage_table:\n    2: 2\n")

	cfg, err := LoadBlocks(path)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 2}, cfg.Duo.GarbageTable)
}

func TestLoadBlocksUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".blocks", "configs", "blocks.yaml"), "rules:\n  width: 12\n")

	cfg, err := LoadBlocks("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Rules.Width)
}

func TestLoadBlocksErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBlocks(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "rules: [unclosed\n")
	_, err = LoadBlocks(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "touch:\n  vertical_ratio: 0.5\n")
	_, err = LoadBlocks(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertical_ratio")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BlocksConfig)
	}{
		{"tiny board", func(c *BlocksConfig) { c.Rules.Width = 2 }},
		{"zero lock delay", func(c *BlocksConfig) { c.Rules.LockDelayMs = 0 }},
		{"min above base", func(c *BlocksConfig) { c.Rules.MinDropMs = 2000 }},
		{"negative garbage", func(c *BlocksConfig) { c.Duo.GarbageTable[3] = -1 }},
		{"attack mode", func(c *BlocksConfig) { c.Online.AttackMode = "nuke" }},
		{"effects", func(c *BlocksConfig) { c.Effects.Type = "confetti" }},
		{"countdown", func(c *BlocksConfig) { c.Online.CountdownSecs = -1 }},
	}
	require.NoError(t, DefaultBlocksConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBlocksConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyBlocksPreset(t *testing.T) {
	tests := []struct {
		preset      DifficultyPreset
		scaling     bool
		ghost       bool
		hold        bool
		lockDelayMs int
	}{
		{DifficultyEasy, false, true, true, 750},
		{DifficultyNormal, true, true, false, 500},
		{DifficultyHard, true, false, false, 350},
		{DifficultyFixed, false, true, false, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultBlocksConfig()
			ApplyBlocksPreset(&cfg, tt.preset)
			assert.Equal(t, tt.scaling, cfg.Rules.GravityScaling)
			assert.Equal(t, tt.ghost, cfg.Rules.ShowGhost)
			assert.Equal(t, tt.hold, cfg.Rules.AllowHold)
			assert.Equal(t, tt.lockDelayMs, cfg.Rules.LockDelayMs)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	p, err := ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, p)

	p, err = ParseDifficulty("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, p)

	_, err = ParseDifficulty("insane")
	assert.Error(t, err)
}
