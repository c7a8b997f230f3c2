package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty converts a flag value into a preset. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// IsFixedPreset returns true if the preset disables speed progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyBlocksPreset modifies the config based on a difficulty preset.
func ApplyBlocksPreset(cfg *BlocksConfig, preset DifficultyPreset) {
	cfg.Rules.GravityScaling = !IsFixedPreset(preset)

	// Adjust assists based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Rules.GravityScaling = false
		cfg.Rules.ShowGhost = true
		cfg.Rules.AllowHold = true
		cfg.Rules.LockDelayMs = 750
	case DifficultyHard:
		cfg.Rules.ShowGhost = false
		cfg.Rules.AllowHold = false
		cfg.Rules.LockDelayMs = 350
		cfg.Rules.MinDropMs = 30
	}
}
