package config

import (
	_ "embed"
)

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultBlocksConfig returns the hardcoded blocks configuration.
func DefaultBlocksConfig() BlocksConfig {
	return BlocksConfig{
		Rules: RulesConfig{
			Width:          10,
			Height:         20,
			LockDelayMs:    500,
			BaseDropMs:     1000,
			MinDropMs:      50,
			GravityScaling: true,
			AllowHold:      false,
			ShowGhost:      true,
			CascadeStepMs:  500,
		},
		Duo: DuoConfig{
			GarbageTable: map[int]int{2: 1, 3: 2, 4: 4},
		},
		Touch: TouchConfig{
			MoveThreshold:  2,
			TapThreshold:   1,
			SwipeThreshold: 3,
			VerticalRatio:  1.5,
			LongPressMs:    200,
		},
		Online: OnlineConfig{
			ServerURL:     "ws://localhost:8080/ws",
			CountdownSecs: 3,
			AttackMode:    AttackGarbage,
			ListenAddr:    ":8080",
		},
		Effects: EffectsConfig{
			Type: "particles",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a config name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case "blocks":
		return defaultBlocksYAML
	default:
		return nil
	}
}
