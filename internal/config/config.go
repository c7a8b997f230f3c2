// Package config provides YAML-based configuration loading and difficulty
// presets for the blocks games, the online client and the relay.
package config

import "fmt"

// BlocksConfig contains all configuration for the blocks games.
type BlocksConfig struct {
	Rules   RulesConfig   `yaml:"rules"`
	Duo     DuoConfig     `yaml:"duo"`
	Touch   TouchConfig   `yaml:"touch"`
	Online  OnlineConfig  `yaml:"online"`
	Effects EffectsConfig `yaml:"effects"`
}

// RulesConfig defines playfield size and timing. Times are in milliseconds.
type RulesConfig struct {
	Width          int  `yaml:"width"`
	Height         int  `yaml:"height"`
	LockDelayMs    int  `yaml:"lock_delay_ms"`
	BaseDropMs     int  `yaml:"base_drop_ms"`
	MinDropMs      int  `yaml:"min_drop_ms"`
	GravityScaling bool `yaml:"gravity_scaling"` // speed up with level
	AllowHold      bool `yaml:"allow_hold"`
	ShowGhost      bool `yaml:"show_ghost"`
	CascadeStepMs  int  `yaml:"cascade_step_ms"`
}

// DuoConfig defines local two-player rules.
type DuoConfig struct {
	// GarbageTable maps lines cleared by one hard drop to rows sent.
	GarbageTable map[int]int `yaml:"garbage_table"`
}

// TouchConfig holds gesture thresholds. Distances are in terminal cells.
type TouchConfig struct {
	MoveThreshold  float64 `yaml:"move_threshold"`
	TapThreshold   float64 `yaml:"tap_threshold"`
	SwipeThreshold float64 `yaml:"swipe_threshold"`
	VerticalRatio  float64 `yaml:"vertical_ratio"`
	LongPressMs    int     `yaml:"long_press_ms"`
}

// OnlineConfig defines networked play settings.
type OnlineConfig struct {
	ServerURL     string `yaml:"server_url"`
	PlayerName    string `yaml:"player_name"`
	CountdownSecs int    `yaml:"countdown_secs"`
	AttackMode    string `yaml:"attack_mode"` // "lines" or "garbage"
	ListenAddr    string `yaml:"listen_addr"` // relay server bind address
}

// EffectsConfig selects clear decorations.
type EffectsConfig struct {
	Type string `yaml:"type"` // "particles", "wave" or "none"
}

// Attack modes for online play.
const (
	AttackLines   = "lines"
	AttackGarbage = "garbage"
)

// Validate checks the config for values the games cannot run with.
func (c BlocksConfig) Validate() error {
	r := c.Rules
	if r.Width < 4 || r.Height < 4 {
		return fmt.Errorf("rules: board %dx%d is too small", r.Width, r.Height)
	}
	if r.LockDelayMs <= 0 || r.BaseDropMs <= 0 || r.MinDropMs <= 0 || r.CascadeStepMs <= 0 {
		return fmt.Errorf("rules: timings must be positive")
	}
	if r.MinDropMs > r.BaseDropMs {
		return fmt.Errorf("rules: min_drop_ms %d exceeds base_drop_ms %d", r.MinDropMs, r.BaseDropMs)
	}
	for lines, rows := range c.Duo.GarbageTable {
		if lines < 1 || rows < 0 {
			return fmt.Errorf("duo: invalid garbage entry %d: %d", lines, rows)
		}
	}
	t := c.Touch
	if t.MoveThreshold <= 0 || t.SwipeThreshold <= 0 || t.TapThreshold < 0 {
		return fmt.Errorf("touch: thresholds must be positive")
	}
	if t.VerticalRatio <= 1 {
		return fmt.Errorf("touch: vertical_ratio must be greater than 1, got %v", t.VerticalRatio)
	}
	switch c.Online.AttackMode {
	case AttackLines, AttackGarbage:
	default:
		return fmt.Errorf("online: unknown attack_mode %q", c.Online.AttackMode)
	}
	if c.Online.CountdownSecs < 0 {
		return fmt.Errorf("online: countdown_secs must not be negative")
	}
	switch c.Effects.Type {
	case "particles", "wave", "none":
	default:
		return fmt.Errorf("effects: unknown type %q", c.Effects.Type)
	}
	return nil
}
