package blocks

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/input"
)

var (
	configMu     sync.RWMutex
	activeConfig = config.DefaultBlocksConfig()
)

// Configure sets the config used by games reset after this call.
func Configure(cfg config.BlocksConfig) {
	configMu.Lock()
	defer configMu.Unlock()
	activeConfig = cfg
}

// CurrentConfig returns the config games are built from.
func CurrentConfig() config.BlocksConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return activeConfig
}

// EngineOptions converts the rules section into engine options.
func EngineOptions(r config.RulesConfig, seed int64) engine.Options {
	return engine.Options{
		Width:            r.Width,
		Height:           r.Height,
		Seed:             seed,
		LockDelay:        float64(r.LockDelayMs),
		BaseDropInterval: float64(r.BaseDropMs),
		MinDropInterval:  float64(r.MinDropMs),
		GravityScaling:   r.GravityScaling,
		AllowHold:        r.AllowHold,
	}
}

// GarbageTable converts the duo section into an engine attack table.
func GarbageTable(d config.DuoConfig) engine.GarbageTable {
	if len(d.GarbageTable) == 0 {
		return engine.DefaultGarbageTable()
	}
	t := make(engine.GarbageTable, len(d.GarbageTable))
	for lines, rows := range d.GarbageTable {
		t[lines] = rows
	}
	return t
}

// TouchConfig converts the touch section into classifier thresholds.
func TouchConfig(t config.TouchConfig) input.TouchConfig {
	def := input.DefaultTouchConfig()
	out := input.TouchConfig{
		MoveThreshold:  t.MoveThreshold,
		TapThreshold:   t.TapThreshold,
		SwipeThreshold: t.SwipeThreshold,
		VerticalRatio:  t.VerticalRatio,
		LongPress:      def.LongPress,
	}
	if out.MoveThreshold <= 0 {
		out.MoveThreshold = def.MoveThreshold
	}
	if out.TapThreshold <= 0 {
		out.TapThreshold = def.TapThreshold
	}
	if out.SwipeThreshold <= 0 {
		out.SwipeThreshold = def.SwipeThreshold
	}
	if out.VerticalRatio <= 0 {
		out.VerticalRatio = def.VerticalRatio
	}
	if t.LongPressMs > 0 {
		out.LongPress = time.Duration(t.LongPressMs) * time.Millisecond
	}
	return out
}
