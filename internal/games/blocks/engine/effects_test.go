package engine

import "testing"

func TestEffectsNoneSpawnsNothing(t *testing.T) {
	fx := NewEffectSystem(EffectNone, 1)
	fx.Spawn(ClearEvent{Rows: []int{19, 18}, Chain: 1}, 10)
	if fx.Active() {
		t.Error("EffectNone produced effects")
	}
}

func TestEffectsParticlesExpire(t *testing.T) {
	fx := NewEffectSystem(EffectParticles, 1)
	fx.Spawn(ClearEvent{Rows: []int{19, 18}, Chain: 1}, 10)

	if got := len(fx.Particles()); got != 20 {
		t.Errorf("particles = %d, want 20", got)
	}
	if got := len(fx.Effects()); got != 2 {
		t.Errorf("flashes = %d, want 2", got)
	}

	fx.Update(flashDuration)
	if len(fx.Effects()) != 0 {
		t.Error("flash outlived its duration")
	}
	if len(fx.Particles()) != 20 {
		t.Error("particles expired early")
	}
	fx.Update(particleLife)
	if fx.Active() {
		t.Error("particles outlived their life")
	}
}

func TestEffectsKeepSpawnOrder(t *testing.T) {
	fx := NewEffectSystem(EffectWave, 1)
	fx.Spawn(ClearEvent{Rows: []int{19}, Chain: 1}, 10)
	fx.Update(100)
	fx.Spawn(ClearEvent{Rows: []int{17}, Chain: 2}, 10)
	fx.Update(200) // first flash expires

	effects := fx.Effects()
	if len(effects) != 3 {
		t.Fatalf("effects = %d, want 3", len(effects))
	}
	if effects[0].Kind != EffectChainWave || effects[0].Row != 19 {
		t.Errorf("effects[0] = %+v, want the first wave", effects[0])
	}
	if effects[1].Kind != EffectLineFlash || effects[1].Row != 17 {
		t.Errorf("effects[1] = %+v, want the second flash", effects[1])
	}
	if effects[2].Chain != 2 {
		t.Errorf("effects[2].Chain = %d, want 2", effects[2].Chain)
	}
}

func TestEffectsHookedToGame(t *testing.T) {
	g := NewGame(testOptions())
	fx := NewEffectSystem(EffectParticles, 1)
	g.Observe(fx.Hooks(g.Board().Width()))

	fillRow(g.Board(), 19, 4, 5)
	g.current = NewPiece(PieceO, 3, 0)
	g.HardDrop()

	if len(fx.Effects()) != 1 || fx.Effects()[0].Row != 19 {
		t.Errorf("effects = %+v, want one flash on row 19", fx.Effects())
	}
}

func TestParseEffectType(t *testing.T) {
	tests := map[string]EffectType{
		"wave":      EffectWave,
		"none":      EffectNone,
		"particles": EffectParticles,
		"":          EffectParticles,
		"sparkles":  EffectParticles,
	}
	for in, want := range tests {
		if got := ParseEffectType(in); got != want {
			t.Errorf("ParseEffectType(%q) = %q, want %q", in, got, want)
		}
	}
}
