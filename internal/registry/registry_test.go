package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blocks/internal/core"
)

type stubGame struct{ id string }

func (s *stubGame) ID() string {
	return s.id
}

func (s *stubGame) Title() string {
	return "Stub " + s.id
}

func (s *stubGame) Reset(core.RuntimeConfig) {}

func (s *stubGame) Step(core.InputFrame) core.StepResult {
	return core.StepResult{}
}

func (s *stubGame) Render(*core.Screen) {}

func (s *stubGame) State() core.GameState {
	return core.GameState{}
}

type stubMulti struct{ stubGame }

func (s *stubMulti) StepMulti(core.MultiInputFrame) core.StepResult {
	return core.StepResult{}
}

func (s *stubMulti) Winner() int {
	return 0
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-solo", func() Game { return &stubGame{id: "zz-solo"} })
	Register("zz-multi", func() Game { return &stubMulti{stubGame{id: "zz-multi"}} })

	assert.True(t, Exists("zz-solo"))
	assert.False(t, Exists("zz-missing"))

	g, err := Create("zz-solo")
	require.NoError(t, err)
	assert.Equal(t, "zz-solo", g.ID())

	_, err = Create("zz-missing")
	assert.Error(t, err)

	infos := make(map[string]GameInfo)
	var ids []string
	for _, info := range List() {
		infos[info.ID] = info
		ids = append(ids, info.ID)
	}
	assert.IsIncreasing(t, ids)
	assert.Equal(t, GameInfo{ID: "zz-solo", Title: "Stub zz-solo", Players: 1}, infos["zz-solo"])
	assert.Equal(t, 2, infos["zz-multi"].Players)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })
	assert.Panics(t, func() {
		Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })
	})
}
