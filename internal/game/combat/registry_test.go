package combat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestRegistry_LivingIsOrderedCopy(t *testing.T) {
	sched := combat.NewScheduler()
	reg := combat.NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, reg.Register(newEnemy(id, sched)))
	}

	living := reg.Living()
	ids := make([]string, len(living))
	for i, en := range living {
		ids[i] = en.ID()
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	// killing while iterating a snapshot leaves the snapshot intact
	for _, en := range living {
		en.TakeDamage(1000, combat.Physical, 0)
	}
	assert.Len(t, living, 3)
	assert.Zero(t, reg.Len())
}

func TestRegistry_PropertyLenMatchesLiving(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sched := combat.NewScheduler()
		reg := combat.NewRegistry()
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		enemies := make([]*combat.Enemy, n)
		for i := range enemies {
			enemies[i] = newEnemy(fmt.Sprintf("e%d", i), sched)
			if err := reg.Register(enemies[i]); err != nil {
				rt.Fatalf("register: %v", err)
			}
		}
		kills := rapid.SliceOfDistinct(rapid.IntRange(0, n-1), func(i int) int { return i }).Draw(rt, "kills")
		for _, i := range kills {
			enemies[i].TakeDamage(1000, combat.Physical, 0)
		}
		if reg.Len() != n-len(kills) || len(reg.Living()) != reg.Len() {
			rt.Fatalf("len %d living %d want %d", reg.Len(), len(reg.Living()), n-len(kills))
		}
	})
}
