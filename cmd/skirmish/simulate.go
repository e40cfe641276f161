package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/server"
)

// simulateOptions holds the simulate command flags.
type simulateOptions struct {
	Ticks    int
	Interval time.Duration
	Seed     uint64
	Enemies  []string
	Loadout  []string
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless combat session",
	Long: `Simulate buys and equips a loadout, spawns enemies from npc templates and
runs the session tick loop, printing every session event. The player swings
at the nearest living enemy whenever its attack is ready.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		content, err := loadContent(cfg.Content, logger)
		if err != nil {
			return err
		}
		defer content.Close()

		opts := simOpts
		if opts.Interval <= 0 {
			opts.Interval = cfg.Combat.TickInterval
		}
		sim, err := newSimulation(cfg, content, opts, logger, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer sim.s.Close()

		lc := server.NewLifecycle(logger)
		lc.Add("session-tick", server.NewTickService(sim.s, server.TickConfig{
			Interval:  opts.Interval,
			MaxTicks:  opts.Ticks,
			AfterTick: sim.step,
		}, logger))
		if err := lc.Run(cmd.Context()); err != nil {
			return err
		}
		sim.summary()
		return nil
	},
}

func init() {
	f := simulateCmd.Flags()
	f.IntVar(&simOpts.Ticks, "ticks", 400, "number of ticks to run; 0 runs until interrupted")
	f.DurationVar(&simOpts.Interval, "interval", 0, "tick interval; 0 uses combat.tick_interval")
	f.Uint64Var(&simOpts.Seed, "seed", 0, "seed for reproducible rolls; 0 uses crypto/rand")
	f.StringSliceVar(&simOpts.Enemies, "enemies", []string{"dummy", "bandit"}, "npc template ids to spawn")
	f.StringSliceVar(&simOpts.Loadout, "loadout", []string{"arming_sword", "chain_shirt", "leather_cap"}, "item ids to buy and equip")
}

// simulation is one running headless session and its output.
type simulation struct {
	s      *session.Session
	out    io.Writer
	logger *zap.Logger
}

// newSimulation builds a session from cfg and content, buys and equips the
// loadout and spawns the enemies. Loadout failures are reported and skipped.
//
// Precondition: content was returned by loadContent.
// Postcondition: the caller owns the returned session and must Close it.
func newSimulation(cfg config.Config, content gameContent, opts simulateOptions, logger *zap.Logger, out io.Writer) (*simulation, error) {
	var src dice.Source
	if opts.Seed != 0 {
		src = dice.NewSeededSource(opts.Seed)
	} else {
		src = dice.NewCryptoSource()
	}

	id := uuid.NewString()
	sessCfg := session.Config{
		ID:              id,
		PlayerName:      "player",
		Capacity:        cfg.Inventory.Capacity,
		StartingBalance: cfg.Inventory.StartingBalance,
		PlayerBase:      content.PlayerBase(),
		Tuning:          cfg.Stats,
		Entity:          cfg.Combat.Entity(),
		Enemy:           cfg.Combat.Enemy(),
		Catalog:         content.Catalog,
		Templates:       content.Templates,
		Profiles:        content.Profiles,
		Source:          src,
		Logger:          observability.ForSession(logger, id),
	}
	if content.Scripts != nil {
		sessCfg.Hooks = content.Scripts
	}
	s, err := session.New(sessCfg)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	sim := &simulation{s: s, out: out, logger: logger}
	if content.Scripts != nil {
		bindScripts(content.Scripts, sim)
	}

	for _, itemID := range opts.Loadout {
		if err := s.Buy(itemID); err != nil {
			fmt.Fprintf(out, "buy %s: %v\n", itemID, err)
			continue
		}
		if err := s.Equip(itemID); err != nil {
			fmt.Fprintf(out, "equip %s: %v\n", itemID, err)
		}
	}
	for i, tmplID := range opts.Enemies {
		pos := combat.Vec{X: 120 + 80*float64(i)}
		if _, err := s.SpawnEnemy(tmplID, pos); err != nil {
			s.Close()
			return nil, fmt.Errorf("spawning %q: %w", tmplID, err)
		}
	}
	return sim, nil
}

// bindScripts exposes the session's entities to engine.entity.*.
func bindScripts(mgr *scripting.Manager, sim *simulation) {
	mgr.GetEntity = func(id string) *scripting.EntityInfo {
		e := sim.entity(id)
		if e == nil {
			return nil
		}
		return &scripting.EntityInfo{
			ID:    e.ID(),
			Name:  e.Name(),
			HP:    e.HP(),
			MaxHP: e.Derived().MaxHP,
			Dead:  e.IsDead(),
		}
	}
	mgr.Heal = func(id string, amount float64) float64 {
		e := sim.entity(id)
		if e == nil {
			return 0
		}
		return e.Heal(amount)
	}
}

// entity resolves id to the player or a registered enemy.
func (sim *simulation) entity(id string) *combat.Entity {
	if p := sim.s.Player(); p.ID() == id {
		return p
	}
	if en, ok := sim.s.Registry().Get(id); ok {
		return en.Entity
	}
	return nil
}

// step runs after every tick: it prints pending events and swings at the
// nearest living enemy. It returns false once the player is dead.
func (sim *simulation) step(_ int) bool {
	sim.drain()
	player := sim.s.Player()
	if player.IsDead() {
		fmt.Fprintf(sim.out, "%8s player is dead, stopping\n", sim.s.Now())
		return false
	}
	target := sim.nearest()
	if target == nil {
		return true
	}
	facing := combat.FacingTowards(player.Position(), target.Position())
	if _, err := sim.s.PlayerAttack(facing); err != nil && !errors.Is(err, session.ErrAttackCooldown) {
		sim.logger.Debug("attack refused", zap.Error(err))
	}
	return true
}

func (sim *simulation) nearest() *combat.Enemy {
	origin := sim.s.Player().Position()
	var best *combat.Enemy
	bestDist := math.Inf(1)
	for _, en := range sim.s.Registry().Living() {
		if d := origin.DistanceTo(en.Position()); d < bestDist {
			best, bestDist = en, d
		}
	}
	return best
}

// drain prints every buffered event without blocking.
func (sim *simulation) drain() {
	for {
		select {
		case ev, ok := <-sim.s.Events():
			if !ok {
				return
			}
			fmt.Fprintln(sim.out, formatEvent(ev))
		default:
			return
		}
	}
}

// summary prints the final player state.
func (sim *simulation) summary() {
	sim.drain()
	p := sim.s.Player()
	d := p.Derived()
	fmt.Fprintf(sim.out, "\nplayer hp %.1f/%.1f  balance %.0f  enemies alive %d\n",
		p.HP(), d.MaxHP, sim.s.Wallet().Balance(), len(sim.s.Registry().Living()))

	var equipped []string
	for _, slot := range inventory.EquipSlots {
		if item := sim.s.Inventory().EquippedIn(slot); item != nil {
			equipped = append(equipped, fmt.Sprintf("%s=%s", slot, item.ID))
		}
	}
	fmt.Fprintf(sim.out, "equipped: %s\n", strings.Join(equipped, " "))

	var bag []string
	for _, entry := range sim.s.Inventory().BagItems() {
		bag = append(bag, fmt.Sprintf("%d:%s", entry.Slot, entry.Item.ID))
	}
	fmt.Fprintf(sim.out, "bag (%d/%d): %s\n", len(bag), sim.s.Inventory().Capacity(), strings.Join(bag, " "))
}

func formatEvent(ev session.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%8s %-17s %s", ev.At, ev.Kind, ev.EntityID)
	switch ev.Kind {
	case session.EventHit:
		fmt.Fprintf(&b, " <- %s %.1f", ev.SourceID, ev.Amount)
		if ev.Crit {
			b.WriteString(" CRIT")
		}
	case session.EventEquipmentChanged:
		fmt.Fprintf(&b, " slots=%d", ev.Equipped)
	case session.EventLoot:
		fmt.Fprintf(&b, " currency=%.0f items=%v", ev.Amount, ev.Items)
	}
	return b.String()
}
