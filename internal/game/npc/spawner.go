package npc

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

// KillFunc is called after an enemy spawned by a Spawner dies, with the loot
// it dropped.
type KillFunc func(en *combat.Enemy, tmpl *Template, loot LootResult)

// SpawnerConfig holds the collaborators and defaults a Spawner builds enemies with.
type SpawnerConfig struct {
	Templates map[string]*Template
	Profiles  map[string]stats.Base
	Tuning    stats.Tuning
	Entity    combat.EntityConfig
	Enemy     combat.EnemyConfig
	Scheduler *combat.Scheduler
	Registry  *combat.Registry
	Source    dice.Source
	Logger    *zap.Logger
}

// Spawner creates enemies from templates, registers them, rolls their loot on
// death, and schedules respawns at the original spawn point.
//
// Every respawn is a new Entity with a new id; dead entities are never revived.
type Spawner struct {
	cfg     SpawnerConfig
	pending map[*combat.Timer]struct{}
	onKill  []KillFunc
	stopped bool
}

// NewSpawner returns a Spawner.
//
// Precondition: cfg.Scheduler, cfg.Registry, cfg.Source and cfg.Logger must be non-nil.
func NewSpawner(cfg SpawnerConfig) *Spawner {
	if cfg.Templates == nil {
		cfg.Templates = make(map[string]*Template)
	}
	return &Spawner{cfg: cfg, pending: make(map[*combat.Timer]struct{})}
}

// OnKill registers fn to run for every enemy death.
func (s *Spawner) OnKill(fn KillFunc) {
	s.onKill = append(s.onKill, fn)
}

// Template returns the template with id.
func (s *Spawner) Template(id string) (*Template, bool) {
	t, ok := s.cfg.Templates[id]
	return t, ok
}

// PendingRespawns returns the number of scheduled respawns.
func (s *Spawner) PendingRespawns() int { return len(s.pending) }

// Spawn creates an enemy from templateID at pos and registers it.
//
// Postcondition: on success the enemy is alive, registered, and has a fresh uuid.
func (s *Spawner) Spawn(templateID string, pos combat.Vec) (*combat.Enemy, error) {
	if s.stopped {
		return nil, fmt.Errorf("npc: spawner stopped")
	}
	tmpl, ok := s.cfg.Templates[templateID]
	if !ok {
		return nil, fmt.Errorf("npc: unknown template %q", templateID)
	}

	id := uuid.New().String()
	ent := combat.NewEntity(id, tmpl.Name, tmpl.Base(s.cfg.Profiles), s.cfg.Tuning, s.cfg.Entity, s.cfg.Scheduler)
	if tmpl.Width > 0 && tmpl.Height > 0 {
		ent.SetSize(tmpl.Width, tmpl.Height)
	}
	ent.SetPosition(pos)
	en := combat.NewEnemy(ent, tmpl.EnemyConfig(s.cfg.Enemy))
	if err := s.cfg.Registry.Register(en); err != nil {
		return nil, fmt.Errorf("npc: spawning %q: %w", templateID, err)
	}
	ent.OnDeath(func(*combat.Entity) { s.handleDeath(en, tmpl, pos) })

	s.cfg.Logger.Debug("enemy spawned",
		zap.String("id", id),
		zap.String("template", tmpl.ID),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
	)
	return en, nil
}

// Stop cancels every pending respawn and refuses further spawns.
//
// Postcondition: PendingRespawns() == 0.
func (s *Spawner) Stop() {
	s.stopped = true
	for t := range s.pending {
		t.Stop()
	}
	clear(s.pending)
}

func (s *Spawner) handleDeath(en *combat.Enemy, tmpl *Template, spawnPoint combat.Vec) {
	var loot LootResult
	if tmpl.Loot != nil {
		loot = GenerateLoot(*tmpl.Loot, s.cfg.Source)
	}
	s.cfg.Logger.Debug("enemy killed",
		zap.String("id", en.ID()),
		zap.String("template", tmpl.ID),
		zap.Int("currency", loot.Currency),
		zap.Strings("items", loot.ItemIDs),
	)
	for _, fn := range s.onKill {
		fn(en, tmpl, loot)
	}

	delay := tmpl.Respawn()
	if delay <= 0 || s.stopped {
		return
	}
	var t *combat.Timer
	t = s.cfg.Scheduler.After(delay, func() {
		delete(s.pending, t)
		if _, err := s.Spawn(tmpl.ID, spawnPoint); err != nil {
			s.cfg.Logger.Warn("respawn failed", zap.String("template", tmpl.ID), zap.Error(err))
		}
	})
	s.pending[t] = struct{}{}
}
