// Package session provides the per-player aggregate that owns the inventory,
// equipment coordinator, player entity, enemies and virtual clock, and
// advances them one tick at a time.
package session

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

var (
	// ErrPlayerDead means the player can no longer act.
	ErrPlayerDead = errors.New("player is dead")
	// ErrAttackCooldown means the previous swing's cooldown has not elapsed.
	ErrAttackCooldown = errors.New("attack on cooldown")
	// ErrUnknownItem means the item id is not in the catalog.
	ErrUnknownItem = errors.New("unknown item")
	// ErrClosed means the session has been closed.
	ErrClosed = errors.New("session closed")
)

// Hooks receives gameplay callbacks. *scripting.Manager satisfies it.
type Hooks interface {
	OnHit(targetID string, damage float64, crit bool)
	OnDeath(entityID string)
	OnEquipmentChanged(equipped int)
}

type nopHooks struct{}

func (nopHooks) OnHit(string, float64, bool) {}
func (nopHooks) OnDeath(string)              {}
func (nopHooks) OnEquipmentChanged(int)      {}

// Config holds everything a Session is built from.
type Config struct {
	ID              string
	PlayerName      string
	Capacity        int
	StartingBalance float64
	PlayerBase      stats.Base
	Tuning          stats.Tuning
	Entity          combat.EntityConfig
	Enemy           combat.EnemyConfig
	Catalog         *inventory.Catalog
	Templates       map[string]*npc.Template
	Profiles        map[string]stats.Base
	Source          dice.Source
	// Hooks may be nil.
	Hooks       Hooks
	Logger      *zap.Logger
	EventBuffer int
}

// Session is the explicit owner of one player's game state. Every collaborator
// receives its dependencies from here; nothing is global.
//
// Session is not safe for concurrent use; drive it from one goroutine.
type Session struct {
	id       string
	logger   *zap.Logger
	catalog  *inventory.Catalog
	inv      *inventory.Inventory
	wallet   *equipment.Wallet
	coord    *equipment.Coordinator
	sched    *combat.Scheduler
	registry *combat.Registry
	spawner  *npc.Spawner
	player   *combat.Entity
	roller   *dice.Roller
	hooks    Hooks
	events   *EventSink
	cooldown *combat.Timer
	closed   bool
}

// New builds a Session with an empty bag, a full-health player at the origin
// and no enemies.
//
// Precondition: cfg.ID, cfg.Source and cfg.Logger must be set.
// Postcondition: the player's derived stats reflect an empty equipment map.
func New(cfg Config) (*Session, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("session: id must not be empty")
	}
	if cfg.Source == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("session %s: source and logger must not be nil", cfg.ID)
	}
	if cfg.Catalog == nil {
		cfg.Catalog = inventory.NewCatalog()
	}
	if cfg.Hooks == nil {
		cfg.Hooks = nopHooks{}
	}
	if cfg.PlayerName == "" {
		cfg.PlayerName = "player"
	}
	logger := cfg.Logger.With(zap.String("session", cfg.ID))

	s := &Session{
		id:       cfg.ID,
		logger:   logger,
		catalog:  cfg.Catalog,
		inv:      inventory.NewInventory(cfg.Capacity),
		wallet:   equipment.NewWallet(cfg.StartingBalance),
		sched:    combat.NewScheduler(),
		registry: combat.NewRegistry(),
		roller:   dice.NewLoggedRoller(cfg.Source, logger),
		hooks:    cfg.Hooks,
		events:   NewEventSink(cfg.ID, cfg.EventBuffer),
	}
	s.coord = equipment.NewCoordinator(s.inv, s.wallet, logger)
	s.player = combat.NewEntity(cfg.ID+"/player", cfg.PlayerName, cfg.PlayerBase, cfg.Tuning, cfg.Entity, s.sched)
	s.spawner = npc.NewSpawner(npc.SpawnerConfig{
		Templates: cfg.Templates,
		Profiles:  cfg.Profiles,
		Tuning:    cfg.Tuning,
		Entity:    cfg.Entity,
		Enemy:     cfg.Enemy,
		Scheduler: s.sched,
		Registry:  s.registry,
		Source:    cfg.Source,
		Logger:    logger,
	})

	s.coord.Subscribe(s.onEquipmentChanged)
	s.spawner.OnKill(s.onKill)
	s.player.OnDeath(func(e *combat.Entity) {
		s.logger.Info("player died", zap.String("player", e.ID()))
		s.hooks.OnDeath(e.ID())
		s.emit(Event{Kind: EventDeath, EntityID: e.ID()})
	})
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Player returns the player entity.
func (s *Session) Player() *combat.Entity { return s.player }

// Inventory returns the bag and equipment store for reading.
func (s *Session) Inventory() *inventory.Inventory { return s.inv }

// Coordinator returns the equipment coordinator.
func (s *Session) Coordinator() *equipment.Coordinator { return s.coord }

// Wallet returns the player's wallet.
func (s *Session) Wallet() *equipment.Wallet { return s.wallet }

// Registry returns the active enemy registry.
func (s *Session) Registry() *combat.Registry { return s.registry }

// Catalog returns the item catalog.
func (s *Session) Catalog() *inventory.Catalog { return s.catalog }

// Now returns the session's virtual time.
func (s *Session) Now() time.Duration { return s.sched.Now() }

// Events returns the event channel for the presentation layer.
func (s *Session) Events() <-chan Event { return s.events.Events() }

// Buy purchases the catalog item id into the bag.
func (s *Session) Buy(id string) error {
	item, err := s.lookup(id)
	if err != nil {
		return err
	}
	return s.coord.TryBuy(item)
}

// Grant adds the catalog item id to the bag without payment.
func (s *Session) Grant(id string) error {
	item, err := s.lookup(id)
	if err != nil {
		return err
	}
	return s.coord.Grant(item)
}

// Equip equips the catalog item id from the bag.
func (s *Session) Equip(id string) error {
	item, err := s.lookup(id)
	if err != nil {
		return err
	}
	return s.coord.TryEquip(item)
}

// Unequip returns the item in slot to the bag.
func (s *Session) Unequip(slot inventory.EquipSlot) error {
	if s.closed {
		return ErrClosed
	}
	return s.coord.TryUnequip(slot)
}

// SpawnEnemy creates an enemy from templateID at pos.
func (s *Session) SpawnEnemy(templateID string, pos combat.Vec) (*combat.Enemy, error) {
	if s.closed {
		return nil, ErrClosed
	}
	en, err := s.spawner.Spawn(templateID, pos)
	if err != nil {
		return nil, err
	}
	s.emit(Event{Kind: EventSpawn, EntityID: en.ID()})
	return en, nil
}

// PlayerAttack swings the player's weapon towards facing and applies damage
// to every enemy in the arc. The next swing is allowed once AttackSpeed
// milliseconds have passed.
//
// Postcondition: on error no enemy was touched.
func (s *Session) PlayerAttack(facing float64) ([]combat.HitResult, error) {
	switch {
	case s.closed:
		return nil, ErrClosed
	case s.player.IsDead():
		return nil, ErrPlayerDead
	case s.cooldown.Active():
		return nil, ErrAttackCooldown
	}

	hits := combat.ResolveSwing(s.player, s.player.AttackContext(facing), s.registry.Entities(), s.roller)
	for _, h := range hits {
		if h.Applied <= 0 {
			continue
		}
		s.hooks.OnHit(h.TargetID, h.Applied, h.Crit)
		s.emit(Event{Kind: EventHit, EntityID: h.TargetID, SourceID: s.player.ID(), Amount: h.Applied, Crit: h.Crit})
	}
	cd := time.Duration(s.player.Derived().AttackSpeed * float64(time.Millisecond))
	s.cooldown = s.player.Schedule(cd, func() {})
	return hits, nil
}

// Tick advances the session by dt: pending timers fire, the player
// regenerates, and every living enemy runs its aggression update and moves.
func (s *Session) Tick(dt time.Duration) {
	if s.closed {
		return
	}
	s.sched.Advance(dt)
	s.player.Regenerate(dt)
	for _, en := range s.registry.Living() {
		d := en.Update(s.player)
		if d.Attacked && d.Hit.Applied > 0 {
			s.hooks.OnHit(s.player.ID(), d.Hit.Applied, false)
			s.emit(Event{Kind: EventHit, EntityID: s.player.ID(), SourceID: en.ID(), Amount: d.Hit.Applied})
		}
		en.Move(d.Velocity, dt)
	}
}

// Close stops respawns, cancels the player's timers and closes the event channel.
// Safe to call multiple times.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.spawner.Stop()
	s.player.CancelTimers()
	_ = s.events.Close()
}

func (s *Session) lookup(id string) (*inventory.Item, error) {
	if s.closed {
		return nil, ErrClosed
	}
	item, ok := s.catalog.Item(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %q: %w", s.id, id, ErrUnknownItem)
	}
	return item, nil
}

func (s *Session) onEquipmentChanged(snap inventory.EquippedSnapshot) {
	s.player.Recompute(stats.ComputeGearStats(snap))
	s.hooks.OnEquipmentChanged(snap.Count())
	s.emit(Event{Kind: EventEquipmentChanged, EntityID: s.player.ID(), Equipped: snap.Count()})
}

func (s *Session) onKill(en *combat.Enemy, tmpl *npc.Template, loot npc.LootResult) {
	s.hooks.OnDeath(en.ID())
	s.emit(Event{Kind: EventDeath, EntityID: en.ID()})
	if loot.Empty() {
		return
	}
	s.wallet.Credit(float64(loot.Currency))
	var granted []string
	for _, id := range loot.ItemIDs {
		item, ok := s.catalog.Item(id)
		if !ok {
			s.logger.Warn("loot references unknown item", zap.String("template", tmpl.ID), zap.String("item", id))
			continue
		}
		if err := s.coord.Grant(item); err != nil {
			s.logger.Debug("loot dropped", zap.String("item", id), zap.Error(err))
			continue
		}
		granted = append(granted, id)
	}
	s.emit(Event{Kind: EventLoot, EntityID: en.ID(), Amount: float64(loot.Currency), Items: granted})
}

func (s *Session) emit(ev Event) {
	ev.At = s.sched.Now()
	if err := s.events.Push(ev); err != nil {
		s.logger.Debug("event dropped", zap.Stringer("kind", ev.Kind), zap.Error(err))
	}
}
