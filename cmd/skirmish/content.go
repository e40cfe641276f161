package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// playerProfile is the profile id used for the player's base stats.
const playerProfile = "player"

// gameContent is everything loaded from the content directories.
type gameContent struct {
	Catalog   *inventory.Catalog
	Profiles  map[string]stats.Base
	Templates map[string]*npc.Template
	// Scripts is nil when scripting is disabled.
	Scripts *scripting.Manager
}

// PlayerBase returns the "player" profile, or the built-in player stats.
func (c gameContent) PlayerBase() stats.Base {
	if b, ok := c.Profiles[playerProfile]; ok {
		return b
	}
	return stats.PlayerBase()
}

// Close releases the scripting VM, if any.
func (c gameContent) Close() {
	if c.Scripts != nil {
		c.Scripts.Close()
	}
}

// loadContent loads and cross-checks every content directory named in cfg.
//
// Postcondition: on success every loot entry names a catalog item and every
// template profile exists; on error nothing needs closing.
func loadContent(cfg config.ContentConfig, logger *zap.Logger) (gameContent, error) {
	start := time.Now()

	catalog, err := inventory.LoadCatalog(cfg.ItemsDir)
	if err != nil {
		return gameContent{}, fmt.Errorf("loading items: %w", err)
	}
	profiles, err := stats.LoadProfiles(cfg.ProfilesDir)
	if err != nil {
		return gameContent{}, fmt.Errorf("loading profiles: %w", err)
	}
	templates, err := npc.LoadTemplates(cfg.NPCsDir)
	if err != nil {
		return gameContent{}, fmt.Errorf("loading npcs: %w", err)
	}
	if err := crossCheck(catalog, profiles, templates); err != nil {
		return gameContent{}, err
	}

	var scripts *scripting.Manager
	if cfg.ScriptsDir != "" {
		scripts = scripting.NewManager(observability.ForComponent(logger, "scripting"), cfg.ScriptInstructionLimit)
		if err := scripts.Load(cfg.ScriptsDir); err != nil {
			return gameContent{}, fmt.Errorf("loading scripts: %w", err)
		}
	}

	logger.Info("content loaded",
		zap.Int("items", catalog.Len()),
		zap.Int("profiles", len(profiles)),
		zap.Int("npcs", len(templates)),
		zap.Bool("scripting", scripts != nil),
		zap.Duration("elapsed", time.Since(start)),
	)
	return gameContent{Catalog: catalog, Profiles: profiles, Templates: templates, Scripts: scripts}, nil
}

// crossCheck verifies references between content sets.
func crossCheck(catalog *inventory.Catalog, profiles map[string]stats.Base, templates map[string]*npc.Template) error {
	for id, tmpl := range templates {
		if tmpl.Profile != "" && tmpl.Stats == nil {
			if _, ok := profiles[tmpl.Profile]; !ok {
				return fmt.Errorf("npc %q: unknown profile %q", id, tmpl.Profile)
			}
		}
		if tmpl.Loot == nil {
			continue
		}
		for _, drop := range tmpl.Loot.Items {
			if _, ok := catalog.Item(drop.ItemID); !ok {
				return fmt.Errorf("npc %q: loot references unknown item %q", id, drop.ItemID)
			}
		}
	}
	return nil
}
