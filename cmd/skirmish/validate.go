package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate item, profile, npc and script content",
	Long: `Validate loads every content directory named in the configuration,
reports each problem found and exits non-zero when any content is invalid.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return runValidate(cfg.Content, cmd.OutOrStdout(), logger)
	},
}

// errInvalidContent is returned by runValidate when any check fails.
var errInvalidContent = errors.New("content validation failed")

// runValidate checks every content set independently so one broken directory
// does not hide problems in another.
//
// Postcondition: writes one line per content set to out; returns
// errInvalidContent when any line reports a failure.
func runValidate(cfg config.ContentConfig, out io.Writer, logger *zap.Logger) error {
	failed := false
	report := func(name string, n int, err error) {
		if err != nil {
			failed = true
			fmt.Fprintf(out, "FAIL %-8s %v\n", name, err)
			return
		}
		fmt.Fprintf(out, "ok   %-8s %d\n", name, n)
	}

	var catalog *inventory.Catalog
	items, err := inventory.LoadItems(cfg.ItemsDir)
	if err == nil {
		var bad int
		if bad, err = inventory.ValidateCatalog(items); err != nil {
			err = fmt.Errorf("%d invalid entries: %w", bad, err)
		}
	}
	if err == nil {
		catalog, err = inventory.LoadCatalog(cfg.ItemsDir)
	}
	report("items", len(items), err)

	profiles, err := stats.LoadProfiles(cfg.ProfilesDir)
	report("profiles", len(profiles), err)

	templates, err := npc.LoadTemplates(cfg.NPCsDir)
	if err == nil && catalog != nil {
		err = crossCheck(catalog, profiles, templates)
	}
	report("npcs", len(templates), err)

	if cfg.ScriptsDir != "" {
		mgr := scripting.NewManager(observability.ForComponent(logger, "scripting"), cfg.ScriptInstructionLimit)
		err := mgr.Load(cfg.ScriptsDir)
		hooks := 0
		for _, h := range []string{scripting.HookOnHit, scripting.HookOnDeath, scripting.HookOnEquipmentChanged} {
			if mgr.HasHook(h) {
				hooks++
			}
		}
		mgr.Close()
		report("scripts", hooks, err)
	}

	if failed {
		return errInvalidContent
	}
	return nil
}
