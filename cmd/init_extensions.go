/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Extensions register during init() but aren't initialised until first
// command execution, so they can declare commands before the store exists.
// The service is created once and shared across all extensions via the
// Context.

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/repo"
)

// noStoreCommands lists commands that bypass automatic store initialisation.
// Built from bootstrap commands plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// authorRequiredCommands lists commands that write or modify item data.
var authorRequiredCommands = map[string]bool{
	"create":  true,
	"update":  true,
	"rm":      true,
	"restore": true,
	"vacuum":  true,
	"import":  true,
	"edit":    true,
	"revert":  true,
}

// buildNoStoreCommands creates the set of commands that skip store
// initialisation: the bootstrap commands, and anything an extension declares
// through extension.Storeless.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":       true,
		"config":     true,
		"help":       true,
		"completion": true,
	}

	for _, s := range extension.Having[extension.Storeless]() {
		for _, name := range s.NoStoreCommands() {
			cmds[name] = true
		}
	}
	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extService *library.Service
	initOnce   sync.Once
	initErr    error
)

// OpenService opens the item service for the --db and --dir flags.
// Storeless commands that manage their own lifecycle use it directly.
func OpenService() (*library.Service, error) {
	if d := Dir(); d != "" {
		return library.NewInDir(filepath.Join(d, repo.Dir), DB())
	}
	return library.New(DB())
}

// Service initialises extensions and returns the shared item service.
// Storeless commands call it once they know they need the store.
func Service() (*library.Service, error) {
	if err := initExtensions(); err != nil {
		return nil, err
	}
	return extService, nil
}

// initExtensions creates the item service and injects it into extensions.
// It runs once per process.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := OpenService()
		if err != nil {
			initErr = fmt.Errorf("opening database: %w", err)
			return
		}
		extService = svc

		log.SetProject(svc.Dir())

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		extContext = extension.NewContext(svc, svc.DB(), cfg)
		svc.SetExtensionContext(extContext)

		for _, ext := range extension.Having[extension.Initializable]() {
			if err := ext.Init(extContext); err != nil {
				initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
				return
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}
		noStoreCommands = buildNoStoreCommands()
	})
}
