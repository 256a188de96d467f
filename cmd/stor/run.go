package main

import (
	"github.com/arthur-debert/stor/pkg/config"
	"github.com/arthur-debert/stor/pkg/errors"
	"github.com/arthur-debert/stor/pkg/filesystem"
	"github.com/arthur-debert/stor/pkg/logging"
	"github.com/arthur-debert/stor/pkg/paths"
	"github.com/arthur-debert/stor/pkg/stow"
)

// options collects the run settings parsed from the command line.
type options struct {
	target    string
	simulate  bool
	delete    bool
	restow    bool
	copy      bool
	overwrite bool
}

// run processes the requested modules strictly in order. An invalid
// module or target skips that module with a warning; an engine failure
// aborts only the current module's walk, and the remaining modules are
// still attempted.
func run(opts options, modules []string) error {
	logger := logging.GetLogger("cmd.run")

	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	target := opts.target
	if target == "" {
		target = cfg.Target
	}
	if target == "" {
		target = paths.DefaultTarget()
	}

	// Boolean flags can only enable what the config left off.
	policy := stow.Policy{
		Copy:      opts.copy || cfg.Copy,
		Overwrite: opts.overwrite || cfg.Overwrite,
		Simulate:  opts.simulate || cfg.Simulate,
	}
	stower := stow.New(filesystem.NewOS(), policy)

	failed := 0
	for _, module := range modules {
		if err := processModule(stower, module, target, opts); err != nil {
			logger.Error().Err(err).Str("module", module).Msg("Module failed")
			failed++
		}
	}

	if policy.Simulate {
		logger.Warn().Msg("Simulate: in simulation mode so not modifying filesystem")
	}
	if failed > 0 {
		err := errors.Newf(errors.ErrInternal, "%d module(s) failed", failed)
		logger.Error().Int("failed", failed).Msg("Run finished with errors")
		return err
	}
	return nil
}

// processModule validates the roots, resolves them to absolute form,
// and dispatches the requested operation.
func processModule(stower *stow.Stower, module, target string, opts options) error {
	logger := logging.GetLogger("cmd.run")

	if !paths.IsDir(module) {
		logger.Warn().Str("module", module).Msg("Skip: module doesn't exist or is a file")
		return nil
	}
	if !paths.IsDir(target) {
		logger.Warn().Str("target", target).Msg("Skip: target doesn't exist or is a file")
		return nil
	}

	moduleAbs, err := paths.Resolve(module)
	if err != nil {
		return err
	}
	targetAbs, err := paths.Resolve(target)
	if err != nil {
		return err
	}

	switch {
	case opts.delete:
		return stower.Unstow(moduleAbs, targetAbs)
	case opts.restow:
		return stower.Restow(moduleAbs, targetAbs)
	default:
		return stower.Stow(moduleAbs, targetAbs)
	}
}
