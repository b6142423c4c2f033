// Package hooks runs the pre/post lifecycle scripts around deploy and
// undeploy.
//
// A hook script is itself a template: it is rendered with the run's
// variable context, written into the cache directory, made executable,
// and executed with inherited stdio. A missing hook file is a no-op; a
// failing hook aborts the surrounding operation.
package hooks

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dotfold/dotfold/pkg/errors"
	"github.com/dotfold/dotfold/pkg/logging"
	"github.com/dotfold/dotfold/pkg/render"
)

// Run renders and executes the hook script at location, if present
func Run(location, cacheDir string, renderer render.Renderer, variables map[string]interface{}) error {
	logger := logging.GetLogger("hooks")

	content, err := os.ReadFile(location)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("hook", location).Msg("no hook script, skipping")
			return nil
		}
		return errors.Wrapf(err, errors.ErrHookRun, "read hook script %s", location)
	}

	rendered, err := renderer.Render(location, string(content), variables)
	if err != nil {
		return errors.Wrapf(err, errors.ErrHookRun, "render hook script %s", location)
	}

	scriptPath := filepath.Join(cacheDir, filepath.Base(location))
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrHookRun, "create cache directory %s", cacheDir)
	}
	if err := os.WriteFile(scriptPath, []byte(rendered), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrHookRun, "write rendered hook %s", scriptPath)
	}

	logger.Info().Str("hook", location).Msg("running hook")

	cmd := exec.Command(scriptPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrHookRun, "run hook %s", location)
	}
	return nil
}
