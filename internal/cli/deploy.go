package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotfold/dotfold/pkg/config"
	"github.com/dotfold/dotfold/pkg/deploy"
	"github.com/dotfold/dotfold/pkg/errors"
)

func newDeployCmd(flags *rootFlags) *cobra.Command {
	var patch bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Converge symlinks and templates to the configured state",
		Long: `Deploy diffs the configured desired state against the cache of managed
entities and applies the minimal ordered set of create, update, and
delete operations. Files in conflict state are skipped unless --force
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()

			if patch {
				overlay, err := readPatch(cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts.Patch = overlay
			}

			errorOccurred, err := deploy.Deploy(opts)
			if err != nil {
				return err
			}
			if errorOccurred {
				return errors.New(errors.ErrActionExecute, "one or more actions failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&patch, "patch", false, "Read a TOML configuration overlay from stdin")

	return cmd
}

func readPatch(in io.Reader) (*config.Configuration, error) {
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPatchParse, "read patch from stdin")
	}
	return config.ParsePatch(data)
}
