package cli

import (
	"github.com/spf13/cobra"

	"github.com/dotfold/dotfold/pkg/deploy"
	"github.com/dotfold/dotfold/pkg/errors"
)

func newUndeployCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "undeploy",
		Short: "Remove every managed symlink and template",
		Long: `Undeploy ignores the desired state entirely and removes each entity the
cache records as managed, symlinks first. Entities that were externally
modified are skipped unless --force is given and remain in the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			errorOccurred, err := deploy.Undeploy(flags.options())
			if err != nil {
				return err
			}
			if errorOccurred {
				return errors.New(errors.ErrActionExecute, "one or more actions failed")
			}
			return nil
		},
	}
}
