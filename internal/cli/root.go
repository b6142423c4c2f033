// Package cli wires the dotfold commands.
package cli

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dotfold/dotfold/internal/version"
	"github.com/dotfold/dotfold/pkg/deploy"
	"github.com/dotfold/dotfold/pkg/logging"
	"github.com/dotfold/dotfold/pkg/paths"
	"github.com/dotfold/dotfold/pkg/style"
)

// rootFlags holds the persistent flag values shared by all commands
type rootFlags struct {
	verbosity   int
	dryRun      bool
	force       bool
	interactive bool
	noColor     bool

	dir          string
	globalConfig string
	localConfig  string
	cacheFile    string
	cacheDir     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "dotfold",
		Short: "A declarative symlink and template reconciler",
		Long: `dotfold converges your dotfiles to a declared desired state: it plans
the minimal set of symlink and template operations needed, refuses to
overwrite files it does not recognize as its own, and keeps a cache of
what it manages between runs.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			if flags.noColor {
				style.DisableColor()
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Preview changes without executing them")
	pf.BoolVar(&flags.force, "force", false, "Overwrite or remove files in conflict state")
	pf.BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt before destructive operations")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable styled output")
	pf.StringVarP(&flags.dir, "dir", "d", "", "Directory containing the .dotfold layout (default: current directory)")
	pf.StringVar(&flags.globalConfig, "global-config", "", "Path to the global configuration file")
	pf.StringVar(&flags.localConfig, "local-config", "", "Path to the local configuration file")
	pf.StringVar(&flags.cacheFile, "cache-file", "", "Path to the cache file")
	pf.StringVar(&flags.cacheDir, "cache-directory", "", "Directory for rendered template artifacts")

	rootCmd.AddCommand(newDeployCmd(flags))
	rootCmd.AddCommand(newUndeployCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// options resolves the run options from defaults and flag overrides
func (f *rootFlags) options() deploy.Options {
	p := paths.New(f.dir)
	if f.globalConfig != "" {
		p.GlobalConfig = f.globalConfig
	}
	if f.localConfig != "" {
		p.LocalConfig = f.localConfig
	}
	if f.cacheFile != "" {
		p.CacheFile = f.cacheFile
	}
	if f.cacheDir != "" {
		p.CacheDir = f.cacheDir
	}

	return deploy.Options{
		Act:          !f.dryRun,
		Force:        f.force,
		Interactive:  f.interactive,
		GlobalConfig: p.GlobalConfig,
		LocalConfig:  p.LocalConfig,
		CacheFile:    p.CacheFile,
		CacheDir:     p.CacheDir,
		PreDeploy:    filepath.Join(p.HooksDir, "pre_deploy"),
		PostDeploy:   filepath.Join(p.HooksDir, "post_deploy"),
		PreUndeploy:  filepath.Join(p.HooksDir, "pre_undeploy"),
		PostUndeploy: filepath.Join(p.HooksDir, "post_undeploy"),
	}
}
