package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dotfold/dotfold/pkg/errors"
	"github.com/dotfold/dotfold/pkg/logging"
)

// EnvVarPrefix is the prefix for environment variables merged into the
// template variable context (DOTFOLD_VAR_EDITOR=vim -> variables.editor).
const EnvVarPrefix = "DOTFOLD_VAR_"

// Load reads the global and local configuration files, merges them
// (local over global), merges DOTFOLD_VAR_* environment variables into
// the variable context, and finally overlays the manual patch if one
// was supplied. The global file must exist; the local file is optional.
func Load(globalPath, localPath string, patch *Configuration) (*Configuration, error) {
	logger := logging.GetLogger("config")

	// Source paths routinely contain dots (tmux.conf), so the default
	// "." delimiter would split keys; use one that cannot appear in a path.
	k := koanf.New("::")

	if err := k.Load(file.Provider(globalPath), parserFor(globalPath)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "load global config from %s", globalPath)
	}

	if _, err := os.Stat(localPath); err == nil {
		if err := k.Load(file.Provider(localPath), parserFor(localPath)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "load local config from %s", localPath)
		}
	} else {
		logger.Debug().Str("path", localPath).Msg("no local config, using global only")
	}

	if err := k.Load(env.Provider(EnvVarPrefix, "::", envToVariableKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "load environment variables")
	}

	cfg, err := fromKoanf(k)
	if err != nil {
		return nil, err
	}

	if patch != nil {
		logger.Debug().
			Int("symlinks", len(patch.Symlinks)).
			Int("templates", len(patch.Templates)).
			Msg("applying manual patch")
		cfg.merge(patch)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("symlinks", len(cfg.Symlinks)).
		Int("templates", len(cfg.Templates)).
		Int("variables", len(cfg.Variables)).
		Msg("configuration loaded")

	return cfg, nil
}

// parserFor picks a koanf parser by file extension; TOML is the default
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func envToVariableKey(key string) string {
	name := strings.ToLower(strings.TrimPrefix(key, EnvVarPrefix))
	return "variables::" + name
}

// fromKoanf converts the merged koanf tree into a Configuration,
// normalizing the string shorthand form ("source" = "target") into the
// full table form.
func fromKoanf(k *koanf.Koanf) (*Configuration, error) {
	cfg := newConfiguration()

	symlinks, ok := k.Get("symlinks").(map[string]interface{})
	if k.Exists("symlinks") && !ok {
		return nil, errors.New(errors.ErrConfigParse, "symlinks section is not a table")
	}
	for source, raw := range symlinks {
		target, err := decodeSymbolicTarget(source, raw)
		if err != nil {
			return nil, err
		}
		cfg.Symlinks[source] = target
	}

	templates, ok := k.Get("templates").(map[string]interface{})
	if k.Exists("templates") && !ok {
		return nil, errors.New(errors.ErrConfigParse, "templates section is not a table")
	}
	for source, raw := range templates {
		target, err := decodeTemplateTarget(source, raw)
		if err != nil {
			return nil, err
		}
		cfg.Templates[source] = target
	}

	if variables, ok := k.Get("variables").(map[string]interface{}); ok {
		for key, value := range variables {
			cfg.Variables[key] = value
		}
	}

	return cfg, nil
}

func decodeSymbolicTarget(source string, raw interface{}) (SymbolicTarget, error) {
	switch v := raw.(type) {
	case string:
		return SymbolicTarget{Target: v}, nil
	case map[string]interface{}:
		return SymbolicTarget{
			Target: stringField(v, "target"),
			Owner:  stringField(v, "owner"),
		}, nil
	default:
		return SymbolicTarget{}, errors.Newf(errors.ErrConfigParse,
			"symlink %q must be a target string or a table", source)
	}
}

func decodeTemplateTarget(source string, raw interface{}) (TemplateTarget, error) {
	switch v := raw.(type) {
	case string:
		return TemplateTarget{Target: v}, nil
	case map[string]interface{}:
		return TemplateTarget{
			Target:  stringField(v, "target"),
			Owner:   stringField(v, "owner"),
			Prepend: stringField(v, "prepend"),
			Append:  stringField(v, "append"),
		}, nil
	default:
		return TemplateTarget{}, errors.Newf(errors.ErrConfigParse,
			"template %q must be a target string or a table", source)
	}
}

func stringField(table map[string]interface{}, key string) string {
	if s, ok := table[key].(string); ok {
		return s
	}
	return ""
}
