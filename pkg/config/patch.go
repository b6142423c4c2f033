package config

import (
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/dotfold/dotfold/pkg/errors"
)

// ParsePatch decodes a TOML manual patch (read from stdin by the CLI)
// into a Configuration overlay. Entries may use the string shorthand or
// the full table form, same as the configuration files.
func ParsePatch(data []byte) (*Configuration, error) {
	k := koanf.New("::")
	if err := k.Load(rawbytes.Provider(data), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrPatchParse, "parse patch")
	}
	return fromKoanf(k)
}
