package pipeline

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sliced/pkg/errors"
)

// LoadOptionsFile reads options from a TOML file on top of base. Keys missing
// from the file keep the value from base.
//
//	title = "Nocturne"
//	paper = "a4"
//	margin = 15
//	page_limit = 4
//	formats = ["pdf", "json"]
func LoadOptionsFile(path string, base Options) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, errors.Wrap(errors.ErrCodeNotFound, err, "options file %s", path)
		}
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read options file %s", path)
	}
	return ParseOptions(data, base)
}

// ParseOptions decodes TOML options on top of base and rejects unknown keys.
func ParseOptions(data []byte, base Options) (Options, error) {
	opts := base
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse options")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, errors.New(errors.ErrCodeInvalidConfig, "unknown option %q", undecoded[0].String())
	}
	return opts, nil
}
