package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a configuration file, move back up a level.
	if base := filepath.Base(path); base == ConfigurationName || base == TOMLConfigurationName {
		path = filepath.Dir(path)
	}

	cfg, err := LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path))
	if err != nil {
		return nil, err
	}
	cfg.dir = path
	return cfg, nil
}

// LoadFs loads parsley.yaml, or parsley.toml if there's no YAML file, from
// the root of fsys. Fields missing from the file keep their default values.
func LoadFs(fsys afero.Fs) (*Configuration, error) {
	out := defaultConfig()
	out.configFs = fsys

	yamlContents, err := afero.ReadFile(fsys, ConfigurationName)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(yamlContents, out); err != nil {
			return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
		}

	case errors.Is(err, fs.ErrNotExist):
		tomlContents, err := afero.ReadFile(fsys, TOMLConfigurationName)
		if err != nil {
			return nil, err
		}
		if err := decodeTOML(tomlContents, out); err != nil {
			return nil, fmt.Errorf("%s: %w", TOMLConfigurationName, err)
		}

	default:
		return nil, err
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeTOML rejects unknown keys, matching the strict YAML loader.
func decodeTOML(data []byte, out *Configuration) error {
	md, err := toml.Decode(string(data), out)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown fields: %s", strings.Join(keys, ", "))
	}
	return nil
}
