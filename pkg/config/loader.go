package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes environment variables that set config keys
	EnvPrefix = "STOWNG_"

	// ConfigFileName is looked up under the XDG config directories
	ConfigFileName = "stowng/config.toml"
)

// RCFileNames are looked up in the home and working directories, in order
var RCFileNames = []string{".stowng.toml", ".stowng.yaml"}

// LoadOptions tells Load where to look for configuration
type LoadOptions struct {
	// WorkDir holds the local rc file. Defaults to the current directory.
	WorkDir string

	// Home holds the user's rc file. Defaults to the user's home directory.
	Home string

	// Flags are the command line options that were set explicitly, keyed
	// by config key
	Flags map[string]interface{}
}

// Load merges every configuration layer and returns the validated result.
// Later layers replace scalar values and extend lists.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.Home == "" {
		opts.Home, _ = os.UserHomeDir()
	}

	merged := make(map[string]interface{})

	// 1. Embedded defaults
	defaults, err := parseLayer(&rawBytesProvider{bytes: defaultConfig}, toml.Parser())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	mergeMaps(merged, defaults)

	// 2. User and local config files
	var sources []string
	for _, path := range configFiles(opts) {
		layer, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
		mergeMaps(merged, layer)
		sources = append(sources, path)
	}

	// 3. Environment
	if stowDir := os.Getenv(paths.EnvStowDir); stowDir != "" {
		merged["dir"] = stowDir
	}
	envLayer, err := parseLayer(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}
	mergeMaps(merged, envLayer)

	// 4. Command line
	if len(opts.Flags) > 0 {
		flagLayer, err := parseLayer(confmap.Provider(opts.Flags, "."), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flags")
		}
		mergeMaps(merged, flagLayer)
	}

	cfg, err := unmarshal(merged)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources

	postProcessConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("dir", cfg.Dir).
		Str("target", cfg.Target).
		Strs("sources", cfg.Sources).
		Msg("Configuration loaded")
	return cfg, nil
}

// configFiles lists the existing config files in load order
func configFiles(opts LoadOptions) []string {
	var candidates []string

	xdg.Reload()
	if path, err := xdg.SearchConfigFile(ConfigFileName); err == nil {
		candidates = append(candidates, path)
	}
	if opts.Home != "" {
		for _, name := range RCFileNames {
			candidates = append(candidates, filepath.Join(opts.Home, name))
		}
	}
	for _, name := range RCFileNames {
		candidates = append(candidates, filepath.Join(opts.WorkDir, name))
	}

	seen := make(map[string]bool)
	var found []string
	for _, path := range candidates {
		abs, err := filepath.Abs(path)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			found = append(found, abs)
		}
	}
	return found
}

func loadFile(path string) (map[string]interface{}, error) {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config from %s", path).
			WithDetail("path", path)
	}

	var parser koanf.Parser = toml.Parser()
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		parser = yaml.Parser()
	}

	layer, err := parseLayer(&rawBytesProvider{bytes: data}, parser)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config from %s", path).
			WithDetail("path", path)
	}
	return layer, nil
}

func parseLayer(provider koanf.Provider, parser koanf.Parser) (map[string]interface{}, error) {
	k := koanf.New(".")
	if err := k.Load(provider, parser); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

func unmarshal(merged map[string]interface{}) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load merged config")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(srcVal) && isSlice(destVal) {
			dest[key] = appendSlices(destVal, srcVal)
			continue
		}

		dest[key] = srcVal
	}
}

func isSlice(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func appendSlices(dest, src interface{}) interface{} {
	return append(toInterfaceSlice(dest), toInterfaceSlice(src)...)
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return append([]interface{}(nil), s...)
	case []string:
		result := make([]interface{}, len(s))
		for i, v := range s {
			result[i] = v
		}
		return result
	default:
		return []interface{}{}
	}
}

func postProcessConfig(cfg *Config) {
	if cfg.Dir != "" {
		cfg.Dir = paths.ExpandHome(os.ExpandEnv(cfg.Dir))
	}
	if cfg.Target != "" {
		cfg.Target = paths.ExpandHome(os.ExpandEnv(cfg.Target))
	}
	if cfg.Output == "" {
		cfg.Output = "auto"
	}
}
