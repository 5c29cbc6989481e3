package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/designbible/biblecheck/internal/log"
)

// EnvPrefix scopes environment overrides. A double underscore addresses a
// nested key: BIBLE_CHECK_COMPONENT_RULES__ALLOWLIST_ENFORCEMENT_MODE=fail.
const EnvPrefix = "BIBLE_CHECK_"

// EnvConfigPath names the variable that points at the config document.
const EnvConfigPath = "BIBLE_CHECK_CONFIG"

// ErrMalformed marks a config document that could not be read or decoded.
var ErrMalformed = errors.New("malformed configuration")

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"ignore-path":            "ignore_paths",
	"allowlist-mode":         "component_rules.allowlist_enforcement_mode",
	"require-pr-declaration": "require_pr_declaration",
	"screen-suffix":          "screen_suffix",
}

// Path resolves which config document to read.
// Priority: explicit path > $BIBLE_CHECK_CONFIG > <root>/ci/bible_check_config.json
func Path(root, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := strings.TrimSpace(os.Getenv(EnvConfigPath)); v != "" {
		return v
	}
	return filepath.Join(root, filepath.FromSlash(DefaultConfigRelPath))
}

// Load builds the configuration from defaults, the document at path (if it
// exists), environment variables and explicitly set flags.
//
// On any error the all-defaults configuration is returned together with the
// error; callers normally pass both through OrDefault.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return Default(), fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			log.Debug("config document not found, using defaults", "path", path)
		} else if err := loadDocument(k, path); err != nil {
			return Default(), fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Default(), fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Default(), fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return Default(), fmt.Errorf("%w: unable to decode: %v", ErrMalformed, err)
	}

	return cfg.normalize(), nil
}

// OrDefault is the fail-open boundary: a load error is logged and replaced
// by the all-defaults configuration.
func OrDefault(cfg Config, err error) Config {
	if err != nil {
		log.Warn("Falling back to default configuration", "error", err)
		return Default()
	}
	return cfg
}

// loadDocument merges the document at path over k. Null values are dropped
// first so a null key or group keeps its defaults instead of erasing them.
func loadDocument(k *koanf.Koanf, path string) error {
	doc := koanf.New(".")
	if err := doc.Load(file.Provider(path), parserFor(path)); err != nil {
		return err
	}
	set := make(map[string]interface{}, len(doc.Keys()))
	for key, val := range doc.All() {
		if val == nil {
			log.Debug("ignoring null config value", "key", key)
			continue
		}
		set[key] = val
	}
	return k.Load(confmap.Provider(set, "."), nil)
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

func envKey(s string) string {
	if s == EnvConfigPath {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func (c Config) normalize() Config {
	def := Default()
	if strings.TrimSpace(c.ScreenSuffix) == "" {
		c.ScreenSuffix = def.ScreenSuffix
	}
	if strings.TrimSpace(c.ScreenIndexPath) == "" {
		c.ScreenIndexPath = def.ScreenIndexPath
	}
	if strings.TrimSpace(c.TraceabilityMatrixPath) == "" {
		c.TraceabilityMatrixPath = def.TraceabilityMatrixPath
	}
	if len(c.ApprovedShells) == 0 {
		c.ApprovedShells = def.ApprovedShells
	}
	c.ComponentRules.AllowlistEnforcementMode = c.ComponentRules.EnforcementMode()

	for _, list := range []*[]string{
		&c.IgnorePaths,
		&c.AllowForbiddenPatternsPaths,
		&c.ForbiddenSwiftUIPatterns,
		&c.ForbiddenUIKitPatterns,
		&c.AllowNumericPaddingPaths,
		&c.RequiredDeclarationPhrases,
		&c.ComponentRules.AllowlistPrimitives,
		&c.ComponentRules.AllowlistExemptPaths,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	return c
}
