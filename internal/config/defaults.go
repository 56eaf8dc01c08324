package config

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/phpns/pkg/core"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "phpns.yaml"
	ConfigFileNameAlt = "phpns.yml"
)

// ConfigFileNames returns the accepted config file names in lookup order.
func ConfigFileNames() []string {
	return []string{ConfigFileName, ConfigFileNameAlt}
}

// Defaults returns the default settings as a flat koanf map.
func Defaults() map[string]any {
	s := core.DefaultSettings()
	return map[string]any{
		"namespace_style":          s.NamespaceStyle.String(),
		"include_class_definition": s.IncludeClassDefinition,
		"include_autoload_dev":     s.IncludeAutoloadDev,
		"stale_after":              s.StaleAfter.String(),
	}
}

// UnmarshalConf returns the koanf decoding setup shared by every phpns
// config loader. namespace_style goes through NamespaceStyle.UnmarshalText,
// stale_after accepts duration strings and list keys accept
// comma-separated strings from the environment.
func UnmarshalConf(out any) koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           out,
			WeaklyTypedInput: true,
		},
	}
}
