package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. IPSBENCH_TIME=1.
const EnvPrefix = "IPSBENCH"

// NewViper returns a viper instance layered as flags > IPSBENCH_* env >
// defaults. Callers add project file values with SetDefault and bind flags.
// SHARE_URL is honored for share_url.
func NewViper(defaults map[string]any) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("share_url", EnvPrefix+"_SHARE_URL", "SHARE_URL")

	for k, val := range Defaults().Map() {
		v.SetDefault(k, val)
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// FromViper decodes the known option keys from v and validates them.
func FromViper(v *viper.Viper) (Options, error) {
	m := make(map[string]any, len(Keys))
	for _, k := range Keys {
		if v.IsSet(k) {
			m[k] = v.Get(k)
		}
	}
	o, err := Decode(m, Defaults())
	if err != nil {
		return o, err
	}
	return o, o.Validate()
}

// Map returns the options keyed by option name.
func (o Options) Map() map[string]any {
	return map[string]any{
		"warmup":       o.Warmup,
		"time":         o.Time,
		"iterations":   o.Iterations,
		"stats":        o.Stats,
		"confidence":   o.Confidence,
		"quiet":        o.Quiet,
		"compare":      o.Compare,
		"hold_path":    o.HoldPath,
		"json_path":    o.JSONPath,
		"share":        o.Share,
		"share_url":    o.ShareURL,
		"metrics_path": o.MetricsPath,
		"seed":         o.Seed,
		"format":       string(o.Format),
	}
}
