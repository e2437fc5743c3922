package configloader

import "github.com/yaklabco/mdstream/pkg/config"

// merge combines two configurations, with override taking precedence over
// base. Scalar values overwrite when non-zero; unset values in override
// never clobber base.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.ChunkSize != 0 {
		result.ChunkSize = override.ChunkSize
	}
	if override.DetectLanguage != nil {
		result.DetectLanguage = override.DetectLanguage
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Debug {
		result.Debug = true
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs
// taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}
	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
