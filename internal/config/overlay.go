package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type aliasFile struct {
	BrandAliases map[string]string `yaml:"brand_aliases"`
}

// OverlayAliases merges extra brand aliases from an optional side file
// (aliases.yml next to the config) into cfg. Entries there win over the
// main config so users can patch shorthand without editing it.
func OverlayAliases(cfg *Config, aliasesPath string) error {
	b, err := os.ReadFile(aliasesPath)
	if err != nil {
		// a missing aliases file should not kill startup
		return nil
	}

	var af aliasFile
	if err := yaml.Unmarshal(b, &af); err != nil {
		return err
	}

	if len(af.BrandAliases) == 0 {
		return nil
	}
	if cfg.Matching.BrandAliases == nil {
		cfg.Matching.BrandAliases = make(map[string]string, len(af.BrandAliases))
	}
	for k, v := range af.BrandAliases {
		cfg.Matching.BrandAliases[k] = v
	}
	return nil
}
