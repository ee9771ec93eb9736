package rss

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one configured feed endpoint. The list is fixed at startup.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FeedsConfig is the YAML config structure
// feeds:
//   - name: varzesh3
//     url: https://...
type FeedsConfig struct {
	Feeds []Source `yaml:"feeds"`
}

// LoadSources reads the feed list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	for i, s := range cfg.Feeds {
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("feed %d: name and url are required", i)
		}
	}
	return cfg.Feeds, nil
}
