package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML renders the effective configuration in the same format as the config files.
func (c *Configuration) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}
