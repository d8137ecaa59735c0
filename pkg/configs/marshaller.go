package configs

import (
	"os"

	"gopkg.in/yaml.v3"
)

func LoadManagerConfig(filepath string) (*ManagerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*ManagerConfig, error) {
	var out ManagerConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	if out.RetentionDays == 0 {
		out.RetentionDays = 10
	}
	if out.Cache.TTLSeconds == 0 {
		out.Cache.TTLSeconds = 3600
	}
	return &out, nil
}
