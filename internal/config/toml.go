package config

import (
	toml "github.com/pelletier/go-toml/v2"
)

// TOML is a koanf.Parser backed by go-toml.
type TOML struct{}

// TOMLParser returns a koanf.Parser for TOML documents.
func TOMLParser() *TOML {
	return &TOML{}
}

// Unmarshal decodes a TOML document into a nested map.
func (p *TOML) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (p *TOML) Marshal(m map[string]any) ([]byte, error) {
	return toml.Marshal(m)
}
