// Package parser wires LLM providers behind the port.DocumentParser
// interface. Providers register themselves by name; the active one is chosen
// by configuration.
package parser

import (
	"fmt"

	"radlic/internal/config"
	"radlic/internal/port"
)

// ProviderFactory is a function that creates a DocumentParser from the parser config.
type ProviderFactory func(cfg *config.ParserConfig) (port.DocumentParser, error)

// registry of parser provider factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewParser creates a DocumentParser from the config using the registered factory.
func NewParser(cfg *config.ParserConfig) (port.DocumentParser, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
