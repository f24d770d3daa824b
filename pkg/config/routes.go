package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amiskov/spendahead/pkg/middleware"
	"github.com/amiskov/spendahead/pkg/route"
)

// Routes is the guard's route table. Keys left out of the file keep their
// defaults.
type Routes struct {
	Protected  []string         `yaml:"protected"`
	PublicAuth []string         `yaml:"public_auth"`
	Paths      middleware.Paths `yaml:"paths"`
	Exclusions []string         `yaml:"exclusions"`
}

func DefaultRoutes() *Routes {
	rules := route.DefaultRules()
	return &Routes{
		Protected:  rules.Protected,
		PublicAuth: rules.PublicAuth,
		Paths:      middleware.DefaultPaths(),
		Exclusions: route.DefaultExclusions(),
	}
}

func (r *Routes) Rules() route.Rules {
	return route.Rules{Protected: r.Protected, PublicAuth: r.PublicAuth}
}

// LoadRoutes reads the YAML routes file at path. An empty path or a missing
// file yields the defaults.
func LoadRoutes(path string) (*Routes, error) {
	routes := DefaultRoutes()
	if path == "" {
		return routes, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return routes, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: can't read routes file, %w", err)
	}

	if err := yaml.Unmarshal(data, routes); err != nil {
		return nil, fmt.Errorf("config: can't parse routes file `%s`, %w", path, err)
	}
	return routes, nil
}
