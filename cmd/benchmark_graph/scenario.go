package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed scenarios.toml
var defaultScenarios []byte

type scenario struct {
	Name           string  `toml:"name"`            // friendly name for the test, should be unique
	Width          int64   `toml:"width"`           // width of dependency graph to construct
	TotalLayers    int64   `toml:"total_layers"`    // depth of dependency graph to construct
	StaticFraction float64 `toml:"static_fraction"` // fraction of nodes that are static
	NSources       int64   `toml:"n_sources"`       // construct a graph with number of sources in each node
	ReadFraction   float64 `toml:"read_fraction"`   // fraction of [0, 1] elements in the last layer from which to read values in each test iteration
	Iterations     int64   `toml:"iterations"`      // number of test iterations
}

type scenarioFile struct {
	Scenarios []scenario `toml:"scenario"`
}

var errNoScenarios = errors.New("no scenarios")

// loadScenarios decodes path, or the built-in set when path is empty.
func loadScenarios(path string) ([]scenario, error) {
	data := defaultScenarios
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading scenarios: %w", err)
		}
		data = b
	}
	return parseScenarios(data)
}

func parseScenarios(data []byte) ([]scenario, error) {
	var f scenarioFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, errNoScenarios
	}
	for _, sc := range f.Scenarios {
		if err := sc.validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return f.Scenarios, nil
}

func (sc scenario) validate() error {
	switch {
	case sc.Name == "":
		return errors.New("name is required")
	case sc.Width < 1:
		return errors.New("width must be positive")
	case sc.TotalLayers < 2:
		return errors.New("total_layers must be at least 2")
	case sc.NSources < 1:
		return errors.New("n_sources must be positive")
	case sc.StaticFraction < 1 && sc.NSources < 2:
		return errors.New("dynamic nodes need at least 2 sources")
	case sc.StaticFraction < 0 || sc.StaticFraction > 1:
		return errors.New("static_fraction must be within [0, 1]")
	case sc.ReadFraction < 0 || sc.ReadFraction > 1:
		return errors.New("read_fraction must be within [0, 1]")
	case sc.Iterations < 1:
		return errors.New("iterations must be positive")
	}
	return nil
}

func (sc scenario) title() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", sc.Width, sc.TotalLayers, sc.NSources))
	if sc.StaticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if sc.ReadFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*sc.ReadFraction))
	}
	return sb.String()
}

func filterScenarios(all []scenario, only string) []scenario {
	if only == "" {
		return all
	}
	var out []scenario
	for _, sc := range all {
		if strings.EqualFold(sc.Name, only) {
			out = append(out, sc)
		}
	}
	return out
}
