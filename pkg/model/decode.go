package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeSimulationJSON decodes a single stored simulation document.
func DecodeSimulationJSON(data []byte) (Simulation, error) {
	var sim Simulation
	if err := json.Unmarshal(data, &sim); err != nil {
		return Simulation{}, fmt.Errorf("failed to decode simulation: %w", err)
	}
	return sim, nil
}

// DecodeSimulations reads either a JSON or a YAML document holding one
// simulation or a list of simulations.
func DecodeSimulations(r io.Reader) ([]Simulation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulations: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var sims []Simulation
		if err := json.Unmarshal(trimmed, &sims); err != nil {
			return nil, fmt.Errorf("failed to decode simulations: %w", err)
		}
		return sims, nil
	case '{':
		sim, err := DecodeSimulationJSON(trimmed)
		if err != nil {
			return nil, err
		}
		return []Simulation{sim}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, fmt.Errorf("failed to decode simulations: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var sims []Simulation
		if err := root.Decode(&sims); err != nil {
			return nil, fmt.Errorf("failed to decode simulations: %w", err)
		}
		return sims, nil
	}

	var wrapper struct {
		Simulations []Simulation `yaml:"simulations"`
	}
	if err := root.Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode simulations: %w", err)
	}
	if wrapper.Simulations != nil {
		return wrapper.Simulations, nil
	}

	var sim Simulation
	if err := root.Decode(&sim); err != nil {
		return nil, fmt.Errorf("failed to decode simulation: %w", err)
	}
	return []Simulation{sim}, nil
}
