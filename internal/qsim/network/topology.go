package network

import (
	"fmt"
	"os"

	"github.com/qusimlab/qusim/internal/qsim/gene"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
	"gopkg.in/yaml.v3"
)

// ChannelSpec selects and parameterizes the transmission medium
type ChannelSpec struct {
	Kind             string  `yaml:"kind"`
	LengthKm         float64 `yaml:"length_km,omitempty"`
	AttenuationPerKm float64 `yaml:"attenuation_per_km,omitempty"`
	Base             float64 `yaml:"base,omitempty"`
	Jitter           float64 `yaml:"jitter,omitempty"`
}

// NodeSpec declares one named node and its optional gene profile
type NodeSpec struct {
	Name     string            `yaml:"name"`
	X        float64           `yaml:"x,omitempty"`
	Y        float64           `yaml:"y,omitempty"`
	Traits   []string          `yaml:"traits,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// TopologyFile is the on-disk network description
type TopologyFile struct {
	Capacity    int         `yaml:"capacity,omitempty"`
	Seed        *int64      `yaml:"seed,omitempty"`
	Channel     ChannelSpec `yaml:"channel,omitempty"`
	Nodes       []NodeSpec  `yaml:"nodes"`
	Connections [][]string  `yaml:"connections,omitempty"`
}

// build resolves the description to a concrete channel. An empty kind
// means a perfect channel.
func (s ChannelSpec) build(src quantum.Source) (Channel, error) {
	switch s.Kind {
	case "", "perfect":
		return PerfectChannel{}, nil
	case "fiber":
		fiber := NewFiberChannel(s.LengthKm)
		if s.AttenuationPerKm > 0 {
			fiber.AttenuationPerKm = s.AttenuationPerKm
		}
		return fiber, nil
	case "noisy":
		return NoisyChannel{Base: s.Base, Jitter: s.Jitter, Src: src}, nil
	default:
		return nil, fmt.Errorf("%w: unknown channel kind %q", ErrBadTopology, s.Kind)
	}
}

// LoadTopology builds a network from a YAML description on disk
func LoadTopology(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}

	var file TopologyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse topology file: %w", err)
	}

	return BuildTopology(&file)
}

// BuildTopology builds a network from an in-memory description. A zero
// capacity defaults to the node count.
func BuildTopology(file *TopologyFile) (*Network, error) {
	if len(file.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrBadTopology)
	}

	capacity := file.Capacity
	if capacity == 0 {
		capacity = len(file.Nodes)
	}
	if capacity < len(file.Nodes) {
		return nil, fmt.Errorf("%w: capacity %d below node count %d", ErrBadTopology, capacity, len(file.Nodes))
	}

	var src quantum.Source
	if file.Seed != nil {
		src = quantum.NewSeededSource(*file.Seed)
	}

	channel, err := file.Channel.build(src)
	if err != nil {
		return nil, err
	}

	network, err := NewNetwork(capacity, channel)
	if err != nil {
		return nil, err
	}
	if src != nil {
		network.SetRandomSource(src)
	}

	for _, spec := range file.Nodes {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: node with empty name", ErrBadTopology)
		}

		var profile *gene.Gene
		if len(spec.Traits) > 0 || len(spec.Metadata) > 0 {
			profile = gene.NewGene(spec.Name, spec.X, spec.Y)
			for _, trait := range spec.Traits {
				profile.AddTrait(trait)
			}
			for key, value := range spec.Metadata {
				profile.Metadata[key] = value
			}
		}

		if _, err := network.Join(spec.Name, profile); err != nil {
			return nil, fmt.Errorf("failed to join node %s: %w", spec.Name, err)
		}
	}

	for _, pair := range file.Connections {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: connection needs exactly two node names", ErrBadTopology)
		}

		a, err := network.NodeByName(pair[0])
		if err != nil {
			return nil, fmt.Errorf("%w: unknown node %q", ErrBadTopology, pair[0])
		}

		b, err := network.NodeByName(pair[1])
		if err != nil {
			return nil, fmt.Errorf("%w: unknown node %q", ErrBadTopology, pair[1])
		}

		if _, err := network.Connect(a.ID, b.ID); err != nil {
			return nil, fmt.Errorf("failed to connect %s and %s: %w", pair[0], pair[1], err)
		}
	}

	return network, nil
}
