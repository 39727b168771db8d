package fleet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taskgrid/taskgrid/pkg/scheduler"
	"github.com/taskgrid/taskgrid/pkg/types"
)

// WorkerSpec is one fleet entry in a configuration file
type WorkerSpec struct {
	Name     string   `json:"name" yaml:"name"`
	Tier     string   `json:"tier" yaml:"tier"`
	Regions  []string `json:"regions" yaml:"regions"`
	Capacity int      `json:"capacity" yaml:"capacity"`
}

// File is the on-disk fleet configuration shape
type File struct {
	Workers []WorkerSpec `json:"workers" yaml:"workers"`
}

// Build turns fleet specs into workers, validating each entry
func Build(specs []WorkerSpec) ([]*types.Worker, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: empty fleet", scheduler.ErrInvalidConfig)
	}
	workers := make([]*types.Worker, 0, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: fleet entry %d has no name", scheduler.ErrInvalidConfig, i)
		}
		tier, err := types.ParseTier(spec.Tier)
		if err != nil {
			return nil, fmt.Errorf("%w: fleet entry %q: %v", scheduler.ErrInvalidConfig, spec.Name, err)
		}
		if len(spec.Regions) == 0 {
			return nil, fmt.Errorf("%w: fleet entry %q has no regions", scheduler.ErrInvalidConfig, spec.Name)
		}
		if spec.Capacity <= 0 {
			return nil, fmt.Errorf("%w: fleet entry %q capacity must be positive", scheduler.ErrInvalidConfig, spec.Name)
		}
		workers = append(workers, types.NewWorker(spec.Name, tier, spec.Regions, spec.Capacity))
	}
	return workers, nil
}

// LoadFile reads a YAML fleet configuration
func LoadFile(path string) ([]*types.Worker, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: fleet file: %v", scheduler.ErrInvalidConfig, err)
	}
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: fleet file: %v", scheduler.ErrInvalidConfig, err)
	}
	return Build(file.Workers)
}

// Default returns the standard mixed-tier batch fleet
func Default() []*types.Worker {
	workers, _ := Build([]WorkerSpec{
		{Name: "Worker1", Tier: "TIER1", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2"}, Capacity: 1},
		{Name: "Worker2", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-3", "sa-southeast-4"}, Capacity: 2},
		{Name: "Worker3", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2", "sa-southeast-3", "sa-southeast-4"}, Capacity: 3},
		{Name: "Worker4", Tier: "TIER1", Regions: []string{"sa-unknown-1", "sa-southeast-1"}, Capacity: 1},
		{Name: "Worker5", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-2", "sa-southeast-4"}, Capacity: 3},
		{Name: "Worker6", Tier: "TIER4", Regions: []string{"sa-unknown-1", "sa-southeast-3"}, Capacity: 2},
		{Name: "Worker7", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-2", "sa-southeast-3"}, Capacity: 2},
		{Name: "Worker8", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2", "sa-southeast-3", "sa-southeast-4"}, Capacity: 3},
		{Name: "Worker9", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-4"}, Capacity: 2},
		{Name: "Worker10", Tier: "TIER1", Regions: []string{"sa-unknown-1", "sa-southeast-1"}, Capacity: 1},
		{Name: "Worker11", Tier: "TIER1", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2", "sa-southeast-3"}, Capacity: 2},
		{Name: "Worker12", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-3", "sa-southeast-4"}, Capacity: 3},
		{Name: "Worker13", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2", "sa-southeast-3", "sa-southeast-4"}, Capacity: 3},
		{Name: "Worker14", Tier: "TIER1", Regions: []string{"sa-unknown-1", "sa-southeast-4"}, Capacity: 1},
		{Name: "Worker15", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2"}, Capacity: 2},
		{Name: "Worker16", Tier: "TIER1", Regions: []string{"sa-unknown-1", "sa-southeast-3"}, Capacity: 1},
		{Name: "Worker17", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2", "sa-southeast-3"}, Capacity: 2},
		{Name: "Worker18", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2", "sa-southeast-3", "sa-southeast-4"}, Capacity: 3},
		{Name: "Worker19", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-3"}, Capacity: 2},
		{Name: "Worker20", Tier: "TIER1", Regions: []string{"sa-unknown-1", "sa-southeast-1"}, Capacity: 1},
	})
	return workers
}

// Tiered returns the tiered fleet used for online simulations: a few
// high-tier nodes with broad region coverage, most nodes at TIER3, and small
// TIER1/TIER2 nodes serving one or two regions each
func Tiered() []*types.Worker {
	workers, _ := Build([]WorkerSpec{
		{Name: "T5-Node1", Tier: "TIER5", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2", "sa-southeast-3", "sa-southeast-4"}, Capacity: 4},
		{Name: "T5-Node2", Tier: "TIER5", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-3", "sa-southeast-4"}, Capacity: 3},
		{Name: "T4-Node1", Tier: "TIER4", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2"}, Capacity: 3},
		{Name: "T4-Node2", Tier: "TIER4", Regions: []string{"sa-unknown-1", "sa-southeast-3", "sa-southeast-4"}, Capacity: 2},
		{Name: "T4-Node3", Tier: "TIER4", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-4"}, Capacity: 2},
		{Name: "T3-Node1", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-2"}, Capacity: 3},
		{Name: "T3-Node2", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-3", "sa-southeast-4"}, Capacity: 3},
		{Name: "T3-Node3", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-3"}, Capacity: 2},
		{Name: "T3-Node4", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-2", "sa-southeast-4"}, Capacity: 2},
		{Name: "T3-Node5", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1", "sa-southeast-4"}, Capacity: 2},
		{Name: "T3-Node6", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-2", "sa-southeast-3"}, Capacity: 2},
		{Name: "T3-Node7", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-1"}, Capacity: 3},
		{Name: "T3-Node8", Tier: "TIER3", Regions: []string{"sa-unknown-1", "sa-southeast-3"}, Capacity: 3},
		{Name: "T2-Node1", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-1"}, Capacity: 2},
		{Name: "T2-Node2", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-2"}, Capacity: 2},
		{Name: "T2-Node3", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-3"}, Capacity: 1},
		{Name: "T2-Node4", Tier: "TIER2", Regions: []string{"sa-unknown-1", "sa-southeast-4"}, Capacity: 1},
		{Name: "T1-Node1", Tier: "TIER1", Regions: []string{"sa-unknown-1"}, Capacity: 1},
		{Name: "T1-Node2", Tier: "TIER1", Regions: []string{"sa-southeast-1"}, Capacity: 1},
		{Name: "T1-Node3", Tier: "TIER1", Regions: []string{"sa-southeast-2"}, Capacity: 1},
	})
	return workers
}
