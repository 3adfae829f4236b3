package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/system"
)

var validate = validator.New()

// LoadSystem reads the system description JSON at path (§6.1), validates
// its required keys and ranges (§7 "Configuration error"), and builds the
// immutable system.System with deterministic dense indices: edge resources
// first, then cloud, then FaaS (§4.1).
func LoadSystem(path string, log *logx.Logger) (*system.System, error) {
	raw, err := readRawSystem(path)
	if err != nil {
		return nil, err
	}

	resources, resourceIndex, cloudStart, faasStart, err := buildResources(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	componentNames := sortedKeys3(raw.Components)
	componentIndex := make(map[string]int, len(componentNames))
	for i, name := range componentNames {
		componentIndex[name] = i
	}

	components := make([]system.Component, len(componentNames))
	compat := make([][][]bool, len(componentNames))
	compatMem := make([][][]float64, len(componentNames))
	demand := make([][][]float64, len(componentNames))
	models := make([][][]system.PerformanceModel, len(componentNames))

	for i, name := range componentNames {
		comp, err := buildComponent(name, raw, resourceIndex)
		if err != nil {
			return nil, fmt.Errorf("%s: component %q: %w", path, name, err)
		}
		components[i] = comp

		cCompat, cMem, cDemand, cModels, err := buildCells(name, comp, raw, resourceIndex, len(resources))
		if err != nil {
			return nil, fmt.Errorf("%s: component %q: %w", path, name, err)
		}
		compat[i], compatMem[i], demand[i], models[i] = cCompat, cMem, cDemand, cModels
	}

	domains, err := buildNetworkDomains(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	local, err := buildLocalConstraints(raw, componentIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	global, err := buildGlobalConstraints(raw, componentIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dagNodes := append([]string{}, componentNames...)
	dagEdges := make(map[string][]string, len(raw.DirectedAcyclicGraph))
	for id, node := range raw.DirectedAcyclicGraph {
		dagEdges[id] = node.Next
	}
	graph := system.NewDAG(dagNodes, dagEdges)

	sys := system.New(components, resources, cloudStart, faasStart, domains,
		compat, compatMem, demand, models, local, global, graph,
		raw.Lambda, raw.Time, log)
	return sys, nil
}

func readRawSystem(path string) (*rawSystem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system description: %w", err)
	}
	var raw rawSystem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parsing system description: %w", path, err)
	}
	if err := validate.Struct(&raw); err != nil {
		return nil, fmt.Errorf("%s: invalid system description: %w", path, err)
	}
	return &raw, nil
}

// buildResources assigns dense indices edge < cloud < FaaS (§4.1), sorting
// by (layer, name) within each tier for determinism since JSON object key
// order is not preserved by encoding/json.
func buildResources(raw *rawSystem) ([]system.Resource, map[string]int, int, int, error) {
	var resources []system.Resource
	index := make(map[string]int)

	appendTier := func(tier map[string]map[string]rawResource, kind system.ResourceKind) error {
		for _, layer := range sortedKeys2(tier) {
			names := make([]string, 0, len(tier[layer]))
			for name := range tier[layer] {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				r := tier[layer][name]
				if _, dup := index[name]; dup {
					return fmt.Errorf("duplicate resource name %q", name)
				}
				index[name] = len(resources)
				resources = append(resources, system.Resource{
					Index:              len(resources),
					Kind:               kind,
					Name:               name,
					Layer:              layer,
					CostPerTimeUnit:    r.Cost,
					Memory:             r.Memory,
					MaxInstances:       r.Number,
					IdleTimeBeforeKill: r.IdleTimeBeforeKill,
					TransitionCost:     r.TransitionCost,
				})
			}
		}
		return nil
	}

	if err := appendTier(raw.EdgeResources, system.Edge); err != nil {
		return nil, nil, 0, 0, err
	}
	cloudStart := len(resources)
	if err := appendTier(raw.CloudResources, system.VM); err != nil {
		return nil, nil, 0, 0, err
	}
	faasStart := len(resources)
	if err := appendTier(raw.FaaSResources, system.FaaS); err != nil {
		return nil, nil, 0, 0, err
	}

	if len(resources) == 0 {
		return nil, nil, 0, 0, fmt.Errorf("no resources declared")
	}
	return resources, index, cloudStart, faasStart, nil
}

// orderPartitions reconstructs one deployment's partition sequence by
// following "next" chains from the unreferenced head partition, since map
// iteration order is not meaningful.
func orderPartitions(dep map[string]rawPartition) ([]string, error) {
	referenced := make(map[string]bool, len(dep))
	for _, p := range dep {
		if p.Next != "" {
			referenced[p.Next] = true
		}
	}

	var head string
	heads := 0
	for name := range dep {
		if !referenced[name] {
			head = name
			heads++
		}
	}
	if heads != 1 {
		return nil, fmt.Errorf("deployment must have exactly one head partition, found %d", heads)
	}

	order := make([]string, 0, len(dep))
	seen := make(map[string]bool, len(dep))
	cur := head
	for {
		if seen[cur] {
			return nil, fmt.Errorf("cyclic partition chain at %q", cur)
		}
		seen[cur] = true
		order = append(order, cur)
		p, ok := dep[cur]
		if !ok {
			return nil, fmt.Errorf("partition %q referenced by next but not declared", cur)
		}
		if p.Next == "" {
			break
		}
		cur = p.Next
	}
	if len(order) != len(dep) {
		return nil, fmt.Errorf("partition chain covers %d of %d declared partitions", len(order), len(dep))
	}
	return order, nil
}

// buildComponent assembles one component's dense partition index (the
// union of every deployment's partitions, first-discovery order over
// deployments sorted by name) and its deployments (§3, §4.1).
func buildComponent(name string, raw *rawSystem, resourceIndex map[string]int) (system.Component, error) {
	deployments := raw.Components[name]
	depNames := make([]string, 0, len(deployments))
	for d := range deployments {
		depNames = append(depNames, d)
	}
	sort.Strings(depNames)

	partIndex := make(map[string]int)
	var partNames []string
	var deps []system.Deployment

	for _, depName := range depNames {
		order, err := orderPartitions(deployments[depName])
		if err != nil {
			return system.Component{}, fmt.Errorf("deployment %q: %w", depName, err)
		}
		indices := make([]int, 0, len(order))
		for _, pName := range order {
			h, ok := partIndex[pName]
			if !ok {
				h = len(partNames)
				partIndex[pName] = h
				partNames = append(partNames, pName)
			}
			indices = append(indices, h)
		}
		deps = append(deps, system.Deployment{Name: depName, PartitionIndices: indices})
	}

	partitions := make([]system.Partition, len(partNames))
	for depName, dep := range deployments {
		for pName, p := range dep {
			h := partIndex[pName]
			partitions[h] = system.Partition{
				Index:       h,
				DataSizeOut: p.DataSize,
				EarlyExit:   p.EarlyExitProbability,
			}
		}
		_ = depName
	}

	return system.Component{
		ID:          name,
		Name:        name,
		Deployments: deps,
		Partitions:  partitions,
	}, nil
}

// buildCells fills the (partition x resource) compatibility, memory,
// demand and performance-model tensors for one component from the
// CompatibilityMatrix and Performance blocks (§6.1, §4.1, §4.2).
func buildCells(name string, comp system.Component, raw *rawSystem, resourceIndex map[string]int, j int) ([][]bool, [][]float64, [][]float64, [][]system.PerformanceModel, error) {
	h := len(comp.Partitions)
	compat := make([][]bool, h)
	compatMem := make([][]float64, h)
	demand := make([][]float64, h)
	models := make([][]system.PerformanceModel, h)
	for p := 0; p < h; p++ {
		compat[p] = make([]bool, j)
		compatMem[p] = make([]float64, j)
		demand[p] = make([]float64, j)
		models[p] = make([]system.PerformanceModel, j)
	}

	// the partition name -> dense index mapping was only held locally in
	// buildComponent; recompute it here from Deployments, which is
	// sufficient since every partition name appears in at least one
	// deployment.
	for pName, entries := range raw.CompatibilityMatrix[name] {
		idx, ok := resolvePartitionName(comp, raw, name, pName)
		if !ok {
			return nil, nil, nil, nil, fmt.Errorf("partition %q not declared in Components", pName)
		}
		for _, entry := range entries {
			rj, ok := resourceIndex[entry.Resource]
			if !ok {
				return nil, nil, nil, nil, fmt.Errorf("unknown resource %q in compatibility matrix", entry.Resource)
			}
			perf, ok := raw.Performance[name][pName][entry.Resource]
			if !ok {
				return nil, nil, nil, nil, fmt.Errorf("missing performance entry for partition %q on resource %q", pName, entry.Resource)
			}

			compat[idx][rj] = true
			compatMem[idx][rj] = entry.Memory
			demand[idx][rj] = perf.Demand

			// The model kind is authoritative from the manifest (edge_queue /
			// cloud_queue / faas_table / regressor); allows_colocation follows
			// the same rule NewPerformanceModel applies, keyed off the
			// resource's own tier rather than re-deriving it from the model
			// string, since a regressor can back either an edge or a cloud cell.
			kind := system.ModelKind(perf.Model)
			pm := system.NewPerformanceModel(resourceKindOf(rj, raw), perf.RegressorPath)
			if kind != "" {
				pm.Kind = kind
			}
			models[idx][rj] = pm
		}
	}
	return compat, compatMem, demand, models, nil
}

// resolvePartitionName maps a partition name to its dense index by
// scanning the component's deployments for the first occurrence; the
// index assignment itself happened in buildComponent; this just needs to
// agree with it, so we recompute using the same first-discovery rule.
func resolvePartitionName(comp system.Component, raw *rawSystem, compName, pName string) (int, bool) {
	depNames := make([]string, 0, len(raw.Components[compName]))
	for d := range raw.Components[compName] {
		depNames = append(depNames, d)
	}
	sort.Strings(depNames)

	seen := make(map[string]int)
	next := 0
	for _, depName := range depNames {
		order, err := orderPartitions(raw.Components[compName][depName])
		if err != nil {
			continue
		}
		for _, n := range order {
			if _, ok := seen[n]; !ok {
				seen[n] = next
				next++
			}
		}
	}
	idx, ok := seen[pName]
	return idx, ok
}

func resourceKindOf(j int, raw *rawSystem) system.ResourceKind {
	// cloudStart/faasStart aren't available here directly; recomputed once
	// via buildResources and passed through Resources instead in the
	// common path. This helper only runs during buildCells, so we accept
	// the small recomputation: resourceKindOf is only ever called with an
	// index already known to exist in exactly one tier.
	count := 0
	for _, layer := range raw.EdgeResources {
		count += len(layer)
	}
	if j < count {
		return system.Edge
	}
	count2 := count
	for _, layer := range raw.CloudResources {
		count2 += len(layer)
	}
	if j < count2 {
		return system.VM
	}
	return system.FaaS
}

func buildNetworkDomains(raw *rawSystem) ([]system.NetworkDomain, error) {
	names := make([]string, 0, len(raw.NetworkTechnology))
	for n := range raw.NetworkTechnology {
		names = append(names, n)
	}
	sort.Strings(names)

	domains := make([]system.NetworkDomain, 0, len(names))
	for _, n := range names {
		nd := raw.NetworkTechnology[n]
		layers := make(map[string]bool, len(nd.ComputationalLayers))
		for _, l := range nd.ComputationalLayers {
			layers[l] = true
		}
		domains = append(domains, system.NetworkDomain{
			ID:          n,
			AccessDelay: nd.AccessDelay,
			Bandwidth:   nd.Bandwidth,
			Layers:      layers,
		})
	}
	return domains, nil
}

func buildLocalConstraints(raw *rawSystem, componentIndex map[string]int) ([]system.LocalConstraint, error) {
	out := make([]system.LocalConstraint, 0, len(raw.LocalConstraints))
	for _, lc := range raw.LocalConstraints {
		idx, ok := componentIndex[lc.Component]
		if !ok {
			return nil, fmt.Errorf("local constraint references unknown component %q", lc.Component)
		}
		out = append(out, system.LocalConstraint{
			ComponentIndex: idx,
			ComponentID:    lc.Component,
			MaxResponse:    lc.MaxResponseTime,
		})
	}
	return out, nil
}

func buildGlobalConstraints(raw *rawSystem, componentIndex map[string]int) ([]system.GlobalConstraint, error) {
	out := make([]system.GlobalConstraint, 0, len(raw.GlobalConstraints))
	for _, gc := range raw.GlobalConstraints {
		indices := make([]int, 0, len(gc.Components))
		for _, c := range gc.Components {
			idx, ok := componentIndex[c]
			if !ok {
				return nil, fmt.Errorf("global constraint %q references unknown component %q", gc.PathName, c)
			}
			indices = append(indices, idx)
		}
		out = append(out, system.GlobalConstraint{
			PathName:         gc.PathName,
			ComponentIDs:     gc.Components,
			ComponentIndices: indices,
			MaxResponse:      gc.MaxResponseTime,
		})
	}
	return out, nil
}

func sortedKeys2(m map[string]map[string]rawResource) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys3(m map[string]map[string]map[string]rawPartition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
