package plan

import (
	"fmt"
	"sort"
	"strings"
)

// Graph is the dependency graph of a TaskPlan, used to derive the order in
// which tasks can be executed.
type Graph struct {
	plan *TaskPlan
}

func NewGraph(p *TaskPlan) *Graph {
	return &Graph{plan: p}
}

// SortedIDs returns the task ids in topological order: every task appears
// after all tasks it depends on. The order is deterministic; among tasks
// whose dependencies are all satisfied, plan declaration order wins.
// Returns an error naming the tasks involved when the graph has a cycle.
//
// Dependencies on ids that do not exist in the plan are ignored here; the
// Validator reports those separately.
func (g *Graph) SortedIDs() ([]string, error) {
	known := make(map[string]bool, len(g.plan.Tasks))
	for _, t := range g.plan.Tasks {
		known[t.ID] = true
	}

	indegree := make(map[string]int, len(g.plan.Tasks))
	dependents := make(map[string][]string)
	for _, t := range g.plan.Tasks {
		if _, ok := indegree[t.ID]; !ok {
			indegree[t.ID] = 0
		}
		for _, dep := range t.DependsOn {
			if !known[dep.TaskID] {
				continue
			}
			indegree[t.ID]++
			dependents[dep.TaskID] = append(dependents[dep.TaskID], t.ID)
		}
	}

	// Seed the ready queue in declaration order for a stable result.
	var ready []string
	for _, t := range g.plan.Tasks {
		if indegree[t.ID] == 0 {
			ready = append(ready, t.ID)
		}
	}

	sorted := make([]string, 0, len(g.plan.Tasks))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		sorted = append(sorted, id)

		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(sorted) != len(g.plan.Tasks) {
		var stuck []string
		for id, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("dependency cycle involving tasks: %s", strings.Join(stuck, ", "))
	}

	return sorted, nil
}
