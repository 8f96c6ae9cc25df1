// Package resolver orders named items that depend on each other, such as
// dialect descriptors that extend one another.
package resolver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCircularReference matches every CircularReferenceError.
var ErrCircularReference = errors.New("circular reference")

// CircularReferenceError names the nodes of one cycle, first node repeated
// at the end.
type CircularReferenceError struct {
	Cycle []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCircularReference, strings.Join(e.Cycle, " -> "))
}

func (e *CircularReferenceError) Unwrap() error { return ErrCircularReference }

// DependencyGraph is a directed graph from each node to the nodes it
// depends on. Dependencies that are not nodes themselves are treated as
// already resolved.
type DependencyGraph struct {
	// adjacency list: node -> nodes it depends on
	dependencies map[string][]string
	// reverse lookup: node -> nodes that depend on it
	dependents map[string][]string
	nodes      map[string]bool
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		nodes:        make(map[string]bool),
	}
}

// Add registers node with its dependencies. Adding a node again appends
// to its dependencies.
func (g *DependencyGraph) Add(node string, deps ...string) {
	g.nodes[node] = true
	for _, dep := range deps {
		if dep == "" || slices.Contains(g.dependencies[node], dep) {
			continue
		}
		g.dependencies[node] = append(g.dependencies[node], dep)
		g.dependents[dep] = append(g.dependents[dep], node)
	}
}

// Remove drops nodes. Edges pointing at them remain, so their dependents
// now depend on something outside the graph.
func (g *DependencyGraph) Remove(nodes ...string) {
	for _, node := range nodes {
		delete(g.nodes, node)
	}
}

// Dependencies returns what node depends on.
func (g *DependencyGraph) Dependencies(node string) []string {
	return slices.Clone(g.dependencies[node])
}

// Dependents returns the nodes that depend on node, sorted.
func (g *DependencyGraph) Dependents(node string) []string {
	deps := slices.Clone(g.dependents[node])
	slices.Sort(deps)
	return deps
}

// sortedNodes keeps traversal order, and so cycle reports and the
// topological order, stable between runs.
func (g *DependencyGraph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

// FindCycle returns the path of a cycle, or nil if there is none.
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)

	for _, node := range g.sortedNodes() {
		if cycle := g.findCycleDFS(node, visited, onPath, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *DependencyGraph) findCycleDFS(node string, visited, onPath map[string]bool, path []string) []string {
	if !g.nodes[node] {
		return nil
	}
	if onPath[node] {
		start := slices.Index(path, node)
		return append(slices.Clone(path[start:]), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	onPath[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, onPath, path); cycle != nil {
			return cycle
		}
	}

	onPath[node] = false
	return nil
}

// TopologicalSort returns the nodes with dependencies first. It fails with
// a *CircularReferenceError if the graph has a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, &CircularReferenceError{Cycle: cycle}
	}

	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))
	for _, node := range g.sortedNodes() {
		g.topologicalSortDFS(node, visited, &result)
	}
	return result, nil
}

func (g *DependencyGraph) topologicalSortDFS(node string, visited map[string]bool, result *[]string) {
	if visited[node] || !g.nodes[node] {
		return
	}
	visited[node] = true
	for _, dep := range g.dependencies[node] {
		g.topologicalSortDFS(dep, visited, result)
	}
	*result = append(*result, node)
}
