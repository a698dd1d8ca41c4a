// Copyright (c) 2017 The Kegbot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commons

// Edge is a directed connection between two named nodes.
type Edge struct {
	From string
	To   string
}

// Graph is a simple directed graph over named nodes.
// Use NewGraph to construct Graph instances.
type Graph struct {
	edges map[string]map[string]bool
}

// NewGraph builds a graph from directed edges. Duplicate edges collapse.
func NewGraph(edges ...Edge) *Graph {
	g := &Graph{edges: map[string]map[string]bool{}}
	for _, e := range edges {
		targets := g.edges[e.From]
		if targets == nil {
			targets = map[string]bool{}
			g.edges[e.From] = targets
		}
		targets[e.To] = true
	}
	return g
}

// ShortestPath returns the nodes along a shortest directed path from start
// to end, both inclusive. If end is unreachable, nil is returned. A node is
// always reachable from itself.
func (g *Graph) ShortestPath(start, end string) []string {
	if start == end {
		return []string{start}
	}
	// breadth-first walk, recording how each node was first reached
	cameFrom := map[string]string{start: start}
	frontier := []string{start}
	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]
		for next := range g.edges[node] {
			if _, seen := cameFrom[next]; seen {
				continue
			}
			cameFrom[next] = node
			if next == end {
				var path []string
				for n := end; ; n = cameFrom[n] {
					path = append([]string{n}, path...)
					if n == start {
						return path
					}
				}
			}
			frontier = append(frontier, next)
		}
	}
	return nil
}
