// Package graph holds the co-occurrence graph built during ingestion.
package graph

import (
	"sort"

	"lightrag/internal/domain"
)

// Node is one entity, keyed by its normalized name.
type Node struct {
	Name        string // first surface form seen
	Occurrences int
	Chunks      map[string]struct{}
}

// Edge is an undirected weighted link. From and To keep the direction of the
// first relation that created the edge; later relations in the opposite
// direction only add weight.
type Edge struct {
	From     string
	To       string
	Relation string
	Weight   float64
}

// Neighbor is an adjacent entity and the weight of the connecting edge.
type Neighbor struct {
	Name   string
	Weight float64
}

type edgeKey struct{ a, b string }

func keyFor(x, y string) edgeKey {
	if y < x {
		x, y = y, x
	}
	return edgeKey{x, y}
}

// KnowledgeGraph is not safe for concurrent use.
type KnowledgeGraph struct {
	nodes map[string]*Node
	edges map[edgeKey]*Edge
}

func New() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

func (g *KnowledgeGraph) AddEntities(entities []domain.Entity) {
	for _, e := range entities {
		n, ok := g.nodes[e.Normalized]
		if !ok {
			n = &Node{Name: e.Name, Chunks: make(map[string]struct{})}
			g.nodes[e.Normalized] = n
		}
		n.Occurrences++
		n.Chunks[e.ChunkID] = struct{}{}
	}
}

func (g *KnowledgeGraph) AddRelations(relations []domain.Relation) {
	for _, r := range relations {
		k := keyFor(r.Source, r.Target)
		e, ok := g.edges[k]
		if !ok {
			e = &Edge{From: r.Source, To: r.Target, Relation: r.RelationType}
			g.edges[k] = e
		}
		e.Weight += r.Weight
	}
}

// RelatedEntities lists the neighbours of a normalized entity name, heaviest
// first. Equal weights are ordered by name.
func (g *KnowledgeGraph) RelatedEntities(entity string, topK int) []Neighbor {
	var out []Neighbor
	for k, e := range g.edges {
		switch entity {
		case k.a:
			out = append(out, Neighbor{Name: k.b, Weight: e.Weight})
		case k.b:
			out = append(out, Neighbor{Name: k.a, Weight: e.Weight})
		}
	}
	sortNeighbors(out)
	if topK < 0 {
		topK = 0
	}
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// NeighborsForEntities sums neighbour weights over every seed entity and
// returns the topK neighbour names. A seed can show up as a neighbour of
// another seed.
func (g *KnowledgeGraph) NeighborsForEntities(entities []domain.Entity, topK int) []string {
	scores := make(map[string]float64)
	for _, e := range entities {
		for _, n := range g.RelatedEntities(e.Normalized, topK) {
			scores[n.Name] += n.Weight
		}
	}

	ranked := make([]Neighbor, 0, len(scores))
	for name, w := range scores {
		ranked = append(ranked, Neighbor{Name: name, Weight: w})
	}
	sortNeighbors(ranked)

	if topK < 0 {
		topK = 0
	}
	out := make([]string, 0, min(topK, len(ranked)))
	for i := 0; i < len(ranked) && i < topK; i++ {
		out = append(out, ranked[i].Name)
	}
	return out
}

func sortNeighbors(ns []Neighbor) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].Weight != ns[j].Weight {
			return ns[i].Weight > ns[j].Weight
		}
		return ns[i].Name < ns[j].Name
	})
}

// Node returns a copy of the node stored under a normalized name.
func (g *KnowledgeGraph) Node(normalized string) (Node, bool) {
	n, ok := g.nodes[normalized]
	if !ok {
		return Node{}, false
	}
	cp := *n
	cp.Chunks = make(map[string]struct{}, len(n.Chunks))
	for id := range n.Chunks {
		cp.Chunks[id] = struct{}{}
	}
	return cp, true
}

// Edge looks up the edge between two normalized names in either order.
func (g *KnowledgeGraph) Edge(x, y string) (Edge, bool) {
	e, ok := g.edges[keyFor(x, y)]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

func (g *KnowledgeGraph) NodeCount() int { return len(g.nodes) }
func (g *KnowledgeGraph) EdgeCount() int { return len(g.edges) }
