// Package graph analyzes the topology of the claim graph: connected
// components, the longest prerequisite chain, the hub claim, and
// articulation points. All algorithms work on an undirected view deduped by
// (from, to, type), so duplicate and self-referencing edges cannot loop.
package graph

import (
	"sort"

	"terrain/internal/model"
)

// Analyze computes the topology summary for the given claims and edges.
// Edges referencing unknown claim IDs are dropped. The returned Components
// always partition the full claim ID set.
func Analyze(claims []model.Claim, edges []model.Edge) model.GraphAnalysis {
	n := len(claims)
	index := make(map[string]int, n)
	ids := make([]string, n)
	for i, c := range claims {
		index[c.ID] = i
		ids[i] = c.ID
	}

	valid := dedupeEdges(edges, index)

	// Undirected simple adjacency (pair-deduped) for components and
	// articulation points.
	und := make([][]int, n)
	pairSeen := map[[2]int]bool{}
	pairCount := 0
	for _, e := range valid {
		u, v := index[e.From], index[e.To]
		if u == v {
			continue
		}
		key := [2]int{min(u, v), max(u, v)}
		if pairSeen[key] {
			continue
		}
		pairSeen[key] = true
		pairCount++
		und[u] = append(und[u], v)
		und[v] = append(und[v], u)
	}

	components := findComponents(n, und)

	// Directed prerequisite adjacency, neighbors in input edge order.
	padj := make([][]int, n)
	prereqIn := make([]int, n)
	prereqOut := make([]int, n)
	for _, e := range valid {
		if e.Type != model.EdgePrerequisite {
			continue
		}
		u, v := index[e.From], index[e.To]
		if u == v {
			continue
		}
		padj[u] = append(padj[u], v)
		prereqOut[u]++
		prereqIn[v]++
	}

	chain := longestChain(n, padj)
	chainCount := 0
	for i := 0; i < n; i++ {
		if prereqOut[i] > 0 && prereqIn[i] == 0 {
			chainCount++
		}
	}

	hub, dominance := findHub(n, valid, index, ids)
	aps := articulationPoints(n, und)

	analysis := model.GraphAnalysis{
		ComponentCount:     len(components),
		Components:         toIDs(components, ids),
		LongestChain:       indicesToIDs(chain, ids),
		ChainCount:         chainCount,
		HubClaim:           hub,
		HubDominance:       dominance,
		ArticulationPoints: indicesToIDs(aps, ids),
	}
	analysis.ClusterCohesion = clusterCohesion(components, pairSeen)
	analysis.LocalCoherence = localCoherence(n, components)
	return analysis
}

func dedupeEdges(edges []model.Edge, index map[string]int) []model.Edge {
	seen := map[string]bool{}
	out := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := index[e.From]; !ok {
			continue
		}
		if _, ok := index[e.To]; !ok {
			continue
		}
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// findComponents returns the connected components, each sorted by claim
// input order, ordered by descending size (ties by earliest member).
func findComponents(n int, und [][]int) [][]int {
	visited := make([]bool, n)
	var components [][]int
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		var comp []int
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, u)
			for _, v := range und[u] {
				if !visited[v] {
					visited[v] = true
					stack = append(stack, v)
				}
			}
		}
		sort.Ints(comp)
		components = append(components, comp)
	}
	sort.SliceStable(components, func(a, b int) bool {
		if len(components[a]) != len(components[b]) {
			return len(components[a]) > len(components[b])
		}
		return components[a][0] < components[b][0]
	})
	return components
}

// longestChain finds the longest simple directed path over prerequisite
// edges. Starts are tried in input order and only a strictly longer path
// replaces the best, so the first-discovered chain wins ties. The on-path
// set makes cyclic prerequisites terminate.
func longestChain(n int, padj [][]int) []int {
	onPath := make([]bool, n)
	var dfs func(u int) []int
	dfs = func(u int) []int {
		onPath[u] = true
		best := []int{u}
		for _, v := range padj[u] {
			if onPath[v] {
				continue
			}
			path := dfs(v)
			if len(path)+1 > len(best) {
				best = append([]int{u}, path...)
			}
		}
		onPath[u] = false
		return best
	}

	var best []int
	for u := 0; u < n; u++ {
		if len(padj[u]) == 0 {
			continue
		}
		path := dfs(u)
		if len(path) > len(best) {
			best = path
		}
	}
	if len(best) < 2 {
		return nil
	}
	return best
}

// findHub returns the claim with the highest total degree and its share of
// all edges. Ties break on input order; an edgeless graph has no hub.
func findHub(n int, valid []model.Edge, index map[string]int, ids []string) (string, float64) {
	if len(valid) == 0 {
		return "", 0
	}
	degree := make([]int, n)
	for _, e := range valid {
		degree[index[e.From]]++
		if index[e.To] != index[e.From] {
			degree[index[e.To]]++
		}
	}
	hub, best := -1, 0
	for i := 0; i < n; i++ {
		if degree[i] > best {
			hub, best = i, degree[i]
		}
	}
	if hub < 0 {
		return "", 0
	}
	return ids[hub], float64(best) / float64(len(valid))
}

// articulationPoints runs the low-link DFS over the undirected graph. A
// vertex is reported iff removing it would increase the component count.
func articulationPoints(n int, und [][]int) []int {
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	isAP := make([]bool, n)
	timer := 0

	var dfs func(u, parent int)
	dfs = func(u, parent int) {
		disc[u] = timer
		low[u] = timer
		timer++
		children := 0
		for _, v := range und[u] {
			if v == parent {
				continue
			}
			if disc[v] == -1 {
				children++
				dfs(v, u)
				if low[v] < low[u] {
					low[u] = low[v]
				}
				if parent != -1 && low[v] >= disc[u] {
					isAP[u] = true
				}
			} else if disc[v] < low[u] {
				low[u] = disc[v]
			}
		}
		if parent == -1 && children > 1 {
			isAP[u] = true
		}
	}

	for u := 0; u < n; u++ {
		if disc[u] == -1 {
			dfs(u, -1)
		}
	}

	var aps []int
	for u := 0; u < n; u++ {
		if isAP[u] {
			aps = append(aps, u)
		}
	}
	return aps
}

// clusterCohesion is the edge density of the largest component
func clusterCohesion(components [][]int, pairSeen map[[2]int]bool) float64 {
	if len(components) == 0 {
		return 0
	}
	largest := components[0]
	n := len(largest)
	if n < 2 {
		return 0
	}
	members := map[int]bool{}
	for _, u := range largest {
		members[u] = true
	}
	internal := 0
	for pair := range pairSeen {
		if members[pair[0]] && members[pair[1]] {
			internal++
		}
	}
	return float64(2*internal) / float64(n*(n-1))
}

// localCoherence is the fraction of claims living in multi-node components
func localCoherence(n int, components [][]int) float64 {
	if n == 0 {
		return 0
	}
	connected := 0
	for _, comp := range components {
		if len(comp) >= 2 {
			connected += len(comp)
		}
	}
	return float64(connected) / float64(n)
}

func toIDs(components [][]int, ids []string) [][]string {
	out := make([][]string, len(components))
	for i, comp := range components {
		out[i] = indicesToIDs(comp, ids)
	}
	return out
}

func indicesToIDs(indices []int, ids []string) []string {
	if len(indices) == 0 {
		return nil
	}
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = ids[idx]
	}
	return out
}
