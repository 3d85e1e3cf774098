package synteny

import (
	"math"
	"sort"

	"github.com/yumyai/pangtable/pkg/model"
)

// JaccardDistances returns the symmetric matrix of 1 - |A∩B|/|A∪B| between
// the family sets of the regions. Two empty sets are at distance 0.
func JaccardDistances(regions []*Region) [][]float64 {
	n := len(regions)
	sets := make([]model.FamilySet, n)
	for i, r := range regions {
		sets[i] = r.FamilySet()
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := jaccard(sets[i], sets[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func jaccard(a, b model.FamilySet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for f := range a {
		if b.Has(f) {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return 1 - float64(inter)/float64(union)
}

// Merge is one step of an agglomerative clustering. Clusters 0..n-1 are the
// leaves, merge i creates cluster n+i. Left is always the smaller id.
type Merge struct {
	Left, Right int
	Distance    float64
	Size        int
}

// SingleLinkage clusters n items from their distance matrix.
//
// It grows a minimum spanning tree with Prim's algorithm from item 0, taking
// the lowest index on ties, then replays the tree edges by increasing
// distance (stable on ties) with a union-find to name clusters. The result
// depends only on the input order.
func SingleLinkage(dist [][]float64) []Merge {
	n := len(dist)
	if n < 2 {
		return nil
	}

	type edge struct {
		a, b int
		d    float64
	}
	edges := make([]edge, 0, n-1)

	inTree := make([]bool, n)
	best := make([]float64, n)
	parent := make([]int, n)
	for i := range best {
		best[i] = math.Inf(1)
	}

	current := 0
	inTree[0] = true
	for k := 0; k < n-1; k++ {
		next := -1
		for i := 0; i < n; i++ {
			if inTree[i] {
				continue
			}
			if d := dist[current][i]; d < best[i] {
				best[i] = d
				parent[i] = current
			}
			if next == -1 || best[i] < best[next] {
				next = i
			}
		}
		inTree[next] = true
		edges = append(edges, edge{a: parent[next], b: next, d: best[next]})
		current = next
	}

	sort.SliceStable(edges, func(i, j int) bool { return edges[i].d < edges[j].d })

	// union-find over items, each root remembers the cluster id it stands for
	root := make([]int, n)
	clusterOf := make([]int, n)
	size := make([]int, n)
	for i := range root {
		root[i] = i
		clusterOf[i] = i
		size[i] = 1
	}
	find := func(x int) int {
		for root[x] != x {
			root[x] = root[root[x]]
			x = root[x]
		}
		return x
	}

	merges := make([]Merge, 0, n-1)
	for i, e := range edges {
		ra, rb := find(e.a), find(e.b)
		ca, cb := clusterOf[ra], clusterOf[rb]
		if ca > cb {
			ca, cb = cb, ca
		}
		merges = append(merges, Merge{Left: ca, Right: cb, Distance: e.d, Size: size[ra] + size[rb]})

		root[rb] = ra
		size[ra] += size[rb]
		clusterOf[ra] = n + i
	}
	return merges
}

// LeafOrder reads the leaves of the dendrogram left to right. It walks the
// tree with an explicit stack so deep trees cannot exhaust the call stack.
func LeafOrder(n int, merges []Merge) []int {
	if n == 0 {
		return nil
	}
	if len(merges) == 0 {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order
	}

	order := make([]int, 0, n)
	stack := []int{n + len(merges) - 1}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node < n {
			order = append(order, node)
			continue
		}
		m := merges[node-n]
		stack = append(stack, m.Right, m.Left)
	}
	return order
}

// Order arranges regions so that those with similar family content are
// adjacent, using single linkage on Jaccard distances. The returned slice
// is a permutation of the input; a single region is returned as is.
func Order(regions []*Region) []*Region {
	if len(regions) <= 1 {
		return regions
	}
	merges := SingleLinkage(JaccardDistances(regions))
	leaves := LeafOrder(len(regions), merges)

	ordered := make([]*Region, len(leaves))
	for i, idx := range leaves {
		ordered[i] = regions[idx]
	}
	return ordered
}
