package cluster

// unionFind is a disjoint-set forest over dense indices with path
// compression.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	root := i
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[i] != root {
		next := u.parent[i]
		u.parent[i] = root
		i = next
	}
	return root
}

// union merges the sets of a and b and reports whether they were distinct.
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	u.parent[rb] = ra
	return true
}

// groups returns the members of each set, ordered by first member, members
// ascending.
func (u *unionFind) groups() [][]int {
	slot := make(map[int]int)
	var out [][]int
	for i := range u.parent {
		root := u.find(i)
		k, ok := slot[root]
		if !ok {
			k = len(out)
			slot[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], i)
	}
	return out
}
