package shape

import (
	"cmp"
	"slices"
	"time"
)

// finalize turns a traversal-order table into a canonical Schema. Rows are
// placed one depth level at a time, ordered by (depth, key, type), then by the
// new position of their parent, then by the rank of their subtree among the
// subtrees of the same level, and finally by traversal position. The last key
// only separates rows with isomorphic subtrees, so the resulting table does
// not depend on map key order or on array element order.
//
// rows must satisfy the parent/depth invariants; it is not modified.
func finalize(rows []Row, date time.Time) *Schema {
	n := len(rows)
	if n == 0 {
		return &Schema{date: date, hash: hashRows(nil)}
	}

	minDepth, maxDepth := rows[0].Depth, rows[0].Depth
	for _, r := range rows[1:] {
		minDepth = min(minDepth, r.Depth)
		maxDepth = max(maxDepth, r.Depth)
	}

	levels := make([][]int, maxDepth-minDepth+1)
	children := make([][]int, n)
	for i, r := range rows {
		levels[r.Depth-minDepth] = append(levels[r.Depth-minDepth], i)
		if r.Parent >= 0 {
			children[r.Parent] = append(children[r.Parent], i)
		}
	}

	rank := subtreeRanks(rows, levels, children)

	newPos := make([]int, n)
	order := make([]int, 0, n)
	parentPos := func(i int) int {
		if p := rows[i].Parent; p >= 0 {
			return newPos[p]
		}
		return NoParent
	}

	for _, level := range levels {
		slices.SortFunc(level, func(a, b int) int {
			if c := rows[a].cmpKey(rows[b]); c != 0 {
				return c
			}
			if c := cmp.Compare(parentPos(a), parentPos(b)); c != 0 {
				return c
			}
			if c := cmp.Compare(rank[a], rank[b]); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		for _, i := range level {
			newPos[i] = len(order)
			order = append(order, i)
		}
	}

	table := make([]Row, n)
	for k, i := range order {
		r := rows[i]
		if r.Parent >= 0 {
			r.Parent = newPos[r.Parent]
		}
		table[k] = r
	}

	return &Schema{rows: table, date: date, hash: hashRows(table)}
}

// subtreeRanks labels every row with the rank of its subtree signature
// (key, type, sorted child ranks) among the distinct signatures found at the
// same depth. Levels are visited bottom-up so child ranks are always known.
// Two rows share a rank iff their subtrees are isomorphic.
func subtreeRanks(rows []Row, levels [][]int, children [][]int) []int {
	rank := make([]int, len(rows))
	sig := make([][]int, len(rows))

	sigCmp := func(a, b int) int {
		if c := rows[a].cmpKey(rows[b]); c != 0 {
			return c
		}
		return slices.Compare(sig[a], sig[b])
	}

	for d := len(levels) - 1; d >= 0; d-- {
		level := slices.Clone(levels[d])
		for _, i := range level {
			if len(children[i]) == 0 {
				continue
			}
			s := make([]int, len(children[i]))
			for k, c := range children[i] {
				s[k] = rank[c]
			}
			slices.Sort(s)
			sig[i] = s
		}

		slices.SortFunc(level, sigCmp)
		next := 0
		for k, i := range level {
			if k > 0 && sigCmp(level[k-1], i) != 0 {
				next++
			}
			rank[i] = next
		}
	}

	return rank
}
