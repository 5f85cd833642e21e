package topology

import (
	"sort"

	"github.com/paulmach/orb"
)

// usableRing reports whether r is closed and encloses something:
// at least three distinct vertices plus the closing one.
func usableRing(r orb.Ring) bool {
	if len(r) < 4 || !r.Closed() {
		return false
	}

	distinct := 1
	for i := 1; i < len(r)-1; i++ {
		if r[i] != r[i-1] {
			distinct++
		}
	}
	return distinct >= 3 && signedArea(r) != 0
}

// validSimplification reports whether reduced can replace full without
// changing topology: still usable, same winding, no self-intersection.
func validSimplification(full, reduced orb.Ring) bool {
	if !usableRing(reduced) {
		return false
	}
	if (signedArea(full) > 0) != (signedArea(reduced) > 0) {
		return false
	}
	return !selfIntersects(reduced)
}

// signedArea is the shoelace area in degrees², positive for counter-clockwise.
func signedArea(r orb.Ring) float64 {
	var a float64
	for i := 0; i < len(r)-1; i++ {
		a += r[i][0]*r[i+1][1] - r[i+1][0]*r[i][1]
	}
	return a / 2
}

// selfIntersects tests pairs of non-adjacent edges of a closed ring.
// Edges are swept in order of their west bound so only pairs with
// overlapping bounds reach the exact segment test.
func selfIntersects(r orb.Ring) bool {
	n := len(r) - 1 // edges
	if n < 4 {
		return false
	}

	bounds := make([]orb.Bound, n)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		bounds[i] = orb.Bound{Min: r[i], Max: r[i]}.Extend(r[i+1])
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return bounds[order[a]].Min[0] < bounds[order[b]].Min[0]
	})

	active := make([]int, 0, 16)
	for _, i := range order {
		b := bounds[i]

		kept := active[:0]
		for _, j := range active {
			if bounds[j].Max[0] >= b.Min[0] {
				kept = append(kept, j)
			}
		}
		active = kept

		for _, j := range active {
			if adjacentEdges(i, j, n) || !b.Intersects(bounds[j]) {
				continue
			}
			if segmentsIntersect(r[i], r[i+1], r[j], r[j+1]) {
				return true
			}
		}
		active = append(active, i)
	}
	return false
}

// adjacentEdges reports whether edges i and j share a vertex, including
// the first and last edge of the ring.
func adjacentEdges(i, j, n int) bool {
	if i > j {
		i, j = j, i
	}
	return j == i+1 || (i == 0 && j == n-1)
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
