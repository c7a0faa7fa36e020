package spatial

import (
	"iter"
	"math"

	"github.com/dhconnelly/rtreego"
)

// DefaultNodeSize is the maximum number of entries per R-tree node.
const DefaultNodeSize = 50

// Index is a static 2D R-tree over a fixed set of points.
//
// Build bulk-loads the tree in one pass (overlap minimizing top-down), and
// nothing is inserted or deleted afterwards, so an Index can be shared by any
// number of concurrent readers.
type Index struct {
	tree   *rtreego.Rtree
	size   int
	bounds Envelope
}

// indexedPoint adapts a Point to rtreego.Spatial as a zero-size rectangle.
type indexedPoint struct {
	p    Point
	rect rtreego.Rect
}

func (ip *indexedPoint) Bounds() rtreego.Rect {
	return ip.rect
}

// Build bulk-loads points into a new index. The input slice is not modified.
func Build(points []Point) *Index {
	return BuildWithNodeSize(points, DefaultNodeSize)
}

// BuildWithNodeSize is Build with an explicit node capacity. Values below 2
// fall back to DefaultNodeSize.
func BuildWithNodeSize(points []Point, nodeSize int) *Index {
	if nodeSize < 2 {
		nodeSize = DefaultNodeSize
	}

	objs := make([]rtreego.Spatial, len(points))
	for i, p := range points {
		objs[i] = &indexedPoint{p: p, rect: rtreego.Point{p.X, p.Y}.ToRect(0)}
	}

	ix := &Index{
		tree: rtreego.NewTree(2, max(nodeSize/2, 1), nodeSize, objs...),
		size: len(points),
	}
	ix.bounds, _ = BoundingBox(points)
	return ix
}

// Len returns the number of indexed points.
func (ix *Index) Len() int {
	return ix.size
}

// Bounds returns the envelope of all indexed points, or false for an empty index.
func (ix *Index) Bounds() (Envelope, bool) {
	return ix.bounds, ix.size > 0
}

// Search yields every indexed point inside env, edges included.
// The order of results is unspecified.
//
// rtreego treats rectangles that only touch as disjoint, so the tree is
// queried with env grown by one ulp on every side and candidates are then
// filtered against env itself.
func (ix *Index) Search(env Envelope) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if ix.size == 0 || !ix.bounds.Intersects(env) {
			return
		}

		query, err := rtreego.NewRectFromPoints(
			rtreego.Point{math.Nextafter(env.Min.X, math.Inf(-1)), math.Nextafter(env.Min.Y, math.Inf(-1))},
			rtreego.Point{math.Nextafter(env.Max.X, math.Inf(1)), math.Nextafter(env.Max.Y, math.Inf(1))},
		)
		if err != nil {
			return
		}

		inside := func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
			return !env.Contains(obj.(*indexedPoint).p), false
		}
		for _, obj := range ix.tree.SearchIntersect(query, inside) {
			if !yield(obj.(*indexedPoint).p) {
				return
			}
		}
	}
}
