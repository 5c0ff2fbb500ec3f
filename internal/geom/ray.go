package geom

import "math"

// RayBounds returns the distance along a unit direction at which the ray
// enters the box, limited to [0, maxDist]. A ray starting inside the box
// hits at distance 0. The bool is false when there is no hit.
func RayBounds(origin, dir Vec3, maxDist float64, b Bounds) (float64, bool) {
	tMin := 0.0
	tMax := maxDist
	lo, hi := b.Min(), b.Max()

	for axis := 0; axis < 3; axis++ {
		o := origin.Axis(axis)
		d := dir.Axis(axis)
		bmin := lo.Axis(axis)
		bmax := hi.Axis(axis)

		// Parallel to this slab: must already be inside it.
		if math.Abs(d) < 1e-12 {
			if o < bmin || o > bmax {
				return 0, false
			}
			continue
		}
		invD := 1.0 / d
		t1 := (bmin - o) * invD
		t2 := (bmax - o) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// SegmentHitsBounds reports whether the segment a->b touches the box.
func SegmentHitsBounds(a, b Vec3, box Bounds) bool {
	d := b.Sub(a)
	l := d.Len()
	if l < 1e-12 {
		return box.Contains(a)
	}
	_, ok := RayBounds(a, d.Scale(1/l), l, box)
	return ok
}
