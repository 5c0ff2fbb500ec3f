package geom

// Bounds is an axis-aligned box stored as center and half-size.
type Bounds struct {
	Center  Vec3
	Extents Vec3
}

// NewBounds builds a box from its center and full size.
func NewBounds(center, size Vec3) Bounds {
	return Bounds{Center: center, Extents: size.Scale(0.5)}
}

// FromMinMax builds a box from two opposite corners.
func FromMinMax(lo, hi Vec3) Bounds {
	lo, hi = lo.Min(hi), lo.Max(hi)
	return Bounds{Center: lo.Add(hi).Scale(0.5), Extents: hi.Sub(lo).Scale(0.5)}
}

func (b Bounds) Size() Vec3 { return b.Extents.Scale(2) }

func (b Bounds) Min() Vec3 { return b.Center.Sub(b.Extents) }

func (b Bounds) Max() Vec3 { return b.Center.Add(b.Extents) }

// Encapsulate grows b to contain o.
func (b Bounds) Encapsulate(o Bounds) Bounds {
	return FromMinMax(b.Min().Min(o.Min()), b.Max().Max(o.Max()))
}

// EncapsulatePoint grows b to contain p.
func (b Bounds) EncapsulatePoint(p Vec3) Bounds {
	return FromMinMax(b.Min().Min(p), b.Max().Max(p))
}

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p Vec3) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// Corners returns the eight box corners.
func (b Bounds) Corners() [8]Vec3 {
	lo, hi := b.Min(), b.Max()
	return [8]Vec3{
		{lo.X, lo.Y, lo.Z}, {hi.X, lo.Y, lo.Z},
		{lo.X, hi.Y, lo.Z}, {hi.X, hi.Y, lo.Z},
		{lo.X, lo.Y, hi.Z}, {hi.X, lo.Y, hi.Z},
		{lo.X, hi.Y, hi.Z}, {hi.X, hi.Y, hi.Z},
	}
}

// PointsBounds returns the tight box around pts. ok is false for an empty slice.
func PointsBounds(pts []Vec3) (b Bounds, ok bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return FromMinMax(lo, hi), true
}
