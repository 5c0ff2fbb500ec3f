package game

import (
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// Layers used by the room.
const (
	LayerDefault = 0
	LayerPlayer  = 3
	LayerEnemy   = 6
)

// Room dimensions in metres; the floor spans [-W/2,W/2] x [-D/2,D/2].
const (
	RoomWidth  = 20.0
	RoomDepth  = 16.0
	wallHeight = 3.0
	wallThick  = 0.2
)

// Room is the scene the player and the enemies share.
type Room struct {
	Scene *scene.Scene
	// Props are the furniture enemies may disguise themselves as.
	Props []*scene.Object
	// Occluders are non-prop blockers (walls, pillars).
	Occluders   []*scene.Object
	Door        *scene.Object
	SpawnPoints []Spawn
	PlayerStart geom.Vec3
}

// Area is the floor's footprint.
func (r *Room) Area() geom.Bounds {
	return geom.NewBounds(geom.V(0, wallHeight/2, 0), geom.V(RoomWidth, wallHeight, RoomDepth))
}

// PropSpec places one piece of furniture.
type PropSpec struct {
	Name    string
	X, Z    float64
	W, H, D float64
	Yaw     float64
	// Sway gives the prop a skinned, animated part (plants, curtains).
	Sway bool
	// Loose gives the prop a rigidbody.
	Loose bool
	// Flicker attaches a behaviour toggling a light child on and off.
	Flicker bool
}

// DefaultProps furnish the demo room.
func DefaultProps() []PropSpec {
	return []PropSpec{
		{Name: "Crate", X: 5, Z: 2, W: 1, H: 1, D: 1},
		{Name: "Barrel", X: -6, Z: 3, W: 0.6, H: 1.1, D: 0.6, Loose: true},
		{Name: "Lamp", X: 7.5, Z: 6.5, W: 0.4, H: 1.8, D: 0.4, Flicker: true},
		{Name: "Chair", X: -3, Z: -1, W: 0.6, H: 1, D: 0.6, Yaw: math.Pi / 6},
		{Name: "Table", X: -2, Z: 1, W: 1.6, H: 0.8, D: 0.9},
		{Name: "Plant", X: 2, Z: 6.5, W: 0.5, H: 1.4, D: 0.5, Sway: true},
		{Name: "Bookshelf", X: -8.5, Z: -2, W: 0.5, H: 2, D: 2},
	}
}

// OccluderSpec places a wall segment or pillar that is never mimicked.
type OccluderSpec struct {
	Name    string
	X, Z    float64
	W, H, D float64
}

// DefaultOccluders add cover in the middle of the room.
func DefaultOccluders() []OccluderSpec {
	return []OccluderSpec{
		{Name: "Pillar", X: 0, Z: 2.5, W: 1, H: wallHeight, D: 1},
		{Name: "Partition", X: 4, Z: -3, W: 4, H: 2.2, D: 0.2},
	}
}

// RoomOptions controls BuildRoom.
type RoomOptions struct {
	Props       []PropSpec
	Occluders   []OccluderSpec
	SpawnPoints []Spawn
	PlayerStart geom.Vec3
}

// DefaultRoomOptions is the stock arena: three spawn points, the player at
// the south wall looking north.
func DefaultRoomOptions() RoomOptions {
	return RoomOptions{
		Props:       DefaultProps(),
		Occluders:   DefaultOccluders(),
		SpawnPoints: []Spawn{
			{Pos: geom.V(6, 0, 5), Yaw: math.Pi},
			{Pos: geom.V(-7, 0, 6), Yaw: math.Pi},
			{Pos: geom.V(0, 0, 7), Yaw: math.Pi},
		},
		PlayerStart: geom.V(0, 0, -6),
	}
}

// BuildRoom creates the walls, door, occluders and props.
func BuildRoom(opts RoomOptions) *Room {
	s := scene.New()
	r := &Room{
		Scene:       s,
		SpawnPoints: append([]Spawn(nil), opts.SpawnPoints...),
		PlayerStart: opts.PlayerStart,
	}

	hw, hd := RoomWidth/2, RoomDepth/2
	walls := []OccluderSpec{
		{Name: "WallSouth", X: 0, Z: -hd, W: RoomWidth, H: wallHeight, D: wallThick},
		{Name: "WallWest", X: -hw, Z: 0, W: wallThick, H: wallHeight, D: RoomDepth},
		{Name: "WallEast", X: hw, Z: 0, W: wallThick, H: wallHeight, D: RoomDepth},
		// North wall is split around the door.
		{Name: "WallNorthW", X: -(hw + 1) / 2, Z: hd, W: hw - 1, H: wallHeight, D: wallThick},
		{Name: "WallNorthE", X: (hw + 1) / 2, Z: hd, W: hw - 1, H: wallHeight, D: wallThick},
	}
	for _, w := range append(walls, opts.Occluders...) {
		o := s.Add(box(w.Name, geom.V(w.X, 0, w.Z), w.W, w.H, w.D), nil)
		r.Occluders = append(r.Occluders, o)
	}
	r.Door = s.Add(box("Door", geom.V(0, 0, hd), 2, 2.5, wallThick), nil)

	for _, p := range opts.Props {
		r.Props = append(r.Props, addProp(s, p))
	}
	return r
}

// box returns a solid: mesh, enabled renderer and matching collider, base
// resting on y=0 at pos.
func box(name string, pos geom.Vec3, w, h, d float64) *scene.Object {
	o := scene.NewObject(name)
	o.LocalPosition = pos
	o.Mesh = &scene.Mesh{Vertices: boxVerts(geom.V(0, h/2, 0), geom.V(w, h, d))}
	o.Renderer = &scene.Renderer{Enabled: true}
	o.Collider = &scene.BoxCollider{Center: geom.V(0, h/2, 0), Size: geom.V(w, h, d)}
	return o
}

// boxVerts returns the eight corners of a box.
func boxVerts(center, size geom.Vec3) []geom.Vec3 {
	c := geom.NewBounds(center, size).Corners()
	return c[:]
}

func addProp(s *scene.Scene, p PropSpec) *scene.Object {
	o := box(p.Name, geom.V(p.X, 0, p.Z), p.W, p.H, p.D)
	o.LocalYaw = p.Yaw
	if p.Loose {
		o.Body = &scene.Rigidbody{UseGravity: true}
	}
	s.Add(o, nil)
	if p.Sway {
		leaves := scene.NewObject(p.Name + "Leaves")
		leaves.LocalPosition = geom.V(0, p.H, 0)
		leaves.Skinned = &scene.SkinnedMesh{BindPose: boxVerts(geom.V(0, 0.25, 0), geom.V(p.W*1.6, 0.5, p.D*1.6))}
		leaves.Renderer = &scene.Renderer{Enabled: true}
		leaves.Animator = &scene.Animator{Enabled: true, Speed: 1.5, Amplitude: 0.05}
		s.Add(leaves, o)
	}
	if p.Flicker {
		bulb := scene.NewObject(p.Name + "Bulb")
		bulb.LocalPosition = geom.V(0, p.H, 0)
		bulb.Mesh = &scene.Mesh{Vertices: boxVerts(geom.V(0, 0.1, 0), geom.V(0.3, 0.2, 0.3))}
		bulb.Renderer = &scene.Renderer{Enabled: true}
		s.Add(bulb, o)
		o.AddBehaviour("flicker", flicker(bulb))
	}
	return o
}

// flicker toggles the bulb's renderer on a fixed rhythm.
func flicker(bulb *scene.Object) func(o *scene.Object, dt float64) {
	var t float64
	return func(_ *scene.Object, dt float64) {
		t += dt
		bulb.Renderer.Enabled = math.Mod(t, 1.3) < 1.1
	}
}

// BuildEnemy creates the enemy prefab at pos: a body, a skinned cloak
// driven by an animator, and a pair of eyes.
func BuildEnemy(s *scene.Scene, name string, pos geom.Vec3) *scene.Object {
	body := box(name, pos, 0.8, 1.9, 0.6)
	body.SetLayerRecursive(LayerEnemy)
	s.Add(body, nil)

	cloak := scene.NewObject("Cloak")
	cloak.LocalPosition = geom.V(0, 0.4, 0)
	cloak.Skinned = &scene.SkinnedMesh{BindPose: boxVerts(geom.V(0, 0.6, 0), geom.V(0.9, 1.2, 0.7))}
	cloak.Renderer = &scene.Renderer{Enabled: true}
	cloak.Animator = &scene.Animator{Enabled: true, Speed: 4, Amplitude: 0.03}
	cloak.Layer = LayerEnemy
	s.Add(cloak, body)

	eyes := scene.NewObject("Eyes")
	eyes.LocalPosition = geom.V(0, 1.65, 0.31)
	eyes.Mesh = &scene.Mesh{Vertices: boxVerts(geom.Zero, geom.V(0.3, 0.06, 0.02))}
	eyes.Renderer = &scene.Renderer{Enabled: true}
	eyes.Layer = LayerEnemy
	s.Add(eyes, body)
	return body
}
