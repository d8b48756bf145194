package object

import (
	"strconv"

	"github.com/tomz197/napguard/internal/physics"
)

// Spawn placement.
const (
	MinSpawnDistance    = 150.0 // Minimum distance between a fresh spawn and the target
	MaxSpawnAttempts    = 10
	SpawnFallbackOffset = 50.0 // Distance past the edge used when every attempt was too close
)

// Rand is the source of randomness used for spawning.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Side is a play-area edge.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// String returns the edge name.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "side(" + strconv.Itoa(int(s)) + ")"
	}
}

// inward returns the unit vector pointing from the edge into the play area.
func (s Side) inward() physics.Vec {
	switch s {
	case SideTop:
		return physics.Vec{X: 0, Y: 1}
	case SideRight:
		return physics.Vec{X: -1, Y: 0}
	case SideBottom:
		return physics.Vec{X: 0, Y: -1}
	default:
		return physics.Vec{X: 1, Y: 0}
	}
}

// Area is the measured play area. A zero dimension means it has not been
// measured yet.
type Area struct {
	Width  float64
	Height float64
}

// Measured reports whether both dimensions are known.
func (a Area) Measured() bool {
	return a.Width > 0 && a.Height > 0
}

// Factory creates annoyances at the play-area edges.
type Factory struct {
	table  *Table
	rng    Rand
	prefix string
	seq    uint64
}

// NewFactory creates a factory over the given type table.
func NewFactory(table *Table, rng Rand) *Factory {
	return &Factory{table: table, rng: rng}
}

// Reset restarts ID generation under a new prefix. Sessions call this on
// every start so IDs from an earlier session never match a new annoyance.
func (f *Factory) Reset(prefix string) {
	f.prefix = prefix
	f.seq = 0
}

// Spawn creates an annoyance of the forced type, or of a weighted random
// type when forced is empty. It returns false when the area is unmeasured.
func (f *Factory) Spawn(forced Type, area Area, target physics.Vec, gameSpeed float64) (*Annoyance, bool) {
	if !area.Measured() {
		return nil, false
	}

	typ := forced
	if _, ok := f.table.Config(typ); !ok {
		typ = PickType(f.table, gameSpeed, f.rng)
	}
	cfg, _ := f.table.Config(typ)

	side := f.pickSide(cfg)
	pos := f.placeOnEdge(side, area, target)

	f.seq++
	return &Annoyance{
		ID:       ID(f.prefix + strconv.FormatUint(f.seq, 36)),
		Type:     typ,
		Position: pos,
		Velocity: side.inward(),
		HP:       cfg.BaseHP,
	}, true
}

// pickSide chooses a spawn edge uniformly among the edges the type allows.
func (f *Factory) pickSide(cfg TypeConfig) Side {
	if cfg.SkipBottomEdge {
		return [...]Side{SideTop, SideRight, SideLeft}[f.rng.Intn(3)]
	}
	return Side(f.rng.Intn(4))
}

// placeOnEdge draws positions along the edge until one is far enough from
// the target, giving up after a fixed number of attempts and placing the
// annoyance further outside the edge instead.
func (f *Factory) placeOnEdge(side Side, area Area, target physics.Vec) physics.Vec {
	for attempt := 0; attempt < MaxSpawnAttempts; attempt++ {
		pos := f.edgePoint(side, area, 0)
		if physics.Distance(pos.X, pos.Y, target.X, target.Y) >= MinSpawnDistance {
			return pos
		}
	}
	return f.edgePoint(side, area, SpawnFallbackOffset)
}

// edgePoint returns a uniformly random point on the edge, pushed outward by offset.
func (f *Factory) edgePoint(side Side, area Area, offset float64) physics.Vec {
	switch side {
	case SideTop:
		return physics.Vec{X: f.rng.Float64() * area.Width, Y: -offset}
	case SideRight:
		return physics.Vec{X: area.Width + offset, Y: f.rng.Float64() * area.Height}
	case SideBottom:
		return physics.Vec{X: f.rng.Float64() * area.Width, Y: area.Height + offset}
	default:
		return physics.Vec{X: -offset, Y: f.rng.Float64() * area.Height}
	}
}
