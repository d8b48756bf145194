package game

import (
	"sync"

	"github.com/tomz197/napguard/internal/object"
	"github.com/tomz197/napguard/internal/physics"
)

// Snapshot is an immutable view of the session for rendering.
type Snapshot struct {
	State      State
	Annoyances []object.Annoyance // Draw order; later entries are on top
	Layout     Layout
	Table      *object.Table

	gridOnce sync.Once
	grid     *physics.SpatialGrid
}

// Phase returns the state machine phase at the time of the snapshot.
func (s *Snapshot) Phase() Phase {
	return s.State.Phase()
}

// Size returns the footprint side of an annoyance.
func (s *Snapshot) Size(a object.Annoyance) float64 {
	cfg, _ := s.Table.Config(a.Type)
	return cfg.Size
}

// Find returns the annoyance with the given ID.
func (s *Snapshot) Find(id object.ID) (object.Annoyance, bool) {
	for _, a := range s.Annoyances {
		if a.ID == id {
			return a, true
		}
	}
	return object.Annoyance{}, false
}

// Pick returns the topmost annoyance whose footprint contains p.
func (s *Snapshot) Pick(p physics.Vec) (object.Annoyance, bool) {
	s.gridOnce.Do(s.buildGrid)

	best := -1
	s.grid.QueryAround(p.X, p.Y, func(i int) bool {
		a := s.Annoyances[i]
		if i > best && physics.PointInRect(p.X, p.Y, a.Position.X, a.Position.Y, s.Size(a)) {
			best = i
		}
		return false
	})
	if best < 0 {
		return object.Annoyance{}, false
	}
	return s.Annoyances[best], true
}

// OnTarget reports whether p lies on the sleeping target.
func (s *Snapshot) OnTarget(p physics.Vec) bool {
	t := s.Layout.Target
	return physics.PointInCircle(p.X, p.Y, t.X, t.Y, s.Layout.HitRadius)
}

// Nearest returns the annoyance closest to the target, if any.
func (s *Snapshot) Nearest() (object.Annoyance, bool) {
	t := s.Layout.Target
	best := -1
	bestDist := 0.0
	for i, a := range s.Annoyances {
		d := physics.DistanceSquared(a.Position.X, a.Position.Y, t.X, t.Y)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return object.Annoyance{}, false
	}
	return s.Annoyances[best], true
}

// buildGrid indexes annoyances for point picking. Entities pushed past the
// edges land in the border cells.
func (s *Snapshot) buildGrid() {
	maxSize := 1.0
	for _, typ := range s.Table.Types() {
		if cfg, _ := s.Table.Config(typ); cfg.Size > maxSize {
			maxSize = cfg.Size
		}
	}
	s.grid = physics.NewSpatialGrid(s.Layout.Area.Width, s.Layout.Area.Height, maxSize)
	for i, a := range s.Annoyances {
		s.grid.Insert(a.Position.X, a.Position.Y, i)
	}
}

// publishLocked stores a fresh snapshot. Must be called with the lock held.
func (s *Session) publishLocked() {
	annoyances := make([]object.Annoyance, len(s.annoyances))
	for i, a := range s.annoyances {
		annoyances[i] = *a
	}
	s.snapshot.Store(&Snapshot{
		State:      s.state,
		Annoyances: annoyances,
		Layout:     s.layout,
		Table:      s.table,
	})
}
