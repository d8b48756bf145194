package client

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/napguard/internal/draw"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y        float64 // Position in logical units
	VX, VY      float64 // Velocity per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Color       draw.Color
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, color draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	p.Color = color
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update moves the particle. It reports true once the particle expired.
func (p *Particle) Update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Visible reports whether the particle is still drawn. The last quarter of
// its life is skipped so bursts thin out before vanishing.
func (p *Particle) Visible() bool {
	return p.MaxLifetime <= 0 || p.Lifetime/p.MaxLifetime >= 0.25
}

// Particles is the set of live particles of one client.
type Particles struct {
	list []*Particle
	rng  *rand.Rand
}

// NewParticles creates an empty particle set.
func NewParticles(rng *rand.Rand) *Particles {
	return &Particles{rng: rng}
}

// Burst spawns count particles flying out of (x, y) in random directions.
func (ps *Particles) Burst(x, y float64, count int, speed, lifetime float64, colors ...draw.Color) {
	if len(colors) == 0 {
		colors = []draw.Color{draw.ColorWhite}
	}
	for i := 0; i < count; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		// 50% to 150% speed, 50% to 100% lifetime
		spd := speed * (0.5 + ps.rng.Float64())
		life := lifetime * (0.5 + ps.rng.Float64()*0.5)

		vx := math.Cos(angle) * spd
		vy := math.Sin(angle) * spd
		ps.list = append(ps.list, NewParticle(x, y, vx, vy, life, colors[ps.rng.Intn(len(colors))]))
	}
}

// Update advances every particle and releases the expired ones.
func (ps *Particles) Update(dt float64) {
	live := ps.list[:0]
	for _, p := range ps.list {
		if p.Update(dt) {
			p.Release()
			continue
		}
		live = append(live, p)
	}
	clear(ps.list[len(live):])
	ps.list = live
}

// Draw plots the visible particles.
func (ps *Particles) Draw(c *draw.Canvas) {
	ps.Each(func(p *Particle) {
		c.Set(p.X, p.Y, p.Color)
	})
}

// Each calls fn for every visible particle.
func (ps *Particles) Each(fn func(p *Particle)) {
	for _, p := range ps.list {
		if p.Visible() {
			fn(p)
		}
	}
}

// Len returns the number of live particles.
func (ps *Particles) Len() int {
	return len(ps.list)
}

// Reset releases every particle.
func (ps *Particles) Reset() {
	for _, p := range ps.list {
		p.Release()
	}
	clear(ps.list)
	ps.list = ps.list[:0]
}
