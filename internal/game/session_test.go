package game

import (
	"io"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/napguard/internal/audio"
	"github.com/tomz197/napguard/internal/game/config"
	"github.com/tomz197/napguard/internal/object"
	"github.com/tomz197/napguard/internal/physics"
)

// recordingAudio records every call in order.
type recordingAudio struct {
	mu      sync.Mutex
	calls   []string
	enabled int
}

func (r *recordingAudio) Play(s audio.Sound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "play:"+string(s))
}

func (r *recordingAudio) Stop(s audio.Sound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "stop:"+string(s))
}

func (r *recordingAudio) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled++
}

func (r *recordingAudio) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recordingAudio) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Landscape 800x600: target (400, 456), hit radius 45.
func newTestSession(t *testing.T) (*Session, *recordingAudio) {
	t.Helper()
	rec := &recordingAudio{}
	s := NewSession(Options{
		Audio:  rec,
		Rand:   rand.New(rand.NewSource(1)),
		Logger: log.New(io.Discard),
		Manual: true,
	})
	t.Cleanup(s.Close)
	s.Resize(800, 600)
	return s, rec
}

// place spawns an annoyance and moves it to pos.
func place(t *testing.T, s *Session, typ object.Type, pos physics.Vec) object.ID {
	t.Helper()
	id, ok := s.Spawn(typ)
	if !ok {
		t.Fatalf("Spawn(%s) failed", typ)
	}
	s.mu.Lock()
	s.annoyances[s.findLocked(id)].Position = pos
	s.publishLocked()
	s.mu.Unlock()
	return id
}

func checkInvariants(t *testing.T, s *Session) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.EnemiesRemaining != len(s.annoyances) {
		t.Fatalf("EnemiesRemaining = %d, live = %d", s.state.EnemiesRemaining, len(s.annoyances))
	}
	for _, a := range s.annoyances {
		if a.HP < 1 {
			t.Fatalf("annoyance %s alive with hp %d", a.ID, a.HP)
		}
	}
	if s.state.SleepHealth < 0 || s.state.SleepHealth > 100 {
		t.Fatalf("SleepHealth = %d out of range", s.state.SleepHealth)
	}
	if s.state.GameSpeed < 1 || s.state.GameSpeed > 2.5 {
		t.Fatalf("GameSpeed = %v out of range", s.state.GameSpeed)
	}
	if s.state.Score < 0 {
		t.Fatalf("Score = %d", s.state.Score)
	}
}

func TestStartResetsSession(t *testing.T) {
	s, rec := newTestSession(t)

	s.Start()
	place(t, s, object.TypeFly, physics.Vec{X: 10, Y: 10})
	s.mu.Lock()
	s.state.Score = 42
	s.state.SleepHealth = 7
	s.state.GameSpeed = 2
	s.state.WaveNumber = 9
	s.mu.Unlock()

	s.Start()
	st := s.Snapshot().State
	if !st.Playing || st.Paused || st.Score != 0 || st.SleepHealth != 100 ||
		st.GameSpeed != 1 || st.WaveNumber != 0 || st.NextWaveIn != 3 || st.EnemiesRemaining != 0 {
		t.Errorf("state after Start = %+v", st)
	}
	if n := len(s.Snapshot().Annoyances); n != 0 {
		t.Errorf("annoyances after Start = %d, want 0", n)
	}
	if s.Snapshot().Phase() != PhaseRunning {
		t.Errorf("Phase() = %v, want running", s.Snapshot().Phase())
	}
	if rec.enabled != 2 {
		t.Errorf("Enable called %d times, want 2", rec.enabled)
	}
	if rec.count("play:ambient") != 2 {
		t.Errorf("ambient played %d times, want 2", rec.count("play:ambient"))
	}
}

func TestHitDefeatsFly(t *testing.T) {
	s, rec := newTestSession(t)
	s.Start()

	target := s.Snapshot().Layout.Target
	id := place(t, s, object.TypeFly, physics.Vec{X: target.X, Y: target.Y - 200})
	before := s.Snapshot().State.EnemiesRemaining

	s.Hit(id)

	snap := s.Snapshot()
	if _, ok := snap.Find(id); ok {
		t.Error("fly still alive after one hit")
	}
	if snap.State.Score != 1 {
		t.Errorf("Score = %d, want 1", snap.State.Score)
	}
	if snap.State.EnemiesRemaining != before-1 {
		t.Errorf("EnemiesRemaining = %d, want %d", snap.State.EnemiesRemaining, before-1)
	}
	if rec.count("play:swat") != 1 {
		t.Error("swat not played")
	}

	select {
	case ev := <-s.Events():
		d, ok := ev.(EventDefeated)
		if !ok || d.Type != object.TypeFly || d.Points != 1 || d.ID != id {
			t.Errorf("event = %#v, want EventDefeated for the fly", ev)
		}
	default:
		t.Error("no defeat event")
	}
}

func TestHitRoombaScoresBaseHP(t *testing.T) {
	s, rec := newTestSession(t)
	s.Start()
	id := place(t, s, object.TypeRoomba, physics.Vec{X: 10, Y: 10})

	s.Hit(id)
	s.Hit(id)
	a, ok := s.Snapshot().Find(id)
	if !ok || a.HP != 1 {
		t.Fatalf("after two hits: found=%v hp=%d, want hp 1", ok, a.HP)
	}
	if s.Snapshot().State.Score != 0 {
		t.Errorf("Score = %d before defeat, want 0", s.Snapshot().State.Score)
	}

	s.Hit(id)
	if _, ok := s.Snapshot().Find(id); ok {
		t.Error("roomba alive after third hit")
	}
	if got := s.Snapshot().State.Score; got != 3 {
		t.Errorf("Score = %d, want 3", got)
	}
	if rec.count("play:vacuum") != 1 {
		t.Error("vacuum not played for roomba defeat")
	}

	// Further hits on the removed ID are ignored.
	s.Hit(id)
	if got := s.Snapshot().State.Score; got != 3 {
		t.Errorf("Score = %d after stale hit, want 3", got)
	}
}

func TestContactDrainsHealth(t *testing.T) {
	s, rec := newTestSession(t)
	s.Start()

	target := s.Snapshot().Layout.Target
	id := place(t, s, object.TypeFly, physics.Vec{X: target.X, Y: target.Y - 30})
	s.StepMotion()

	snap := s.Snapshot()
	if _, ok := snap.Find(id); ok {
		t.Error("fly not removed on contact")
	}
	if snap.State.SleepHealth != 99 {
		t.Errorf("SleepHealth = %d, want 99", snap.State.SleepHealth)
	}
	if snap.State.Score != 0 {
		t.Errorf("Score = %d, want 0", snap.State.Score)
	}
	if rec.count("play:contact") != 1 {
		t.Error("contact stinger not played")
	}
	checkInvariants(t, s)
}

func TestGameOver(t *testing.T) {
	s, rec := newTestSession(t)
	s.Start()

	target := s.Snapshot().Layout.Target
	place(t, s, object.TypeFly, physics.Vec{X: target.X, Y: target.Y - 30})
	survivor := place(t, s, object.TypeFly, physics.Vec{X: target.X + 10, Y: target.Y - 20})
	s.mu.Lock()
	s.state.SleepHealth = 1
	s.mu.Unlock()

	rec.reset()
	s.StepMotion()

	snap := s.Snapshot()
	if snap.State.Playing {
		t.Fatal("still playing after health reached 0")
	}
	if snap.Phase() != PhaseGameOver {
		t.Errorf("Phase() = %v, want game over", snap.Phase())
	}
	if snap.State.SleepHealth != 0 {
		t.Errorf("SleepHealth = %d, want 0", snap.State.SleepHealth)
	}
	if _, ok := snap.Find(survivor); !ok {
		t.Error("annoyance after the fatal contact was resolved in the same tick")
	}
	for _, snd := range audio.All {
		if rec.count("stop:"+string(snd)) == 0 {
			t.Errorf("%s not stopped on game over", snd)
		}
	}

	gotOver := false
	for len(s.Events()) > 0 {
		if ev, ok := (<-s.Events()).(EventGameOver); ok {
			gotOver = true
			if ev.Score != 0 {
				t.Errorf("EventGameOver.Score = %d, want 0", ev.Score)
			}
		}
	}
	if !gotOver {
		t.Error("no game over event")
	}

	// Nothing moves or spawns until the next start.
	before := s.Snapshot()
	for range 10 {
		s.StepMotion()
		s.StepWave()
	}
	after := s.Snapshot()
	if len(after.Annoyances) != len(before.Annoyances) || after.Annoyances[0].Position != before.Annoyances[0].Position {
		t.Error("simulation advanced after game over")
	}
	if after.State.GameSpeed != before.State.GameSpeed {
		t.Error("game speed ramped after game over")
	}
}

func TestWaveSize(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()

	s.mu.Lock()
	s.state.WaveNumber = 2
	s.state.NextWaveIn = 0
	s.state.EnemiesRemaining = 0
	s.mu.Unlock()

	s.StepWave()

	st := s.Snapshot().State
	if n := len(s.Snapshot().Annoyances); n != 4 {
		t.Errorf("wave spawned %d annoyances, want 4", n)
	}
	if st.EnemiesRemaining != 4 {
		t.Errorf("EnemiesRemaining = %d, want 4", st.EnemiesRemaining)
	}
	if st.NextWaveIn != 5 {
		t.Errorf("NextWaveIn = %d, want 5", st.NextWaveIn)
	}
	if st.WaveNumber != 3 {
		t.Errorf("WaveNumber = %d, want 3", st.WaveNumber)
	}
}

func TestWaveIntervalGrows(t *testing.T) {
	tests := []struct {
		wave         int
		wantSize     int
		wantInterval int
	}{
		{0, 3, 5},
		{1, 3, 5},
		{3, 4, 6},
		{6, 6, 7},
		{10, 8, 8},
	}
	for _, tt := range tests {
		s, _ := newTestSession(t)
		s.Start()
		s.mu.Lock()
		s.state.WaveNumber = tt.wave
		s.state.NextWaveIn = 0
		s.mu.Unlock()

		s.StepWave()
		st := s.Snapshot().State
		if st.EnemiesRemaining != tt.wantSize || st.NextWaveIn != tt.wantInterval {
			t.Errorf("wave %d: size=%d interval=%d, want %d/%d", tt.wave, st.EnemiesRemaining, st.NextWaveIn, tt.wantSize, tt.wantInterval)
		}
	}
}

func TestFirstWaveCountdown(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()

	for i := config.FirstWaveCountdown; i > 0; i-- {
		s.StepWave()
		if got := s.Snapshot().State.NextWaveIn; got != i-1 {
			t.Fatalf("NextWaveIn = %d, want %d", got, i-1)
		}
		if len(s.Snapshot().Annoyances) != 0 {
			t.Fatal("spawned during countdown")
		}
	}

	s.StepWave()
	if got := len(s.Snapshot().Annoyances); got != config.BaseWaveSize {
		t.Errorf("first wave = %d annoyances, want %d", got, config.BaseWaveSize)
	}
	select {
	case ev := <-s.Events():
		if w, ok := ev.(EventWave); !ok || w.Number != 1 || w.Size != 3 {
			t.Errorf("event = %#v, want EventWave{1, 3}", ev)
		}
	default:
		t.Error("no wave event")
	}
}

func TestWaveRetriedUntilLayoutMeasured(t *testing.T) {
	s := NewSession(Options{Rand: rand.New(rand.NewSource(1)), Logger: log.New(io.Discard), Manual: true})
	defer s.Close()
	s.Start()

	s.mu.Lock()
	s.state.NextWaveIn = 0
	s.mu.Unlock()

	s.StepWave()
	st := s.Snapshot().State
	if st.WaveNumber != 0 || st.NextWaveIn != 0 || st.EnemiesRemaining != 0 {
		t.Fatalf("wave consumed without a layout: %+v", st)
	}

	s.Resize(800, 600)
	s.StepWave()
	if got := s.Snapshot().State.WaveNumber; got != 1 {
		t.Errorf("WaveNumber = %d after layout arrived, want 1", got)
	}
}

// fixedRand always returns the same values.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.n % n }

func TestExtraSpawnChance(t *testing.T) {
	tests := []struct {
		r    float64
		want int
	}{
		{0.0, 2},
		{0.079, 2},
		{0.08, 1},
		{0.5, 1},
	}
	for _, tt := range tests {
		s := NewSession(Options{Rand: fixedRand{f: tt.r}, Logger: log.New(io.Discard), Manual: true})
		s.Resize(800, 600)
		s.Start()
		place(t, s, object.TypeFly, physics.Vec{X: 10, Y: 10})

		s.StepWave()
		if got := s.Snapshot().State.EnemiesRemaining; got != tt.want {
			t.Errorf("r=%v: EnemiesRemaining = %d, want %d", tt.r, got, tt.want)
		}
		s.Close()
	}
}

func TestGameSpeedRamp(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()

	s.StepMotion()
	if got, want := s.Snapshot().State.GameSpeed, 1+config.GameSpeedIncrement; math.Abs(got-want) > 1e-12 {
		t.Errorf("GameSpeed = %v, want %v", got, want)
	}

	s.mu.Lock()
	s.state.GameSpeed = config.MaxGameSpeed - config.GameSpeedIncrement/2
	s.mu.Unlock()
	s.StepMotion()
	s.StepMotion()
	if got := s.Snapshot().State.GameSpeed; got != config.MaxGameSpeed {
		t.Errorf("GameSpeed = %v, want clamp at %v", got, config.MaxGameSpeed)
	}
}

func TestMotionSeeksTargetAndClamps(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()

	target := s.Snapshot().Layout.Target
	id := place(t, s, object.TypeFly, physics.Vec{X: target.X - 300, Y: target.Y})
	s.StepMotion()

	a, _ := s.Snapshot().Find(id)
	if want := target.X - 300 + 0.8; a.Position.X != want || a.Position.Y != target.Y {
		t.Errorf("Position = %+v, want x=%v", a.Position, want)
	}

	// Off-area spawns are pulled inside on the first tick.
	out := place(t, s, object.TypeUFO, physics.Vec{X: 900, Y: -50})
	s.StepMotion()
	u, _ := s.Snapshot().Find(out)
	if u.Position.X > 800-64 || u.Position.Y < 0 {
		t.Errorf("ufo at %+v, want clamped into [0,736]x[0,536]", u.Position)
	}
}

func TestPauseToggle(t *testing.T) {
	s, rec := newTestSession(t)
	s.Start()
	id := place(t, s, object.TypeFly, physics.Vec{X: 100, Y: 100})
	s.StepMotion()
	if rec.count("play:fly-buzz") != 1 {
		t.Fatal("fly buzz not started")
	}

	rec.reset()
	s.TogglePause()
	if !s.Snapshot().State.Paused || s.Snapshot().Phase() != PhasePaused {
		t.Fatal("not paused")
	}
	if rec.count("stop:ambient") != 1 || rec.count("stop:fly-buzz") == 0 || rec.count("stop:ufo-hum") == 0 {
		t.Errorf("pause did not stop the loops: %v", rec.calls)
	}

	before, _ := s.Snapshot().Find(id)
	speed := s.Snapshot().State.GameSpeed
	s.StepMotion()
	s.StepWave()
	s.Hit(id)
	after, ok := s.Snapshot().Find(id)
	if !ok || after.Position != before.Position || s.Snapshot().State.GameSpeed != speed {
		t.Error("simulation advanced while paused")
	}

	rec.reset()
	s.TogglePause()
	if s.Snapshot().State.Paused || !s.Snapshot().State.Playing {
		t.Fatal("toggling twice did not return to running")
	}
	if rec.count("play:ambient") != 1 || rec.count("play:fly-buzz") != 1 {
		t.Errorf("resume calls = %v, want ambient and fly-buzz", rec.calls)
	}
	if rec.count("play:ufo-hum") != 0 {
		t.Error("ufo hum resumed without ufos")
	}
}

func TestTogglePauseIgnoredWhenIdle(t *testing.T) {
	s, _ := newTestSession(t)
	s.TogglePause()
	if s.Snapshot().State.Paused {
		t.Error("idle session paused")
	}
}

func TestRestart(t *testing.T) {
	s, rec := newTestSession(t)
	s.Resize(400, 900)
	s.Start()
	place(t, s, object.TypeRoomba, physics.Vec{X: 10, Y: 10})
	s.mu.Lock()
	s.state.Score = 12
	s.mu.Unlock()
	s.TogglePause()

	rec.reset()
	s.Restart()

	snap := s.Snapshot()
	if snap.State.Playing || snap.State.Paused || snap.State.Score != 0 || len(snap.Annoyances) != 0 {
		t.Errorf("state after Restart = %+v with %d annoyances", snap.State, len(snap.Annoyances))
	}
	if !snap.State.Portrait {
		t.Error("Restart lost the portrait flag")
	}
	if snap.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", snap.Phase())
	}
	if rec.count("stop:ambient") != 1 {
		t.Error("Restart did not stop sounds")
	}

	// Restart from any state, including idle.
	s.Restart()
	if got := s.Snapshot().State.Score; got != 0 {
		t.Errorf("Score = %d", got)
	}
}

func TestDrag(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()

	target := s.Snapshot().Layout.Target
	fly := place(t, s, object.TypeFly, physics.Vec{X: target.X, Y: target.Y - 30})
	ufo := place(t, s, object.TypeUFO, physics.Vec{X: 10, Y: 10})

	s.DragStart(ufo)
	if a, _ := s.Snapshot().Find(ufo); a.Dragging {
		t.Error("ufo picked up")
	}

	s.DragStart(fly)
	s.StepMotion()
	a, ok := s.Snapshot().Find(fly)
	if !ok {
		t.Fatal("dragged fly reached the target")
	}
	if a.Position != (physics.Vec{X: target.X, Y: target.Y - 30}) {
		t.Errorf("dragged fly moved to %+v", a.Position)
	}
	if s.Snapshot().State.SleepHealth != 100 {
		t.Error("dragged fly drained health")
	}

	s.DragMove(fly, physics.Vec{X: 200, Y: 200})
	if a, _ := s.Snapshot().Find(fly); a.Position != (physics.Vec{X: 200, Y: 200}) {
		t.Errorf("DragMove position = %+v", a.Position)
	}

	s.DragEnd(fly, physics.Vec{X: 5000, Y: -20})
	a, _ = s.Snapshot().Find(fly)
	if a.Dragging {
		t.Error("still dragging after DragEnd")
	}
	if a.Position != (physics.Vec{X: 800 - 32, Y: 0}) {
		t.Errorf("DragEnd position = %+v, want clamped (768, 0)", a.Position)
	}

	s.StepMotion()
	if b, _ := s.Snapshot().Find(fly); b.Position == a.Position {
		t.Error("released fly did not resume motion")
	}
}

func TestDragEndWhilePaused(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()
	id := place(t, s, object.TypeRoomba, physics.Vec{X: 100, Y: 100})

	s.DragStart(id)
	s.TogglePause()
	s.DragEnd(id, physics.Vec{X: 300, Y: 50})

	a, _ := s.Snapshot().Find(id)
	if a.Dragging || a.Position != (physics.Vec{X: 300, Y: 50}) {
		t.Errorf("DragEnd while paused: %+v", a)
	}

	s.DragStart(id)
	if a, _ := s.Snapshot().Find(id); a.Dragging {
		t.Error("DragStart accepted while paused")
	}
}

func TestStaleEpochIDs(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()
	old := place(t, s, object.TypeFly, physics.Vec{X: 10, Y: 10})

	s.Start()
	fresh := place(t, s, object.TypeFly, physics.Vec{X: 10, Y: 10})
	if old == fresh {
		t.Fatalf("ID %q reused across runs", old)
	}

	s.Hit(old)
	if _, ok := s.Snapshot().Find(fresh); !ok {
		t.Error("hit from a previous run landed on a new annoyance")
	}
	if s.Snapshot().State.Score != 0 {
		t.Error("stale hit scored")
	}
}

func TestLoopsFollowPresence(t *testing.T) {
	s, rec := newTestSession(t)
	s.Start()
	rec.reset()

	fly := place(t, s, object.TypeFly, physics.Vec{X: 10, Y: 10})
	s.StepMotion()
	s.StepMotion()
	if got := rec.count("play:fly-buzz"); got != 1 {
		t.Errorf("fly-buzz played %d times, want 1", got)
	}
	if rec.count("play:ufo-hum") != 0 {
		t.Error("ufo hum without ufos")
	}

	place(t, s, object.TypeUFO, physics.Vec{X: 600, Y: 10})
	s.StepMotion()
	if rec.count("play:ufo-hum") != 1 {
		t.Error("ufo hum not started")
	}

	s.Hit(fly)
	s.StepMotion()
	if rec.count("stop:fly-buzz") != 1 {
		t.Error("fly buzz not stopped after the last fly died")
	}
}

func TestSoundDisabled(t *testing.T) {
	s, rec := newTestSession(t)
	s.SetSoundEnabled(false)
	s.Start()
	id := place(t, s, object.TypeFly, physics.Vec{X: 10, Y: 10})
	s.StepMotion()
	s.Pet()
	s.Hit(id)

	for _, c := range rec.calls {
		if len(c) > 5 && c[:5] == "play:" {
			t.Fatalf("sound played while disabled: %v", rec.calls)
		}
	}

	place(t, s, object.TypeUFO, physics.Vec{X: 10, Y: 10})
	s.SetSoundEnabled(true)
	if rec.count("play:ambient") != 1 || rec.count("play:ufo-hum") != 1 {
		t.Errorf("enabling sound did not resume loops: %v", rec.calls)
	}
	if !s.Snapshot().State.SoundEnabled {
		t.Error("SoundEnabled not published")
	}
}

func TestPet(t *testing.T) {
	s, rec := newTestSession(t)
	s.Pet()
	if rec.count("play:purr") != 0 {
		t.Error("purred while idle")
	}
	s.Start()
	before := s.Snapshot().State
	s.Pet()
	if rec.count("play:purr") != 1 {
		t.Error("no purr")
	}
	if s.Snapshot().State != before {
		t.Error("Pet changed the simulation")
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		w, h     float64
		portrait bool
		target   physics.Vec
		radius   float64
	}{
		{800, 600, false, physics.Vec{X: 400, Y: 456}, 45},
		{400, 1000, true, physics.Vec{X: 200, Y: 720}, 35},
		{500, 500, false, physics.Vec{X: 250, Y: 380}, 45},
	}
	for _, tt := range tests {
		l := NewLayout(tt.w, tt.h)
		if l.Portrait != tt.portrait || l.Target != tt.target || l.HitRadius != tt.radius {
			t.Errorf("NewLayout(%v, %v) = %+v", tt.w, tt.h, l)
		}
	}
}

func TestSnapshotPick(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()
	low := place(t, s, object.TypeRoomba, physics.Vec{X: 100, Y: 100})
	top := place(t, s, object.TypeFly, physics.Vec{X: 120, Y: 120})

	snap := s.Snapshot()
	if a, ok := snap.Pick(physics.Vec{X: 125, Y: 125}); !ok || a.ID != top {
		t.Errorf("Pick(overlap) = %v, %v, want the fly on top", a.ID, ok)
	}
	if a, ok := snap.Pick(physics.Vec{X: 105, Y: 105}); !ok || a.ID != low {
		t.Errorf("Pick(roomba) = %v, %v", a.ID, ok)
	}
	if _, ok := snap.Pick(physics.Vec{X: 700, Y: 50}); ok {
		t.Error("Pick(empty) found something")
	}
	if !snap.OnTarget(snap.Layout.Target) {
		t.Error("OnTarget(target) = false")
	}
	if a, ok := snap.Nearest(); !ok || a.ID != top {
		t.Errorf("Nearest() = %v, want the fly", a.ID)
	}
}

func TestInvariantsUnderRandomPlay(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()
	rng := rand.New(rand.NewSource(99))

	for tick := 0; tick < 6000 && s.Snapshot().State.Playing; tick++ {
		s.StepMotion()
		if tick%60 == 0 {
			s.StepWave()
		}
		if snap := s.Snapshot(); len(snap.Annoyances) > 0 && rng.Intn(20) == 0 {
			a := snap.Annoyances[rng.Intn(len(snap.Annoyances))]
			switch rng.Intn(3) {
			case 0:
				s.DragStart(a.ID)
			case 1:
				s.DragEnd(a.ID, physics.Vec{X: rng.Float64() * 800, Y: rng.Float64() * 600})
			default:
				s.Hit(a.ID)
			}
		}
		checkInvariants(t, s)
	}
}

func TestConcurrentHitsScoreOnce(t *testing.T) {
	s, _ := newTestSession(t)
	s.Start()
	id := place(t, s, object.TypeUFO, physics.Vec{X: 10, Y: 10})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				s.Hit(id)
				s.StepMotion()
			}
		}()
	}
	wg.Wait()

	if got := s.Snapshot().State.Score; got != 6 {
		t.Errorf("Score = %d, want 6", got)
	}
	checkInvariants(t, s)
}

func TestTickersDriveSession(t *testing.T) {
	s := NewSession(Options{Rand: rand.New(rand.NewSource(1)), Logger: log.New(io.Discard)})
	s.Resize(800, 600)
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().State.GameSpeed == 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Snapshot().State.GameSpeed == 1 {
		t.Fatal("motion ticker never fired")
	}

	s.TogglePause()
	paused := s.Snapshot().State.GameSpeed
	time.Sleep(60 * time.Millisecond)
	if got := s.Snapshot().State.GameSpeed; got != paused {
		t.Errorf("GameSpeed moved from %v to %v while paused", paused, got)
	}

	s.TogglePause()
	s.Restart()
	idle := s.Snapshot().State
	time.Sleep(60 * time.Millisecond)
	if got := s.Snapshot().State; got != idle {
		t.Error("a stale ticker mutated the session after Restart")
	}

	s.Close()
	if _, ok := <-s.Events(); ok {
		// Drain anything buffered before close.
		for range s.Events() {
		}
	}
	s.Start()
	if s.Snapshot().State.Playing {
		t.Error("closed session started")
	}
}
