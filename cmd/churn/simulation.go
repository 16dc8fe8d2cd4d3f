package main

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/edwinsyarief/archecs"
	"github.com/edwinsyarief/archecs/internal/config"
	"github.com/edwinsyarief/archecs/internal/events"
)

type Position struct{ X, Y float32 }
type Velocity struct{ X, Y float32 }
type Health struct{ Current, Max int32 }

// Died is published by the Decay system for an entity whose health ran out.
type Died struct{ Entity archecs.Entity }

// TickDone is published after each verified tick.
type TickDone struct {
	Tick       int
	Entities   int
	Archetypes int
}

// Stats summarizes a run.
type Stats struct {
	Ticks      int
	Spawned    int
	Destroyed  int
	Mutations  int
	Entities   int
	Archetypes int
	Elapsed    time.Duration
}

type simulation struct {
	cfg config.ChurnConfig
	log *zap.Logger
	rng *rand.Rand
	bus *events.Bus

	world    *archecs.World
	pos      archecs.ComponentID
	vel      archecs.ComponentID
	health   archecs.ComponentID
	movement archecs.SystemID
	decay    archecs.SystemID

	live  []archecs.Entity
	dying []archecs.Entity
	stats Stats
}

func newSimulation(cfg *config.Scenario, log *zap.Logger) (*simulation, error) {
	w, err := archecs.NewWorld(cfg.World.MaxEntities, cfg.World.MaxComponents, cfg.World.MaxSystems,
		archecs.WithLogger(log.Named("world")))
	if err != nil {
		return nil, err
	}
	s := &simulation{
		cfg:   cfg.Churn,
		log:   log,
		rng:   rand.New(rand.NewSource(cfg.Churn.Seed)),
		bus:   events.NewBus(8),
		world: w,
	}
	if err := events.Subscribe(s.bus, func(ev Died) { s.dying = append(s.dying, ev.Entity) }); err != nil {
		return nil, err
	}
	if err := events.Subscribe(s.bus, s.logTick); err != nil {
		return nil, err
	}
	s.pos = archecs.Register[Position](w, "Position")
	s.vel = archecs.Register[Velocity](w, "Velocity")
	s.health = archecs.Register[Health](w, "Health")
	if s.pos.IsNil() || s.vel.IsNil() || s.health.IsNil() {
		return nil, fmt.Errorf("register components: table of %d too small", cfg.World.MaxComponents)
	}

	s.movement = w.RegisterSystem("Movement", s.move, s.pos, s.vel)
	s.decay = w.RegisterSystem("Decay", s.decayHealth, s.health)
	if s.movement.IsNil() || s.decay.IsNil() {
		return nil, fmt.Errorf("register systems: table of %d too small", cfg.World.MaxSystems)
	}
	return s, nil
}

// Run executes every configured tick. It stops at the first integrity
// failure and returns the stats gathered so far along with the error.
func (s *simulation) Run() (Stats, error) {
	start := time.Now()
	defer s.world.Release()
	for tick := 0; tick < s.cfg.Ticks; tick++ {
		s.tick()
		s.stats.Ticks++
		if err := s.world.CheckIntegrity(); err != nil {
			s.finish(start)
			return s.stats, fmt.Errorf("tick %d: %w", tick, err)
		}
		events.Publish(s.bus, TickDone{
			Tick:       tick,
			Entities:   s.world.NumEntities(),
			Archetypes: s.world.NumArchetypes(),
		})
	}
	s.finish(start)
	return s.stats, nil
}

func (s *simulation) logTick(ev TickDone) {
	if ev.Tick%100 != 0 {
		return
	}
	s.log.Debug("tick",
		zap.Int("tick", ev.Tick),
		zap.Int("entities", ev.Entities),
		zap.Int("archetypes", ev.Archetypes))
}

func (s *simulation) finish(start time.Time) {
	s.stats.Entities = s.world.NumEntities()
	s.stats.Archetypes = s.world.NumArchetypes()
	s.stats.Elapsed = time.Since(start)
}

func (s *simulation) tick() {
	for i := 0; i < s.cfg.SpawnPerTick; i++ {
		s.spawn()
	}
	for i := 0; i < s.cfg.MutatePerTick && len(s.live) > 0; i++ {
		s.mutate(s.live[s.rng.Intn(len(s.live))])
	}
	for i := 0; i < s.cfg.DestroyPerTick && len(s.live) > 0; i++ {
		s.destroy(s.rng.Intn(len(s.live)))
	}

	s.world.UpdateSystem(s.movement)
	s.world.UpdateSystem(s.decay)
	// Died handlers only queue entities; structural changes wait until the
	// system has returned.
	for _, e := range s.dying {
		if i := s.indexOf(e); i >= 0 {
			s.destroy(i)
		}
	}
	s.dying = s.dying[:0]
}

func (s *simulation) spawn() {
	e := s.world.CreateEntity()
	if e.IsNil() {
		return
	}
	s.live = append(s.live, e)
	s.stats.Spawned++
	archecs.Set(s.world, e, s.pos, Position{X: s.rng.Float32() * 100, Y: s.rng.Float32() * 100})
	if s.rng.Intn(2) == 0 {
		archecs.Set(s.world, e, s.vel, Velocity{X: s.rng.Float32() - 0.5, Y: s.rng.Float32() - 0.5})
	}
}

func (s *simulation) mutate(e archecs.Entity) {
	comps := [...]archecs.ComponentID{s.pos, s.vel, s.health}
	c := comps[s.rng.Intn(len(comps))]
	var ok bool
	switch s.rng.Intn(3) {
	case 0:
		ok = s.world.AddComponent(e, c)
	case 1:
		ok = s.world.RemoveComponent(e, c)
	default:
		hp := 1 + s.rng.Int31n(50)
		ok = archecs.Set(s.world, e, s.health, Health{Current: hp, Max: hp})
	}
	if ok {
		s.stats.Mutations++
	}
}

// destroy removes the i-th live entity.
func (s *simulation) destroy(i int) {
	if s.world.DestroyEntity(s.live[i]) {
		s.stats.Destroyed++
	}
	last := len(s.live) - 1
	s.live[i] = s.live[last]
	s.live = s.live[:last]
}

func (s *simulation) indexOf(e archecs.Entity) int {
	for i, l := range s.live {
		if l == e {
			return i
		}
	}
	return -1
}

func (s *simulation) move(v archecs.View) {
	for i := 0; i < v.Len(); i++ {
		pos := archecs.Column[Position](v, i, s.pos)
		vel := archecs.Column[Velocity](v, i, s.vel)
		for j := range pos {
			pos[j].X += vel[j].X
			pos[j].Y += vel[j].Y
		}
	}
}

func (s *simulation) decayHealth(v archecs.View) {
	for i := 0; i < v.Len(); i++ {
		hp := archecs.Column[Health](v, i, s.health)
		ents := v.Entities(i)
		for j := range hp {
			hp[j].Current--
			if hp[j].Current <= 0 {
				events.Publish(s.bus, Died{Entity: ents[j]})
			}
		}
	}
}
