package main

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/edwinsyarief/archecs"
	"github.com/edwinsyarief/archecs/internal/config"
)

func testScenario() *config.Scenario {
	cfg := config.Default()
	cfg.World.MaxEntities = 512
	cfg.Churn = config.ChurnConfig{
		Ticks:          200,
		SpawnPerTick:   20,
		DestroyPerTick: 10,
		MutatePerTick:  30,
		Seed:           3,
	}
	return cfg
}

// go test -run ^TestSimulationRun$ ./cmd/churn -count 1
func TestSimulationRun(t *testing.T) {
	sim, err := newSimulation(testScenario(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	stats, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Ticks != 200 || stats.Spawned == 0 || stats.Destroyed == 0 || stats.Mutations == 0 {
		t.Fatalf("workload did not run: %+v", stats)
	}
	if stats.Entities != stats.Spawned-stats.Destroyed {
		t.Errorf("entity count %d, spawned %d, destroyed %d", stats.Entities, stats.Spawned, stats.Destroyed)
	}
	if stats.Entities > 512 {
		t.Errorf("world exceeded its entity limit: %d", stats.Entities)
	}
	if !sim.world.Released() {
		t.Error("world not released after the run")
	}
}

// go test -run ^TestSimulationDeterministic$ ./cmd/churn -count 1
func TestSimulationDeterministic(t *testing.T) {
	var runs [2]Stats
	for i := range runs {
		sim, err := newSimulation(testScenario(), zaptest.NewLogger(t))
		if err != nil {
			t.Fatal(err)
		}
		if runs[i], err = sim.Run(); err != nil {
			t.Fatal(err)
		}
		runs[i].Elapsed = 0
	}
	if runs[0] != runs[1] {
		t.Fatalf("same seed produced %+v and %+v", runs[0], runs[1])
	}
}

// go test -run ^TestDecayDestroysAfterIteration$ ./cmd/churn -count 1
func TestDecayDestroysAfterIteration(t *testing.T) {
	cfg := testScenario()
	cfg.Churn = config.ChurnConfig{}
	sim, err := newSimulation(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		sim.spawn()
		archecs.Set(sim.world, sim.live[i], sim.health, Health{Current: int32(i + 1)})
	}
	sim.tick()
	if len(sim.live) != 3 || sim.world.NumEntities() != 3 {
		t.Fatalf("expected one entity to die, %d left", len(sim.live))
	}
	sim.tick()
	if sim.world.NumEntities() != 2 {
		t.Fatalf("expected two entities left, got %d", sim.world.NumEntities())
	}
	if err := sim.world.CheckIntegrity(); err != nil {
		t.Fatal(err)
	}
}

// go test -run ^TestNewSimulationLimits$ ./cmd/churn -count 1
func TestNewSimulationLimits(t *testing.T) {
	cfg := testScenario()
	cfg.World.MaxSystems = 1
	if _, err := newSimulation(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatal("simulation started without room for its systems")
	}
}
