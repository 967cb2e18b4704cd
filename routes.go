package sumohelper

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// distributionTolerance Allowed deviation of the percentage sum from 100
const distributionTolerance = 0.01

// RouteGenerator Produces a vehicle population with shortest paths and a
// monotonically increasing departure schedule
/*
	Entry and exit edges are picked uniformly at random per vehicle,
	independently, with repetition allowed. A vehicle whose entry/exit pair
	is not connected is dropped without retry; its departure slot still
	advances, so the schedule spacing is a pure function of the requested
	population size and horizon.
*/
type RouteGenerator struct {
	totalVehicles int
	distribution  []VehicleDistribution
	entryEdges    []EdgeID
	exitEdges     []EdgeID
	horizon       float64
	seed          *int64
	verbose       bool
}

// NewRouteGenerator returns a route generator with given options applied
func NewRouteGenerator(options ...func(*RouteGenerator)) *RouteGenerator {
	gen := &RouteGenerator{
		totalVehicles: 1,
		horizon:       3600.0,
	}
	for _, option := range options {
		option(gen)
	}
	return gen
}

// WithTotalVehicles sets the requested vehicle population size
func WithTotalVehicles(totalVehicles int) func(*RouteGenerator) {
	return func(gen *RouteGenerator) {
		gen.totalVehicles = totalVehicles
	}
}

// WithDistribution sets the per-type percentage distribution
func WithDistribution(distribution []VehicleDistribution) func(*RouteGenerator) {
	return func(gen *RouteGenerator) {
		gen.distribution = distribution
	}
}

// WithEntryEdges sets the edges vehicles may enter the network on
func WithEntryEdges(entryEdges []EdgeID) func(*RouteGenerator) {
	return func(gen *RouteGenerator) {
		gen.entryEdges = entryEdges
	}
}

// WithExitEdges sets the edges vehicles may leave the network on
func WithExitEdges(exitEdges []EdgeID) func(*RouteGenerator) {
	return func(gen *RouteGenerator) {
		gen.exitEdges = exitEdges
	}
}

// WithHorizon sets the simulated time window in seconds
func WithHorizon(horizon float64) func(*RouteGenerator) {
	return func(gen *RouteGenerator) {
		gen.horizon = horizon
	}
}

// WithRandomSeed makes every randomized choice of a generation call reproducible
func WithRandomSeed(seed int64) func(*RouteGenerator) {
	return func(gen *RouteGenerator) {
		gen.seed = &seed
	}
}

// WithGenerationVerbose enables progress output
func WithGenerationVerbose(verbose bool) func(*RouteGenerator) {
	return func(gen *RouteGenerator) {
		gen.verbose = verbose
	}
}

// Seed returns the configured random seed if any
func (gen *RouteGenerator) Seed() *int64 {
	return gen.seed
}

// vehicleCounts converts percentages into integer per-type counts via
// truncating division. The rounding remainder goes entirely to the first
// listed type so the counts always reconcile with the requested total.
func (gen *RouteGenerator) vehicleCounts() []int {
	counts := make([]int, len(gen.distribution))
	assigned := 0
	for i, d := range gen.distribution {
		counts[i] = int(float64(gen.totalVehicles) * d.Percentage / 100.0)
		assigned += counts[i]
	}
	if len(counts) > 0 {
		counts[0] += gen.totalVehicles - assigned
	}
	return counts
}

func (gen *RouteGenerator) validate() error {
	if gen.totalVehicles < 1 {
		return errors.Errorf("total vehicles must be positive, got %d", gen.totalVehicles)
	}
	if len(gen.entryEdges) == 0 {
		return errors.New("no entry edges selected")
	}
	if len(gen.exitEdges) == 0 {
		return errors.New("no exit edges selected")
	}
	if len(gen.distribution) == 0 {
		return errors.Wrap(ErrInvalidDistribution, "no vehicle types given")
	}
	sum := 0.0
	for _, d := range gen.distribution {
		sum += d.Percentage
	}
	if math.Abs(sum-100.0) > distributionTolerance {
		return errors.Wrapf(ErrInvalidDistribution, "got %f", sum)
	}
	return nil
}

// Generate produces one RouteAssignment per successfully routed vehicle.
// Fails with ErrInvalidDistribution on a bad percentage set and with
// ErrNoRoutableVehicles when not a single vehicle found a path.
func (gen *RouteGenerator) Generate(net *Network) ([]RouteAssignment, error) {
	if err := gen.validate(); err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if gen.seed != nil {
		rng = rand.New(rand.NewSource(*gen.seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if gen.verbose {
		fmt.Printf("Generating %d vehicles over horizon %.1f s...\n", gen.totalVehicles, gen.horizon)
	}
	st := time.Now()

	adj := net.adjacency()
	counts := gen.vehicleCounts()
	step := gen.horizon / float64(maxInt(1, gen.totalVehicles))

	routes := make([]RouteAssignment, 0, gen.totalVehicles)
	attempt := 0
	for typeIdx, d := range gen.distribution {
		for i := 0; i < counts[typeIdx]; i++ {
			departTime := float64(attempt) * step
			attempt++

			entryID := gen.entryEdges[rng.Intn(len(gen.entryEdges))]
			exitID := gen.exitEdges[rng.Intn(len(gen.exitEdges))]
			entryEdge, okEntry := net.Edge(entryID)
			exitEdge, okExit := net.Edge(exitID)
			if !okEntry || !okExit {
				fmt.Printf("[WARNING]: Selected edge '%s' or '%s' is not part of the network, dropping vehicle\n", entryID, exitID)
				continue
			}

			path := shortestHopPath(adj, entryEdge.From, exitEdge.To)
			if len(path) == 0 {
				continue
			}
			routes = append(routes, RouteAssignment{
				ID:          fmt.Sprintf("vehicle_%d", attempt-1),
				Edges:       path,
				VehicleType: d.VehicleType,
				DepartTime:  departTime,
				Color:       d.Color,
			})
		}
	}

	if len(routes) == 0 {
		return nil, errors.Wrapf(ErrNoRoutableVehicles, "%d vehicles attempted", attempt)
	}
	if gen.verbose {
		fmt.Printf("Done in %v: %d of %d vehicles routed\n", time.Since(st), len(routes), attempt)
	}
	return routes, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
