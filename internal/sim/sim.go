// Package sim advances seed points through a vector field.
package sim

import (
	"context"
	"errors"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/vecfield"
)

// Point is a position in space.
type Point [3]float64

// Cell is a unit cube of space, identified by the truncated coordinates of
// the points in it.
type Cell [3]int

// CellOf returns the cell containing p. Coordinates are truncated toward
// zero, so the cells adjacent to each zero plane are twice as wide.
func CellOf(p Point) Cell {
	return Cell{int(p[0]), int(p[1]), int(p[2])}
}

// SpawnGrid returns n*n*n points evenly spaced on a cube grid spanning
// center ± radius on each axis. If n is 1, the only point is the center.
// If n is less than 1, there are no points.
func SpawnGrid(center Point, radius float64, n int) []Point {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []Point{center}
	}
	r := make([]Point, 0, n*n*n)
	step := func(i int) float64 {
		return float64(i)/float64(n-1)*radius*2 - radius
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				r = append(r, Point{center[0] + step(i), center[1] + step(j), center[2] + step(k)})
			}
		}
	}
	return r
}

// DefaultDT is the default time step.
const DefaultDT = 0.01

// Sim is a set of points moving through a field. A Sim is not safe for
// concurrent use.
type Sim struct {
	// DT is the time step for each tick.
	DT float64

	field   *vecfield.Field
	points  []Point
	density map[Cell]int
	ticks   int
	metrics *Metrics
	log     zerolog.Logger
}

// Option configures a Sim.
type Option func(*Sim)

// WithMetrics records the simulation's activity in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Sim) { s.metrics = m }
}

// WithLogger sets the logger for evaluation errors.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sim) { s.log = l }
}

// WithDensity enables the density histogram.
func WithDensity() Option {
	return func(s *Sim) { s.density = make(map[Cell]int) }
}

// WithDT sets the time step.
func WithDT(dt float64) Option {
	return func(s *Sim) { s.DT = dt }
}

// New creates a simulation of pts moving through f. The Sim takes ownership
// of pts.
func New(f *vecfield.Field, pts []Point, opts ...Option) *Sim {
	s := &Sim{
		DT:     DefaultDT,
		field:  f,
		points: pts,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.metrics.points.Set(float64(len(pts)))
	}
	return s
}

// Step advances every point by one explicit Euler step using the field's
// current group. Each point first counts toward the density of its cell.
// A point whose derivative can't be evaluated stays where it is, and the
// first such error is returned after all points have been visited.
func (s *Sim) Step() error {
	g := s.field.Group()
	if g == nil {
		return ErrNoField
	}
	var first error
	var failed int
	for i, p := range s.points {
		if s.density != nil {
			s.density[CellOf(p)]++
		}
		d, err := g.Eval(p)
		if err != nil {
			if first == nil {
				first = err
			}
			failed++
			continue
		}
		for k := range p {
			s.points[i][k] = p[k] + s.DT*d[k]
		}
	}
	s.ticks++
	if s.metrics != nil {
		s.metrics.ticks.Inc()
		s.metrics.evals.Add(float64(len(s.points)))
		s.metrics.errors.Add(float64(failed))
	}
	if first != nil {
		s.log.Warn().Err(first).Int("tick", s.ticks).Int("failed", failed).Msg("field evaluation failed")
	}
	return first
}

// Run steps the simulation n times or until ctx is done. It stops at the
// first tick with an evaluation error.
func (s *Sim) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(); err != nil {
			return err
		}
		if e := s.log.Trace(); e.Enabled() {
			lo, hi := s.Bounds()
			e.Int("tick", s.ticks).Floats64("min", lo[:]).Floats64("max", hi[:]).Msg("tick")
		}
	}
	return nil
}

// Points returns the current positions of the points. The slice is owned by
// the Sim and changes with each step.
func (s *Sim) Points() []Point {
	return s.points
}

// Ticks returns the number of steps taken.
func (s *Sim) Ticks() int {
	return s.ticks
}

// Density returns the number of times a point has been counted in each cell.
// It is nil if the density histogram is not enabled.
func (s *Sim) Density() map[Cell]int {
	return s.density
}

// Bounds returns the componentwise minimum and maximum of the points.
// Points with NaN coordinates are ignored on those axes.
func (s *Sim) Bounds() (lo, hi Point) {
	for k := range lo {
		lo[k], hi[k] = math.Inf(1), math.Inf(-1)
	}
	for _, p := range s.points {
		for k, v := range p {
			if math.IsNaN(v) {
				continue
			}
			lo[k] = math.Min(lo[k], v)
			hi[k] = math.Max(hi[k], v)
		}
	}
	return lo, hi
}

// ErrNoField is returned when stepping a simulation whose field has no group.
var ErrNoField = errors.New("sim: field has no group")

// Metrics counts simulation activity.
type Metrics struct {
	ticks  prometheus.Counter
	evals  prometheus.Counter
	errors prometheus.Counter
	points prometheus.Gauge
}

// NewMetrics creates simulation metrics and registers them with reg, if it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vecfield_sim_ticks_total",
			Help: "Total number of simulation steps",
		}),
		evals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vecfield_sim_evaluations_total",
			Help: "Total number of field evaluations",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vecfield_sim_evaluation_errors_total",
			Help: "Total number of field evaluations that failed",
		}),
		points: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vecfield_sim_points",
			Help: "Number of points in the simulation",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ticks, m.evals, m.errors, m.points)
	}
	return m
}

// Ticks returns the collector counting simulation steps.
func (m *Metrics) Ticks() prometheus.Counter { return m.ticks }

// Evaluations returns the collector counting field evaluations.
func (m *Metrics) Evaluations() prometheus.Counter { return m.evals }

// Errors returns the collector counting failed field evaluations.
func (m *Metrics) Errors() prometheus.Counter { return m.errors }

// Points returns the gauge of the number of points.
func (m *Metrics) Points() prometheus.Gauge { return m.points }
