package sim_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/vecfield"
	"github.com/zephyrtronium/vecfield/internal/sim"
)

func lorenz(t *testing.T) *vecfield.Field {
	t.Helper()
	f := vecfield.NewField(nil)
	require.NoError(t, f.Load([3]string{"s*(y-x)", "x*(r-z)-y", "x*y-b*z"}, []float64{10, 28, 2}))
	return f
}

func TestSpawnGrid(t *testing.T) {
	pts := sim.SpawnGrid(sim.Point{1, 1, 10}, 0.5, 3)
	require.Len(t, pts, 27)
	assert.Equal(t, sim.Point{0.5, 0.5, 9.5}, pts[0])
	assert.Equal(t, sim.Point{0.5, 0.5, 10}, pts[1])
	assert.Equal(t, sim.Point{1, 1, 10}, pts[13])
	assert.Equal(t, sim.Point{1.5, 1.5, 10.5}, pts[26])

	assert.Equal(t, []sim.Point{{1, 2, 3}}, sim.SpawnGrid(sim.Point{1, 2, 3}, 5, 1))
	assert.Empty(t, sim.SpawnGrid(sim.Point{}, 1, 0))
}

func TestStep(t *testing.T) {
	f := lorenz(t)
	s := sim.New(f, []sim.Point{{1, 2, 3}}, sim.WithDT(0.5))
	require.NoError(t, s.Step())
	// Derivative at (1, 2, 3) is (10, 23, -4).
	assert.Equal(t, []sim.Point{{6, 13.5, 1}}, s.Points())
	assert.Equal(t, 1, s.Ticks())
}

func TestStepUsesCurrentGroup(t *testing.T) {
	f := lorenz(t)
	s := sim.New(f, []sim.Point{{1, 2, 3}}, sim.WithDT(1))
	require.NoError(t, f.Apply([3]string{"s", "r", "b"}))
	require.NoError(t, s.Step())
	assert.Equal(t, []sim.Point{{11, 30, 5}}, s.Points())
}

func TestStepErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := sim.NewMetrics(reg)
	var buf bytes.Buffer
	f := vecfield.NewField(nil)
	require.NoError(t, f.Apply([3]string{"1", "max(x)", "1"}))
	s := sim.New(f, []sim.Point{{0, 0, 0}, {1, 1, 1}}, sim.WithMetrics(m), sim.WithLogger(zerolog.New(&buf)))

	err := s.Step()
	var ae *vecfield.AxisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 1, ae.Axis)
	// Failed points stay put.
	assert.Equal(t, []sim.Point{{0, 0, 0}, {1, 1, 1}}, s.Points())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Ticks()))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations()))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Errors()))
	assert.Contains(t, buf.String(), "field evaluation failed")

	assert.ErrorIs(t, sim.New(vecfield.NewField(nil), nil).Step(), sim.ErrNoField)
}

func TestDensity(t *testing.T) {
	f := vecfield.NewField(nil)
	require.NoError(t, f.Apply([3]string{"1", "0", "0"}))
	s := sim.New(f, []sim.Point{{0.5, 0, 0}, {0.25, 0, 0}}, sim.WithDT(0.5), sim.WithDensity())
	require.NoError(t, s.Run(context.Background(), 3))
	// Positions before each step: {0.5, 0.25}, {1, 0.75}, {1.5, 1.25}.
	assert.Equal(t, map[sim.Cell]int{{0, 0, 0}: 3, {1, 0, 0}: 3}, s.Density())

	assert.Nil(t, sim.New(f, nil).Density())
}

func TestRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := sim.NewMetrics(reg)
	f := lorenz(t)
	pts := sim.SpawnGrid(sim.Point{1, 1, 10}, 0.1, 2)
	s := sim.New(f, pts, sim.WithMetrics(m))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.Points()))
	require.NoError(t, s.Run(context.Background(), 10))
	assert.Equal(t, 10, s.Ticks())
	assert.Equal(t, 10.0, testutil.ToFloat64(m.Ticks()))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.Evaluations()))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Errors()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, 10), context.Canceled)
	assert.Equal(t, 10, s.Ticks())
}

func TestBounds(t *testing.T) {
	s := sim.New(vecfield.NewField(nil), []sim.Point{{1, -2, 3}, {-1, 2, 0}})
	lo, hi := s.Bounds()
	assert.Equal(t, sim.Point{-1, -2, 0}, lo)
	assert.Equal(t, sim.Point{1, 2, 3}, hi)
}

func TestMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	sim.NewMetrics(reg)
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Panics(t, func() { sim.NewMetrics(reg) }, "registering twice should panic")
	assert.NotPanics(t, func() { sim.NewMetrics(nil) })
}
