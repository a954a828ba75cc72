package cli

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/vecfield"
	"github.com/zephyrtronium/vecfield/internal/config"
	"github.com/zephyrtronium/vecfield/internal/sim"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		axes    [3]string
		params  []string
		density bool
		metrics bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate points moving through a vector field",
		Long: `Simulate a grid of seed points moving through a vector field and print their
final positions, one point per line.

The field is either a preset, chosen with --preset, or three expressions given
with --x, --y, and --z. Parameters default to the preset's values, or to 0 for
expressions, and can be set with --param.

Examples:
  vecfield run --preset lorenz --steps 5000
  vecfield run --preset lorenz --param r=99.96
  vecfield run --x "-y" --y "x" --z "0" --seed-count 1 --density`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			f, err := a.field(cmd, cfg, axes)
			if err != nil {
				return err
			}
			if _, err := bindAll(f.Group().Binding(), params, true); err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			opts := []sim.Option{
				sim.WithDT(cfg.DT),
				sim.WithMetrics(sim.NewMetrics(reg)),
				sim.WithLogger(log.Logger.With().Str("component", "sim").Logger()),
			}
			if density {
				opts = append(opts, sim.WithDensity())
			}
			pts := sim.SpawnGrid(cfg.Seed.Point(), cfg.Seed.Radius, cfg.Seed.Count)
			s := sim.New(f, pts, opts...)
			src := f.Group().Sources()
			log.Info().
				Strs("field", src[:]).
				Stringer("binding", f.Group().Binding()).
				Int("points", len(pts)).
				Int("steps", cfg.Steps).
				Float64("dt", cfg.DT).
				Msg("starting simulation")
			if err := s.Run(cmd.Context(), cfg.Steps); err != nil {
				return fmt.Errorf("simulation stopped after %d steps: %w", s.Ticks(), err)
			}
			w := cmd.OutOrStdout()
			for _, p := range s.Points() {
				fmt.Fprintf(w, "%g %g %g\n", p[0], p[1], p[2])
			}
			if density {
				writeDensity(w, s.Density())
			}
			if metrics {
				return writeMetrics(w, reg)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("preset", "lorenz", "name of the preset field")
	flags.StringVar(&axes[0], "x", "", "expression for dx")
	flags.StringVar(&axes[1], "y", "", "expression for dy")
	flags.StringVar(&axes[2], "z", "", "expression for dz")
	flags.StringArrayVar(&params, "param", nil, "name=value parameter setting (repeatable)")
	flags.Int("steps", 1000, "number of steps to simulate")
	flags.Float64("dt", sim.DefaultDT, "time step")
	flags.Int("seed-count", 10, "seed points along each axis")
	flags.Float64("seed-radius", 0.1, "half-width of the seed grid")
	flags.BoolVar(&density, "density", false, "print the number of visits to each unit cell")
	flags.BoolVar(&metrics, "metrics", false, "print simulation metrics")
	_ = a.v.BindPFlag("preset", flags.Lookup("preset"))
	_ = a.v.BindPFlag("steps", flags.Lookup("steps"))
	_ = a.v.BindPFlag("dt", flags.Lookup("dt"))
	_ = a.v.BindPFlag("seed.count", flags.Lookup("seed-count"))
	_ = a.v.BindPFlag("seed.radius", flags.Lookup("seed-radius"))
	cmd.MarkFlagsRequiredTogether("x", "y", "z")
	cmd.MarkFlagsMutuallyExclusive("preset", "x")
	return cmd
}

// field loads the field to simulate: the expressions, if given, or else the
// configured preset.
func (a *app) field(cmd *cobra.Command, cfg config.Config, axes [3]string) (*vecfield.Field, error) {
	f := vecfield.NewField(nil)
	if cmd.Flags().Changed("x") {
		if err := f.Apply(axes); err != nil {
			return nil, err
		}
		return f, nil
	}
	c, err := a.catalogue()
	if err != nil {
		return nil, err
	}
	p, ok := c.Find(cfg.Preset)
	if !ok {
		return nil, fmt.Errorf("no preset named %q; have %s", cfg.Preset, strings.Join(c.Names(), ", "))
	}
	if err := p.LoadInto(f); err != nil {
		return nil, err
	}
	return f, nil
}

func writeDensity(w io.Writer, d map[sim.Cell]int) {
	cells := make([]sim.Cell, 0, len(d))
	for c := range d {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b sim.Cell) int {
		for i := range a {
			if c := cmp.Compare(a[i], b[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	fmt.Fprintln(w, "# cell visits")
	for _, c := range cells {
		fmt.Fprintf(w, "%d %d %d %d\n", c[0], c[1], c[2], d[c])
	}
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("couldn't gather metrics: %w", err)
	}
	fmt.Fprintln(w, "# metrics")
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			fmt.Fprintf(w, "%s %g\n", mf.GetName(), v)
		}
	}
	return nil
}
