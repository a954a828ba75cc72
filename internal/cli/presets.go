package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/vecfield/internal/preset"
)

func newPresetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the preset vector fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalogue()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDX\tDY\tDZ\tPARAMETERS")
			for _, p := range c {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.X, p.Y, p.Z, params(p))
			}
			return w.Flush()
		},
	}
	return cmd
}

// params formats the default parameter values of p by name. A preset whose
// expressions don't parse lists its raw values.
func params(p preset.Preset) string {
	g, err := p.Build()
	if err != nil {
		log.Warn().Err(err).Msg("invalid preset")
		s := make([]string, len(p.Params))
		for i, v := range p.Params {
			s[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return strings.Join(s, " ")
	}
	b := g.Binding()
	s := make([]string, 0, len(b.Params()))
	for _, k := range b.Params() {
		v, _ := b.Get(k)
		s = append(s, string(k)+"="+strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(s, " ")
}

// catalogue loads the configured catalogue file, or the built-in catalogue
// if none is configured.
func (a *app) catalogue() (preset.Catalogue, error) {
	name := a.v.GetString("catalogue")
	if name == "" {
		return preset.Default(), nil
	}
	log.Debug().Str("file", name).Msg("reading catalogue")
	return preset.Open(name)
}
