package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/vecfield"
)

func newEvalCmd() *cobra.Command {
	var (
		inname string
		verb   string
		given  []string
		echo   bool
		exact  bool
		prec   uint
	)
	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate expressions",
		Long: `Evaluate each expression given as an argument, or each line of the input
file or standard input when there are no arguments.

Identifiers take their values from --given definitions, each of which is
itself an expression evaluated with the definitions before it.

Examples:
  vecfield eval "2+3*4"
  vecfield eval --given s=10 --given x=1 --given y=3 "s*(y-x)"
  vecfield eval --precise --prec 256 "1/3"
  echo "max(1,2)" | vecfield eval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bindAll(vecfield.NewBinding(), given, false)
			if err != nil {
				return err
			}
			srcs := args
			if len(args) == 0 || inname != "" {
				lines, err := readLines(cmd, inname)
				if err != nil {
					return err
				}
				srcs = append(lines, args...)
			}
			ev := evaluator{b: b, verb: verb + "\n", echo: echo}
			if exact {
				ev.big = vecfield.NewBigContext(prec)
			} else {
				ev.ctx = vecfield.NewContext()
			}
			w := cmd.OutOrStdout()
			for _, src := range srcs {
				if err := ev.eval(w, src); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inname, "in", "", "input file, one expression per line (- for stdin)")
	cmd.Flags().StringVar(&verb, "fmt", "%g", "result formatting verb")
	cmd.Flags().StringArrayVar(&given, "given", nil, "name=value identifier definition (repeatable)")
	cmd.Flags().BoolVar(&echo, "echo", false, "print each expression in postfix before its result")
	cmd.Flags().BoolVar(&exact, "precise", false, "evaluate with arbitrary precision")
	cmd.Flags().UintVar(&prec, "prec", 64, "precision of --precise calculations in bits")
	return cmd
}

type evaluator struct {
	b    *vecfield.Binding
	ctx  *vecfield.Context
	big  *vecfield.BigContext
	verb string
	echo bool
}

// eval prints the result of one expression. Parse errors stop evaluation;
// evaluation errors are printed in place of the result.
func (ev *evaluator) eval(w io.Writer, src string) error {
	e, err := vecfield.Parse(src)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", src, err)
	}
	if ev.echo {
		fmt.Fprintf(w, "%v : ", e)
	}
	var r any
	if ev.big != nil {
		r, err = ev.big.Eval(e, ev.b)
	} else {
		r, err = ev.ctx.Eval(e, ev.b)
	}
	if err != nil {
		log.Debug().Err(err).Str("expr", src).Msg("evaluation failed")
		fmt.Fprintln(w, err)
		return nil
	}
	fmt.Fprintf(w, ev.verb, r)
	return nil
}

func newPostfixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "postfix expression",
		Short: "Print an expression in postfix notation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := vecfield.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

// readLines reads the non-blank lines of the named file, or of the command's
// input if the name is empty or -.
func readLines(cmd *cobra.Command, name string) ([]string, error) {
	r := cmd.InOrStdin()
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if l := strings.TrimSpace(s.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("couldn't read input: %w", err)
	}
	return lines, nil
}

// bindAll evaluates name=value definitions in order and sets them in b.
// If params is true, only parameters already in b can be defined.
func bindAll(b *vecfield.Binding, defs []string, params bool) (*vecfield.Binding, error) {
	for _, d := range defs {
		k, v, err := assign(d, b)
		if err != nil {
			return nil, err
		}
		if params {
			if vecfield.Reserved(k) {
				return nil, fmt.Errorf("%c is a coordinate, not a parameter", k)
			}
			if !b.Has(k) {
				return nil, fmt.Errorf("no parameter %c in %s", k, b)
			}
		}
		b.Set(k, v)
	}
	return b, nil
}

// assign parses a name=value definition. The value is an expression
// evaluated with b.
func assign(d string, b *vecfield.Binding) (byte, float64, error) {
	name, val, ok := strings.Cut(d, "=")
	if !ok {
		return 0, 0, fmt.Errorf(`definitions must be "name=value", not %q`, d)
	}
	name = strings.TrimSpace(name)
	if len(name) != 1 || !vecfield.ValidKey(name[0]) {
		return 0, 0, fmt.Errorf("%q is not a single-letter identifier", name)
	}
	v, err := vecfield.EvalString(val, b)
	if err != nil {
		return 0, 0, fmt.Errorf("setting %s: %w", name, err)
	}
	return name[0] | 0x20, v, nil
}
