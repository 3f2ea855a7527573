package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flamekit/pkg/core/geom"
	"github.com/matzehuels/flamekit/pkg/core/variation"
	"github.com/matzehuels/flamekit/pkg/errors"
)

// applyOpts holds the command-line flags for the apply command.
type applyOpts struct {
	in        geom.Point
	weight    float64
	preserveZ bool
	params    []string // raw "name=value" pairs
}

// applyCommand creates the apply command, which runs one variation on one
// point.
func (c *CLI) applyCommand() *cobra.Command {
	opts := applyOpts{weight: 1}

	cmd := &cobra.Command{
		Use:   "apply [variation]",
		Short: "Apply a single variation to one point",
		Long: `Apply a single variation to one point and print its contribution.

The variation is built with its defaults, --param values are set, and it is
initialised once before the point is transformed. Unknown parameter names are
ignored, as they are in flame documents.`,
		Example: `  flamekit apply pie --x 1 --y 0.5
  flamekit apply pie --x 0 --y -1 --z 2 --preserve-z --param num=5 --param a=0.3`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return variation.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runApply(args[0], opts)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("applied variation",
				"name", args[0], "in", opts.in, "out", out)

			printKeyValue("in", formatPoint(opts.in))
			printKeyValue("out", StyleNumber.Render(formatPoint(out)))
			if !out.IsFinite() {
				printWarning("%s produced a non-finite point", args[0])
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.in.X, "x", 0, "input x")
	cmd.Flags().Float64Var(&opts.in.Y, "y", 0, "input y")
	cmd.Flags().Float64Var(&opts.in.Z, "z", 0, "input z")
	cmd.Flags().Float64Var(&opts.weight, "weight", opts.weight, "variation amount")
	cmd.Flags().BoolVar(&opts.preserveZ, "preserve-z", false, "carry z through, scaled by the weight")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "parameter as name=value (repeatable)")

	return cmd
}

// runApply builds the named variation, sets its parameters, and returns its
// contribution for opts.in added to a zero point.
func runApply(name string, opts applyOpts) (geom.Point, error) {
	v, ok := variation.New(name)
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeUnknownVariation,
			"unknown variation %q (known: %s)", name, strings.Join(variation.Names(), ", "))
	}
	for _, kv := range opts.params {
		k, val, err := parseParam(kv)
		if err != nil {
			return geom.Point{}, err
		}
		v.SetParam(k, val)
	}

	ctx := &variation.Context{PreserveZ: opts.preserveZ}
	v.Init(ctx, opts.weight)

	in := opts.in
	var out geom.Point
	v.Transform(ctx, &in, &out, opts.weight)
	return out, nil
}

// parseParam splits "name=value" and parses the value as a float.
func parseParam(s string) (string, float64, error) {
	k, raw, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", 0, errors.New(errors.ErrCodeInvalidParameter, "parameter %q must be name=value", s)
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, errors.Wrap(errors.ErrCodeInvalidParameter, err, "parameter %s", k)
	}
	return k, val, nil
}

func formatPoint(p geom.Point) string {
	return fmt.Sprintf("(%s, %s, %s)", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
