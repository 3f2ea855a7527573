package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flamekit/pkg/api"
)

// variationsCommand creates the variations command.
func (c *CLI) variationsCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:     "variations",
		Aliases: []string{"vars"},
		Short:   "List registered variations and their parameters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := api.Variations()
			if !pick {
				fmt.Fprintln(stdout, variationTable(infos))
				return nil
			}
			return runPicker(infos)
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose a variation interactively")

	return cmd
}

// variationTable renders the registry as a bordered table.
func variationTable(infos []api.VariationInfo) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Name, formatParams(info.Params)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Variation", "Parameters").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			default:
				return StyleValue
			}
		})

	return t.Render()
}

// formatParams renders parameters as "a=0.2 num=1", or a dash when there
// are none.
func formatParams(params []api.ParamInfo) string {
	if len(params) == 0 {
		return "—"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + "=" + strconv.FormatFloat(p.Default, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// runPicker opens the interactive list and prints the chosen variation.
func runPicker(infos []api.VariationInfo) error {
	final, err := tea.NewProgram(NewVariationListModel(infos)).Run()
	if err != nil {
		return fmt.Errorf("variation picker: %w", err)
	}
	m := final.(VariationListModel)
	if m.Selected == nil {
		printInfo("No variation selected")
		return nil
	}

	v := m.Selected
	printSuccess("Selected %s", StyleTitle.Render(v.Name))
	for _, p := range v.Params {
		printKeyValue(p.Name, StyleNumber.Render(strconv.FormatFloat(p.Default, 'g', -1, 64)))
	}
	printNewline()
	printNextStep("Try it", applyExample(*v))
	return nil
}

// applyExample builds an apply command line using the variation's defaults.
func applyExample(v api.VariationInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s apply %s --x 1 --y 0.5", appName, v.Name)
	for _, p := range v.Params {
		fmt.Fprintf(&b, " --param %s=%s", p.Name, strconv.FormatFloat(p.Default, 'g', -1, 64))
	}
	return b.String()
}
