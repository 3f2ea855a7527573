package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/flamekit/pkg/pipeline"
)

// stdout receives all user-facing output. Logs go to the CLI logger instead.
var stdout io.Writer = os.Stdout

// =============================================================================
// Colors and Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // teal: titles, numbers
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for variation names and addresses.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleNumber for parameter values and coordinates.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleValue for plain data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh       = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	dot         = " · "
)

// =============================================================================
// Status Lines
// =============================================================================

func printStatus(icon string, style lipgloss.Style, msg string) {
	fmt.Fprintln(stdout, style.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printStatus(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(iconError, styleIconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(iconWarning, styleIconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a label padded to a fixed column and its value.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Render Stats
// =============================================================================

// printStats prints render statistics on a single line, e.g.
//
//	800x600 · 96,000,000 samples · 71% hit · 4.2s · 1.3 MB · fresh
func printStats(st pipeline.Stats, cached bool) {
	fmt.Fprintln(stdout, "  "+statsLine(st, cached))
}

func statsLine(st pipeline.Stats, cached bool) string {
	parts := []string{fmt.Sprintf("%dx%d", st.Width, st.Height)}
	if st.Samples > 0 {
		parts = append(parts, humanize.Comma(int64(st.Samples))+" samples")
		parts = append(parts, fmt.Sprintf("%.0f%% hit", 100*float64(st.Hits)/float64(st.Samples)))
	}
	if st.RenderTime > 0 {
		parts = append(parts, st.RenderTime.Round(time.Millisecond).String())
	}
	parts = append(parts, humanize.Bytes(uint64(st.Bytes)))

	status := styleFresh.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	return StyleDim.Render(strings.Join(parts, dot)) + StyleDim.Render(dot) + status
}
