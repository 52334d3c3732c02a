package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Terminal palette shared by the status lines and the explorer.
var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle renders the focal path in the explorer.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight marks dataset names in status lines.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleLink renders the address the server listens on.
	StyleLink = lipgloss.NewStyle().Foreground(colorCyan).Underline(true)
	// StyleDim is for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleWarn    = lipgloss.NewStyle().Foreground(colorAmber)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// stdout receives every status line; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func statusLine(mark lipgloss.Style, glyph, format string, args ...any) {
	fmt.Fprintln(stdout, mark.Render(glyph)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { statusLine(styleOK, "✓", format, args...) }

func printError(format string, args ...any) { statusLine(styleFail, "✗", format, args...) }

func printWarning(format string, args ...any) {
	statusLine(styleWarn, "!", "%s", styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) { statusLine(styleNote, "›", format, args...) }

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written render output.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+path)
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+value)
}

// printStats summarizes a loaded hierarchy on one line:
//
//	1,204 nodes · 980 leaves · depth 4 · cached
func printStats(nodes, leaves, depth int, cached bool) {
	status := styleNote.Render("fresh")
	if cached {
		status = styleOK.Render("cached")
	}
	fmt.Fprintln(stdout, "  "+strings.Join([]string{
		humanize.Comma(int64(nodes)) + StyleDim.Render(" nodes"),
		humanize.Comma(int64(leaves)) + StyleDim.Render(" leaves"),
		StyleDim.Render("depth ") + fmt.Sprint(depth),
		status,
	}, StyleDim.Render(" · ")))
}
