package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/pipeline"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/zoom"
)

var (
	exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	exploreErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		focus    string
		dataPath string
		noAnim   bool
	)

	cmd := &cobra.Command{
		Use:   "explore <source>",
		Short: "Browse a dataset as a treemap in the terminal",
		Long: `Browse a dataset as a treemap in the terminal.

Keys: arrows or hjkl select a tile, enter zooms in, backspace or esc zooms
out, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions(args[0])
			opts.Focus = focus
			if dataPath != "" {
				opts.DataPath = dataPath
			}
			return c.runExplore(cmd.Context(), opts, !noAnim)
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "node ID to start at")
	cmd.Flags().StringVar(&dataPath, "data-path", "", "JSONPath of the hierarchy in the document (default $.data)")
	cmd.Flags().BoolVar(&noAnim, "no-animation", false, "settle zooms immediately")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options, animate bool) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Loading "+opts.Source+"...")
	spinner.Start()
	tree, _, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.SetMessage(fmt.Sprintf("Laying out %d nodes...", tree.Stats().Nodes))

	// Frames arrive from the animation goroutines; forward them to the
	// program once it exists.
	var prog atomic.Pointer[tea.Program]
	var animator scene.Animator = scene.Immediate{}
	if animate {
		animator = scene.Timeline{OnFrame: func() {
			if p := prog.Load(); p != nil {
				p.Send(frameMsg{})
			}
		}}
	}

	// Quiet the logger while the TUI owns the terminal.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	defer c.Logger.SetLevel(level)
	opts.Logger = c.Logger

	v, err := pipeline.NewView(tree, opts, zoom.WithAnimator(animator))
	if err == nil {
		err = v.Focus(ctx, opts.Focus)
	}
	spinner.Stop()
	if err != nil {
		return err
	}

	p := tea.NewProgram(newExploreModel(ctx, v), tea.WithAltScreen(), tea.WithContext(ctx))
	prog.Store(p)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "explorer failed")
	}
	return nil
}

// =============================================================================
// exploreModel - Interactive treemap
// =============================================================================

type (
	// frameMsg asks for a redraw during a transition.
	frameMsg struct{}

	// zoomDoneMsg reports a settled (or rejected) zoom.
	zoomDoneMsg struct {
		t   *zoom.Transition
		err error
	}
)

// exploreModel is the bubbletea model for the explorer.
type exploreModel struct {
	ctx    context.Context
	view   *pipeline.View
	cursor int
	width  int
	height int
	status string
	err    error
}

func newExploreModel(ctx context.Context, v *pipeline.View) exploreModel {
	return exploreModel{ctx: ctx, view: v, width: 80, height: 24}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "up", "h", "k", "shift+tab":
			if n := len(m.tiles()); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
			}
		case "right", "down", "l", "j", "tab":
			if n := len(m.tiles()); n > 0 {
				m.cursor = (m.cursor + 1) % n
			}
		case "enter":
			tiles := m.tiles()
			if m.cursor >= len(tiles) {
				return m, nil
			}
			if !tiles[m.cursor].Clickable {
				m.status = tiles[m.cursor].Name + " has no children"
				return m, nil
			}
			return m, m.zoomIn(tiles[m.cursor].NodeID)
		case "backspace", "esc":
			return m, m.zoomOut()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case frameMsg:
		// Redraw only.
	case zoomDoneMsg:
		m.err = msg.err
		m.status = ""
		if msg.err == nil && msg.t != nil {
			m.cursor = 0
			m.status = fmt.Sprintf("zoomed %s to %s", msg.t.Direction, m.view.Path())
		}
	}
	return m, nil
}

func (m exploreModel) zoomIn(id string) tea.Cmd {
	ctrl := m.view.Controller
	return func() tea.Msg {
		n, err := ctrl.Tree().Find(id)
		if err != nil {
			return zoomDoneMsg{err: err}
		}
		t, err := ctrl.ZoomIn(m.ctx, n)
		return zoomDoneMsg{t: t, err: err}
	}
}

func (m exploreModel) zoomOut() tea.Cmd {
	ctrl := m.view.Controller
	return func() tea.Msg {
		t, err := ctrl.ZoomOut(m.ctx)
		return zoomDoneMsg{t: t, err: err}
	}
}

// tiles returns the selectable tiles of the interactive layer.
func (m exploreModel) tiles() []scene.Element {
	snap := m.view.Scene.Snapshot()
	for i := len(snap.Layers) - 1; i >= 0; i-- {
		l := snap.Layers[i]
		if !l.Interactive {
			continue
		}
		var out []scene.Element
		for _, e := range l.Elements {
			if !e.Header {
				out = append(out, e)
			}
		}
		return out
	}
	return nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	state := m.view.Controller.State()
	b.WriteString(StyleTitle.Render(state.Root.Path()))
	if label := state.Root.CountLabel(); label != "" {
		b.WriteString(" " + exploreDimStyle.Render("("+label+")"))
	}
	b.WriteString("\n")

	rows := max(m.height-4, 4)
	b.WriteString(m.paint(m.width, rows))
	b.WriteString("\n")

	tiles := m.tiles()
	if m.cursor < len(tiles) {
		t := tiles[m.cursor]
		line := "▸ " + t.Name
		if t.Label != "" {
			line += "  " + t.Label
		}
		b.WriteString(exploreSelectedStyle.Render(line))
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(exploreErrorStyle.Render(errors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(exploreDimStyle.Render(m.status))
	default:
		b.WriteString(exploreDimStyle.Render("←/→ select  ⏎ zoom in  ⌫ zoom out  q quit"))
	}
	return b.String()
}

// cell is one character of the painted treemap.
type cell struct {
	fill string
	ch   rune
	bold bool
}

// paint rasterizes the visible layers into a cols×rows grid. Terminal
// cells cannot blend, so a layer is drawn only while at least half opaque.
func (m exploreModel) paint(cols, rows int) string {
	snap := m.view.Scene.Snapshot()
	if cols <= 0 || rows <= 0 || snap.Width <= 0 || snap.Height <= 0 {
		return ""
	}
	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			grid[y][x] = cell{fill: "#ffffff", ch: ' '}
		}
	}

	var selected string
	if tiles := m.tiles(); m.cursor < len(tiles) {
		selected = tiles[m.cursor].NodeID
	}

	sx, sy := float64(cols)/snap.Width, float64(rows)/snap.Height
	for _, l := range snap.Layers {
		if l.Opacity < 0.5 {
			continue
		}
		for _, e := range l.Elements {
			if e.Header {
				continue
			}
			a := e.Attrs
			x0, y0 := clamp(int(math.Round(a.X*sx)), cols), clamp(int(math.Round(a.Y*sy)), rows)
			x1, y1 := clamp(int(math.Round((a.X+a.W)*sx)), cols), clamp(int(math.Round((a.Y+a.H)*sy)), rows)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					grid[y][x] = cell{fill: e.Fill, ch: ' '}
				}
			}
			if y1 > y0 && x1-x0 > 2 {
				label := e.Name
				if e.NodeID == selected && l.Interactive {
					label = "▸ " + label
				}
				for i, r := range []rune(label) {
					if x0+1+i >= x1-1 {
						break
					}
					grid[y0][x0+1+i] = cell{fill: e.Fill, ch: r, bold: e.NodeID == selected}
				}
			}
		}
	}

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteString("\n")
		}
		for x := 0; x < len(row); {
			run := row[x]
			end := x
			var text strings.Builder
			for end < len(row) && row[end].fill == run.fill && row[end].bold == run.bold {
				text.WriteRune(row[end].ch)
				end++
			}
			b.WriteString(tileStyle(run.fill, run.bold).Render(text.String()))
			x = end
		}
	}
	return b.String()
}

// tileStyle picks a readable foreground for the fill.
func tileStyle(fill string, bold bool) lipgloss.Style {
	fg := lipgloss.Color("#222222")
	if c, err := colorful.Hex(fill); err == nil {
		if l, _, _ := c.Lab(); l < 0.55 {
			fg = lipgloss.Color("#ffffff")
		}
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(fill)).Foreground(fg).Bold(bold)
}

func clamp(v, hi int) int {
	return min(max(v, 0), hi)
}
