package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/litescript/ls-platesolver/internal/astro"
	"github.com/litescript/ls-platesolver/internal/catalog"
	"github.com/litescript/ls-platesolver/internal/layout"
	"github.com/litescript/ls-platesolver/internal/solution"
)

const (
	// Canvas units per terminal row. A column is one unit wide, and a cell
	// is roughly twice as tall as it is wide.
	rowUnits = 2.0

	zoomStep = 1.25
	maxScale = 64.0

	fractionStep = 10 // percent

	// Marker size and pick radius in canvas units at scale 1
	cellMarkerRadius = 1.0
	cellPickDistance = 3.0

	// Object glyphs by magnitude
	glyphStarBright = '✶' // mag < 1.5
	glyphStarMedium = '✸' // mag 1.5-3.0
	glyphStarDim    = '•' // mag > 3.0
	glyphDSO        = '◎'

	glyphLeader = '·'
	glyphCursor = '┼'

	colorBackground = "236"
	colorFrame      = "60"  // muted purple
	colorCorner     = "103" // grey violet
	colorLeader     = "240"
	colorLabel      = "#d0c8ff"
	colorDSO        = "#9D4EDD"
	colorStarBright = "255"
	colorStarMedium = "250"
	colorStarDim    = "244"
	colorCursor     = "229" // bright gold
)

// cellDistances are the candidate label distances in canvas units.
var cellDistances = []float64{2, 4, 6, 8}

// ImageViewModel draws one solution: the outline of the image, a marker for
// every matched object, its label and a dotted leader between them.
type ImageViewModel struct {
	width  int
	height int

	sol  *solution.Solution
	proj *astro.Projector
	id   int
	name string
	err  error

	cache       *layout.Cache
	scale       float64
	center      layout.CanvasCoordinate
	fractionPct int

	cursorX int
	cursorY int
}

// NewImageViewModel returns an empty view.
func NewImageViewModel() ImageViewModel {
	return ImageViewModel{
		cache:       layout.NewCache(1, layout.CanvasDimension{}),
		scale:       1,
		fractionPct: 100,
	}
}

// SetSize updates the viewport size. Two rows are used for the header and
// status line.
func (m ImageViewModel) SetSize(width, height int) ImageViewModel {
	m.width = width
	m.height = height - 2
	if m.height < 0 {
		m.height = 0
	}
	m.cache.SetCanvas(m.canvasDim())
	m.resetView()
	return m
}

// SetSolution shows entry. The zoom and cursor are reset when the entry
// differs from the one shown.
func (m ImageViewModel) SetSolution(e solution.Entry) ImageViewModel {
	key := fmt.Sprintf("%d@%d", e.ID, e.ModTime.UnixNano())
	m.cache.SetSolution(key)
	if m.sol == e.Solution && m.id == e.ID {
		return m
	}

	m.id = e.ID
	m.name = entryName(e)
	m.sol = e.Solution
	m.proj = nil
	m.err = nil
	if m.sol != nil {
		m.proj, m.err = m.sol.Projector()
	}
	m.scale = 1
	m.cache.SetScale(1)
	m.resetView()
	return m
}

func (m *ImageViewModel) resetView() {
	if m.scale <= 1 {
		m.scale = 1
	}
	m.center = layout.CanvasCoordinate{X: float64(m.width) / 2, Y: float64(m.height) * rowUnits / 2}
	m.clampCenter()
	m.cursorX, m.cursorY = m.width/2, m.height/2
}

// Update handles messages.
func (m ImageViewModel) Update(msg tea.Msg) (ImageViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			m.moveCursor(0, -1)
		case "down", "j":
			m.moveCursor(0, 1)
		case "left", "h":
			m.moveCursor(-1, 0)
		case "right", "l":
			m.moveCursor(1, 0)
		case "+", "=":
			m.zoom(m.scale * zoomStep)
		case "-", "_":
			m.zoom(m.scale / zoomStep)
		case "0":
			m.zoom(1)
		case "]":
			m.fractionPct = min(100, m.fractionPct+fractionStep)
		case "[":
			m.fractionPct = max(0, m.fractionPct-fractionStep)
		}
	}
	return m, nil
}

func (m *ImageViewModel) moveCursor(dx, dy int) {
	m.cursorX = clampInt(m.cursorX+dx, 0, m.width-1)
	m.cursorY = clampInt(m.cursorY+dy, 0, m.height-1)
}

// zoom changes the scale around the cursor, keeping the cursor on the
// same canvas point.
func (m *ImageViewModel) zoom(scale float64) {
	scale = math.Max(1, math.Min(maxScale, scale))
	if scale == m.scale {
		return
	}
	pt := m.toCanvas(m.cursorX, m.cursorY)
	m.scale = scale
	m.cache.SetScale(scale)
	m.center = pt
	m.clampCenter()
	m.cursorX, m.cursorY = m.toScreen(pt)
	m.moveCursor(0, 0)
}

// clampCenter keeps the view inside the canvas.
func (m *ImageViewModel) clampCenter() {
	c := m.canvasDim()
	hw := float64(c.Width) / 2 / m.scale
	hh := float64(c.Height) / 2 / m.scale
	m.center.X = math.Max(hw, math.Min(float64(c.Width)-hw, m.center.X))
	m.center.Y = math.Max(hh, math.Min(float64(c.Height)-hh, m.center.Y))
}

func (m ImageViewModel) canvasDim() layout.CanvasDimension {
	return layout.CanvasDimension{Width: m.width, Height: int(float64(m.height) * rowUnits)}
}

// toScreen returns the cell containing canvas point c.
func (m ImageViewModel) toScreen(c layout.CanvasCoordinate) (int, int) {
	x := (c.X-m.center.X)*m.scale + float64(m.width)/2
	y := ((c.Y-m.center.Y)*m.scale + float64(m.height)*rowUnits/2) / rowUnits
	return int(math.Floor(x)), int(math.Floor(y))
}

// toCanvas returns the canvas point at the middle of cell (x, y).
func (m ImageViewModel) toCanvas(x, y int) layout.CanvasCoordinate {
	return layout.CanvasCoordinate{
		X: (float64(x)+0.5-float64(m.width)/2)/m.scale + m.center.X,
		Y: ((float64(y)+0.5)*rowUnits-float64(m.height)*rowUnits/2)/m.scale + m.center.Y,
	}
}

// placements returns the label layout for the current solution and zoom.
func (m ImageViewModel) placements() []layout.Placement {
	if m.proj == nil || m.width <= 0 || m.height <= 0 {
		return nil
	}
	return m.cache.Placements(func(scale float64, canvas layout.CanvasDimension) []layout.Placement {
		e := &layout.Engine{
			Projector:    m.proj,
			Canvas:       canvas,
			Measurer:     layout.CellMeasurer{Scale: scale, RowHeight: rowUnits},
			Scale:        scale,
			MarkerRadius: cellMarkerRadius,
			Distances:    cellDistances,
			Angles:       layout.DefaultAngles,
		}
		return e.Place(m.sol.Matched)
	})
}

func (m ImageViewModel) visible() int {
	if m.sol == nil {
		return 0
	}
	return layout.VisibleCount(len(m.sol.Matched), float64(m.fractionPct)/100)
}

// Selected returns the index in the solution's matched objects of the
// object under the cursor, or -1.
func (m ImageViewModel) Selected() int {
	pl := m.placements()
	if len(pl) == 0 {
		return -1
	}
	pt := m.toCanvas(m.cursorX, m.cursorY)
	return layout.FindNearest(pl, pt, cellPickDistance/m.scale, m.visible())
}

// View renders the image view.
func (m ImageViewModel) View() string {
	if m.width < 20 || m.height < 5 {
		return "Image view requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m ImageViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	title := titleStyle.Render("Plate View")
	if m.sol == nil {
		return title + " | " + dimStyle.Render("no solution")
	}

	n := len(m.sol.Matched)
	objects := accentStyle.Render(fmt.Sprintf("#%d %s", m.id, m.name))
	shown := dimStyle.Render(fmt.Sprintf("showing %d/%d (%d%%)", m.visible(), n, m.fractionPct))
	zoom := dimStyle.Render(fmt.Sprintf("zoom %.2fx", m.scale))

	parts := []string{title, objects, shown, zoom}
	if fov, err := m.sol.FieldOfView(); err == nil {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("FOV %.2f°", fov)))
	}
	return strings.Join(parts, " | ")
}

func (m ImageViewModel) renderStatus() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorCursor))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	if m.err != nil {
		return errorStyle.Render("ERROR: " + m.err.Error())
	}
	if m.proj == nil {
		return dimStyle.Render("Waiting for solutions...")
	}

	if i := m.Selected(); i >= 0 {
		return accentStyle.Render(">>> " + describeObject(m.sol.Matched[i]))
	}

	pt := m.toCanvas(m.cursorX, m.cursorY)
	px := layout.CanvasToPixel(pt, m.proj.Dimension(), m.canvasDim())
	if !m.proj.Contains(px) {
		return dimStyle.Render("outside image")
	}
	cel := m.proj.PixelToCelestial(px)
	return dimStyle.Render(fmt.Sprintf("%s | px %.0f,%.0f", cel, px.X, px.Y))
}

func describeObject(o catalog.Object) string {
	s := strings.Join(o.Names, " / ")
	if o.Type != "" {
		s += " | " + o.Type
	}
	if o.Mag < catalog.UnknownMagnitude {
		s += fmt.Sprintf(" mag %.1f", o.Mag)
	}
	return s + " | " + o.Cel.String()
}

// grid is the character canvas the view is drawn into.
type grid struct {
	width, height int
	cells         [][]rune
	colors        [][]lipgloss.Color
}

func newGrid(width, height int) *grid {
	g := &grid{width: width, height: height}
	g.cells = make([][]rune, height)
	g.colors = make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		g.cells[y] = make([]rune, width)
		g.colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			g.cells[y][x] = ' '
			g.colors[y][x] = colorBackground
		}
	}
	return g
}

func (g *grid) set(x, y int, r rune, c lipgloss.Color) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.cells[y][x] = r
	g.colors[y][x] = c
}

func (g *grid) text(x, y int, s string, c lipgloss.Color) {
	for _, r := range s {
		g.set(x, y, r, c)
		x += max(1, runewidth.RuneWidth(r))
	}
}

func (m ImageViewModel) renderCanvas() string {
	g := newGrid(m.width, m.height)

	if m.proj != nil {
		m.drawFrame(g)

		pl := m.placements()
		n := m.visible()
		for i := 0; i < n && i < len(pl); i++ {
			m.drawLeader(g, pl[i])
		}
		for i := 0; i < n && i < len(pl); i++ {
			x, y := m.toScreen(pl[i].Rect.Min)
			g.text(x, y, pl[i].Rect.Label, colorLabel)
		}
		for i := 0; i < n && i < len(pl); i++ {
			x, y := m.toScreen(pl[i].Circle.Center)
			glyph, color := objectGlyph(m.sol.Matched[i])
			g.set(x, y, glyph, color)
		}
	}

	cursor := lipgloss.NewStyle().Foreground(lipgloss.Color(colorCursor)).Reverse(true)
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if x == m.cursorX && y == m.cursorY {
				r := g.cells[y][x]
				if r == ' ' {
					r = glyphCursor
				}
				b.WriteString(cursor.Render(string(r)))
				continue
			}
			style := lipgloss.NewStyle().Foreground(g.colors[y][x])
			b.WriteString(style.Render(string(g.cells[y][x])))
		}
		if y < g.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// drawFrame outlines the image and writes the sky position of each corner
// next to it.
func (m ImageViewModel) drawFrame(g *grid) {
	dim := m.proj.Dimension()
	fit := layout.FittedImageSize(dim, m.canvasDim())
	x0, y0 := m.toScreen(layout.CanvasCoordinate{})
	x1, y1 := m.toScreen(fit)
	x1, y1 = x1-1, y1-1

	frame := lipgloss.Color(colorFrame)
	for x := x0; x <= x1; x++ {
		g.set(x, y0, '─', frame)
		g.set(x, y1, '─', frame)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, '│', frame)
		g.set(x1, y, '│', frame)
	}
	g.set(x0, y0, '┌', frame)
	g.set(x1, y0, '┐', frame)
	g.set(x0, y1, '└', frame)
	g.set(x1, y1, '┘', frame)

	corner := func(px astro.PixelCoordinate) string {
		c := m.proj.PixelToCelestial(px)
		return astro.FormatRA(c.RA) + " " + astro.FormatDec(c.Dec)
	}
	w, h := float64(dim.Width), float64(dim.Height)
	tl := corner(astro.PixelCoordinate{X: 0, Y: 0})
	tr := corner(astro.PixelCoordinate{X: w, Y: 0})
	bl := corner(astro.PixelCoordinate{X: 0, Y: h})
	br := corner(astro.PixelCoordinate{X: w, Y: h})

	color := lipgloss.Color(colorCorner)
	g.text(x0+1, y0, tl, color)
	g.text(x1-runewidth.StringWidth(tr), y0, tr, color)
	g.text(x0+1, y1, bl, color)
	g.text(x1-runewidth.StringWidth(br), y1, br, color)
}

// drawLeader dots the line from a marker to its label.
func (m ImageViewModel) drawLeader(g *grid, p layout.Placement) {
	ax, ay := m.toScreen(p.Circle.Center)
	bx, by := m.toScreen(p.LeaderEnd())
	steps := max(abs(bx-ax), abs(by-ay))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := ax + int(math.Round(t*float64(bx-ax)))
		y := ay + int(math.Round(t*float64(by-ay)))
		if x >= 0 && x < g.width && y >= 0 && y < g.height && g.cells[y][x] == ' ' {
			g.set(x, y, glyphLeader, colorLeader)
		}
	}
}

// objectGlyph returns the marker glyph and color for an object. Stars are
// drawn by magnitude; everything else gets the deep sky glyph.
func objectGlyph(o catalog.Object) (rune, lipgloss.Color) {
	if !o.IsStellar() {
		return glyphDSO, colorDSO
	}
	switch {
	case o.Mag < 1.5:
		return glyphStarBright, colorStarBright
	case o.Mag < 3.0:
		return glyphStarMedium, colorStarMedium
	default:
		return glyphStarDim, colorStarDim
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Init returns nil cmd
func (m ImageViewModel) Init() tea.Cmd {
	return nil
}
