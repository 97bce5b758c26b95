package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-platesolver/internal/catalog"
	"github.com/litescript/ls-platesolver/internal/layout"
	"github.com/litescript/ls-platesolver/internal/solution"
	"github.com/litescript/ls-platesolver/internal/wcs"
)

func m42Entry(t *testing.T, id int) solution.Entry {
	t.Helper()
	h, err := wcs.ParseFile("../wcs/testdata/m42.wcs")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	sol, err := solution.FromHeader(solution.Params{
		ImagePath: "/photos/m42.jpg",
		ImageName: "m42.jpg",
		FOVDeg:    3.7,
		DBName:    "h17",
	}, h, catalog.Builtin())
	if err != nil {
		t.Fatalf("FromHeader: %v", err)
	}
	return solution.Entry{
		ID:       id,
		Path:     "/store/m42.json",
		ModTime:  time.Unix(1700000000+int64(id), 0),
		Solution: sol,
	}
}

// newM42View returns an 80x24 cell canvas showing the M42 fixture.
func newM42View(t *testing.T) ImageViewModel {
	t.Helper()
	m := NewImageViewModel().SetSize(80, 26)
	return m.SetSolution(m42Entry(t, 1))
}

func press(m ImageViewModel, keys ...string) ImageViewModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestImageView_Render(t *testing.T) {
	m := newM42View(t)
	view := m.View()

	for _, want := range []string{"Plate View", "#1 m42.jpg", "showing 5/5 (100%)", "zoom 1.00x", "FOV 3.66°", "Hatysa", "M42"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	// header + 24 canvas rows + status
	if lines := strings.Split(view, "\n"); len(lines) != 26 {
		t.Errorf("View() has %d lines, want 26", len(lines))
	}
}

func TestImageView_Placements(t *testing.T) {
	m := newM42View(t)
	pl := m.placements()
	if len(pl) != 5 {
		t.Fatalf("placements() = %d, want 5", len(pl))
	}
	if pl[0].Rect.Label != "Hatysa" {
		t.Errorf("placements()[0] = %q, want Hatysa", pl[0].Rect.Label)
	}
	// one cell per rune, two canvas units per row
	if got := pl[0].Rect.Width(); got != 6 {
		t.Errorf("Hatysa width = %v, want 6", got)
	}
	if got := pl[0].Rect.Height(); got != rowUnits {
		t.Errorf("Hatysa height = %v, want %v", got, rowUnits)
	}
}

func TestImageView_Zoom(t *testing.T) {
	m := newM42View(t)
	m.placements()

	m = press(m, "+")
	if m.scale != zoomStep {
		t.Errorf("scale after + = %v, want %v", m.scale, zoomStep)
	}
	if m.cache.Valid() {
		t.Error("zoom should drop cached placements")
	}
	if !strings.Contains(m.View(), "zoom 1.25x") {
		t.Error("header should show the new zoom")
	}

	// the marker size follows the zoom
	if got := m.placements()[0].Circle.Radius; math.Abs(got-cellMarkerRadius/zoomStep) > 1e-9 {
		t.Errorf("marker radius = %v, want %v", got, cellMarkerRadius/zoomStep)
	}

	m = press(m, "-", "-", "-")
	if m.scale != 1 {
		t.Errorf("scale after zooming out = %v, want 1", m.scale)
	}

	m = press(m, "+", "+", "0")
	if m.scale != 1 {
		t.Errorf("scale after reset = %v, want 1", m.scale)
	}
}

func TestImageView_ZoomKeepsCursorTarget(t *testing.T) {
	m := newM42View(t)
	hatysa := m.placements()[0].Circle.Center
	m.cursorX, m.cursorY = m.toScreen(hatysa)
	if got := m.Selected(); got != 0 {
		t.Fatalf("Selected() = %d, want 0", got)
	}

	m = press(m, "+", "+")
	if got := m.Selected(); got != 0 {
		t.Errorf("Selected() after zoom = %d, want 0", got)
	}
}

func TestImageView_Fraction(t *testing.T) {
	m := newM42View(t)

	m = press(m, "[", "[", "[", "[", "[")
	if got := m.visible(); got != 3 {
		t.Errorf("visible() at 50%% = %d, want 3", got)
	}
	if !strings.Contains(m.View(), "showing 3/5 (50%)") {
		t.Error("header should show 3 of 5 objects")
	}

	for i := 0; i < 8; i++ {
		m = press(m, "[")
	}
	if m.fractionPct != 0 || m.visible() != 0 {
		t.Errorf("fraction = %d%%, visible = %d, want 0 and 0", m.fractionPct, m.visible())
	}

	for i := 0; i < 12; i++ {
		m = press(m, "]")
	}
	if m.fractionPct != 100 {
		t.Errorf("fraction = %d%%, want 100", m.fractionPct)
	}
}

func TestImageView_Status(t *testing.T) {
	m := newM42View(t)

	hatysa := m.placements()[0].Circle.Center
	m.cursorX, m.cursorY = m.toScreen(hatysa)
	if got := m.renderStatus(); !strings.Contains(got, "Hatysa") || !strings.Contains(got, "Star") {
		t.Errorf("status on Hatysa = %q", got)
	}

	// hidden objects cannot be picked
	m.fractionPct = 0
	if got := m.Selected(); got != -1 {
		t.Errorf("Selected() with nothing shown = %d, want -1", got)
	}
	m.fractionPct = 100

	// empty sky near the top left corner
	m.cursorX, m.cursorY = 1, 1
	if got := m.renderStatus(); !strings.Contains(got, "RA: 05h3") || !strings.Contains(got, "px ") {
		t.Errorf("status on empty sky = %q", got)
	}

	// right of the fitted image
	m.cursorX = 79
	if got := m.renderStatus(); !strings.Contains(got, "outside image") {
		t.Errorf("status outside image = %q", got)
	}
}

func TestImageView_Cursor(t *testing.T) {
	m := newM42View(t)
	x0, y0 := m.cursorX, m.cursorY

	m = press(m, "right", "right", "down")
	if m.cursorX != x0+2 || m.cursorY != y0+1 {
		t.Errorf("cursor = (%d,%d), want (%d,%d)", m.cursorX, m.cursorY, x0+2, y0+1)
	}

	for i := 0; i < 100; i++ {
		m = press(m, "left", "up")
	}
	if m.cursorX != 0 || m.cursorY != 0 {
		t.Errorf("cursor = (%d,%d), want clamped to (0,0)", m.cursorX, m.cursorY)
	}
}

func TestImageView_ScreenMapping(t *testing.T) {
	m := newM42View(t)
	pts := []layout.CanvasCoordinate{{X: 10.2, Y: 7.9}, {X: 40, Y: 24}, {X: 70.5, Y: 47.1}}

	for _, keys := range [][]string{nil, {"+", "+", "+"}} {
		m = press(m, keys...)
		for _, pt := range pts {
			x, y := m.toScreen(pt)
			back := m.toCanvas(x, y)
			if math.Abs(back.X-pt.X) > 0.5/m.scale || math.Abs(back.Y-pt.Y) > rowUnits/2/m.scale {
				t.Errorf("scale %v: %v -> (%d,%d) -> %v", m.scale, pt, x, y, back)
			}
		}
	}
}

func TestImageView_Empty(t *testing.T) {
	m := NewImageViewModel().SetSize(80, 26)
	view := m.View()
	if !strings.Contains(view, "no solution") || !strings.Contains(view, "Waiting for solutions") {
		t.Errorf("empty View() = %q", view)
	}
	if m.Selected() != -1 {
		t.Error("Selected() without a solution should be -1")
	}

	small := NewImageViewModel().SetSize(10, 4)
	if got := small.View(); !strings.Contains(got, "requires larger terminal") {
		t.Errorf("small View() = %q", got)
	}
}

func TestImageView_SetSolutionResetsZoom(t *testing.T) {
	m := newM42View(t)
	m = press(m, "+", "+")
	m = m.SetSolution(m42Entry(t, 2))
	if m.scale != 1 {
		t.Errorf("scale after switching = %v, want 1", m.scale)
	}
	if !strings.Contains(m.View(), "#2 m42.jpg") {
		t.Error("header should name the new entry")
	}
}

func TestObjectGlyph(t *testing.T) {
	tests := []struct {
		obj   catalog.Object
		glyph rune
		color lipgloss.Color
	}{
		{catalog.Object{Type: catalog.TypeStar, Mag: 0.1}, glyphStarBright, colorStarBright},
		{catalog.Object{Type: catalog.TypeStar, Mag: 2.8}, glyphStarMedium, colorStarMedium},
		{catalog.Object{Type: catalog.TypeStar, Mag: 5}, glyphStarDim, colorStarDim},
		{catalog.Object{Type: "Neb", Mag: 4}, glyphDSO, colorDSO},
		{catalog.Object{Mag: catalog.UnknownMagnitude}, glyphDSO, colorDSO},
	}

	for _, tt := range tests {
		g, c := objectGlyph(tt.obj)
		if g != tt.glyph || c != tt.color {
			t.Errorf("objectGlyph(%+v) = %q %v, want %q %v", tt.obj, g, c, tt.glyph, tt.color)
		}
	}
}

func TestDescribeObject(t *testing.T) {
	o := catalog.Object{Type: "Neb", Mag: 4, Names: []string{"M42", "Orion Nebula"}}
	o.Cel.RA, o.Cel.Dec = 83.82, -5.39
	got := describeObject(o)
	if !strings.HasPrefix(got, "M42 / Orion Nebula | Neb mag 4.0 | RA: ") {
		t.Errorf("describeObject() = %q", got)
	}

	o.Mag = catalog.UnknownMagnitude
	if strings.Contains(describeObject(o), "mag") {
		t.Error("unknown magnitude should be left out")
	}
}
