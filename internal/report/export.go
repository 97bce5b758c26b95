// Package report renders solutions and their label layouts for headless
// output: JSON exports and plain text tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/litescript/ls-platesolver/internal/astro"
	"github.com/litescript/ls-platesolver/internal/catalog"
	"github.com/litescript/ls-platesolver/internal/layout"
	"github.com/litescript/ls-platesolver/internal/solution"
	"github.com/litescript/ls-platesolver/internal/state"
)

// AnnotationExport is the JSON-serializable annotation of one solution.
type AnnotationExport struct {
	Image      string                    `json:"image"`
	ImagePath  string                    `json:"image_path"`
	Dimension  astro.ImageDimension      `json:"dimension"`
	FOV        float64                   `json:"fov_deg"`
	Center     astro.CelestialCoordinate `json:"center"`
	Corners    []CornerExport            `json:"corners"`
	Canvas     layout.CanvasDimension    `json:"canvas"`
	Scale      float64                   `json:"scale"`
	Objects    []ObjectExport            `json:"objects"`
	Warnings   []string                  `json:"warnings,omitempty"`
	SolvedAt   time.Time                 `json:"solved_at"`
	ExportedAt time.Time                 `json:"exported_at"`
}

// CornerExport is one image corner and its sky position.
type CornerExport struct {
	Pixel astro.PixelCoordinate     `json:"pixel"`
	Cel   astro.CelestialCoordinate `json:"cel"`
}

// ObjectExport is a matched object with its label placement.
type ObjectExport struct {
	Names     []string                  `json:"names"`
	Type      string                    `json:"type"`
	Mag       float64                   `json:"mag"`
	Cel       astro.CelestialCoordinate `json:"cel"`
	Pixel     astro.PixelCoordinate     `json:"pixel"`
	Marker    layout.MarkerCircle       `json:"marker"`
	Label     layout.LabelRect          `json:"label"`
	LeaderEnd layout.CanvasCoordinate   `json:"leader_end"`
}

// ExportAnnotation combines a solution with the placements computed for
// its matched objects. placements must be in the order of sol.Matched;
// extra objects without a placement are left out.
func ExportAnnotation(sol *solution.Solution, placements []layout.Placement, canvas layout.CanvasDimension, scale float64, exportedAt time.Time) (*AnnotationExport, error) {
	p, err := sol.Projector()
	if err != nil {
		return nil, err
	}
	fov, err := sol.FieldOfView()
	if err != nil {
		return nil, err
	}

	export := &AnnotationExport{
		Image:      displayName(sol),
		ImagePath:  sol.Params.ImagePath,
		Dimension:  sol.ImageDimension,
		FOV:        fov,
		Center:     p.PixelToCelestial(p.Center()),
		Canvas:     canvas,
		Scale:      scale,
		Warnings:   sol.Warnings,
		SolvedAt:   sol.SolvedAt,
		ExportedAt: exportedAt,
	}
	for _, px := range p.Corners() {
		export.Corners = append(export.Corners, CornerExport{Pixel: px, Cel: p.PixelToCelestial(px)})
	}
	for i, o := range sol.Matched {
		if i >= len(placements) {
			break
		}
		pl := placements[i]
		export.Objects = append(export.Objects, ObjectExport{
			Names:     o.Names,
			Type:      o.Type,
			Mag:       o.Mag,
			Cel:       o.Cel,
			Pixel:     p.CelestialToPixel(o.Cel),
			Marker:    pl.Circle,
			Label:     pl.Rect,
			LeaderEnd: pl.LeaderEnd(),
		})
	}
	return export, nil
}

// WriteJSON writes the annotation as JSON to the given writer.
func (a *AnnotationExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// WriteObjectTable writes a text table of the annotated objects.
func WriteObjectTable(w io.Writer, a *AnnotationExport) {
	fmt.Fprintf(w, "%s  %dx%d  FOV %.3f°  center %s\n",
		a.Image, a.Dimension.Width, a.Dimension.Height, a.FOV, a.Center)
	fmt.Fprintln(w, strings.Repeat("─", 96))

	if len(a.Objects) == 0 {
		fmt.Fprintln(w, "No catalog objects in field")
		return
	}

	fmt.Fprintf(w, "%-18s %-5s %5s %-12s %-8s %8s %8s %8s %8s\n",
		"Name", "Type", "Mag", "RA", "Dec", "X", "Y", "LabelX", "LabelY")
	fmt.Fprintln(w, strings.Repeat("─", 96))

	for _, o := range a.Objects {
		mag := "-"
		if o.Mag < catalog.UnknownMagnitude {
			mag = fmt.Sprintf("%.1f", o.Mag)
		}
		fmt.Fprintf(w, "%-18s %-5s %5s %-12s %-8s %8.1f %8.1f %8.1f %8.1f\n",
			truncateStr(strings.Join(o.Names, "/"), 18),
			truncateStr(o.Type, 5),
			mag,
			astro.FormatRA(o.Cel.RA),
			astro.FormatDec(o.Cel.Dec),
			o.Pixel.X,
			o.Pixel.Y,
			o.Label.Min.X,
			o.Label.Min.Y,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d objects\n", len(a.Objects))
	for _, warn := range a.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

// WriteSolutionList writes one line per stored solution.
func WriteSolutionList(w io.Writer, entries []solution.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No solutions")
		return
	}

	fmt.Fprintf(w, "%4s %-24s %-6s %8s %7s %-20s\n", "ID", "Image", "DB", "FOV", "Objects", "Solved")
	fmt.Fprintln(w, strings.Repeat("─", 74))
	for _, e := range entries {
		if e.Solution == nil {
			continue
		}
		fov := "-"
		if v, err := e.Solution.FieldOfView(); err == nil {
			fov = fmt.Sprintf("%.3f°", v)
		}
		fmt.Fprintf(w, "%4d %-24s %-6s %8s %7d %-20s\n",
			e.ID,
			truncateStr(displayName(e.Solution), 24),
			e.Solution.Params.DBName,
			fov,
			len(e.Solution.Matched),
			e.ModTime.Format("2006-01-02 15:04:05"),
		)
	}
}

// WriteEvents writes the last n store events, oldest first.
func WriteEvents(w io.Writer, events []state.Event, n int) {
	fmt.Fprintln(w, "Event Log")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		WriteEvent(w, e)
	}
}

// WriteEvent writes a single event line.
func WriteEvent(w io.Writer, e state.Event) {
	fmt.Fprintf(w, "%s %s #%d %s", e.Timestamp.Format("15:04:05"), FormatEventType(e.Type), e.ID, eventName(e))
	if e.Type != state.EventSolutionRemoved {
		fmt.Fprintf(w, " (%d objects)", e.Objects)
	}
	fmt.Fprintln(w)
}

// FormatEventType returns a fixed-width marker for an event type.
func FormatEventType(t state.EventType) string {
	switch t {
	case state.EventSolutionAdded:
		return "+NEW "
	case state.EventSolutionUpdated:
		return "~UPD "
	case state.EventSolutionRemoved:
		return "-DEL "
	}
	return "?    "
}

func eventName(e state.Event) string {
	if e.Image != "" {
		return e.Image
	}
	return e.File
}

func displayName(sol *solution.Solution) string {
	if sol.Params.ImageName != "" {
		return sol.Params.ImageName
	}
	return filepath.Base(sol.Params.ImagePath)
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
