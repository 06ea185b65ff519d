package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	json "github.com/goccy/go-json"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/richtext"
)

// DecisionMapOptions controls decision map export.
type DecisionMapOptions struct {
	Path    string           // Output path; format inferred from extension when Format empty
	Format  string           // "svg" or "png" (case-insensitive)
	Title   string           // Rendered in the summary block; defaults to "Decision Map"
	Catalog *catalog.Catalog // Scenarios to draw, in catalog order
}

// SaveDecisionMap renders a static map of every scenario, the choices it
// offers and the outcome behind each choice. Outcome boxes are filled by
// category and consecutive scenarios are joined by dashed "next" edges.
func SaveDecisionMap(opts DecisionMapOptions) error {
	defer metrics.Timer(metrics.Export)()

	if opts.Catalog.Len() == 0 {
		return fmt.Errorf("no scenarios to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if opts.Title == "" {
		opts.Title = "Decision Map"
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildMapLayout(opts)

	switch format {
	case "svg":
		return renderMapSVG(opts.Path, layout)
	default:
		return renderMapPNG(opts.Path, layout)
	}
}

// DataHash returns a short content hash of the catalog, printed on exports
// so a handout can be matched to the catalog it came from.
func DataHash(cat *catalog.Catalog) string {
	data, err := json.Marshal(cat.Scenarios())
	if err != nil {
		return "unknown"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}

// --- layout ----------------------------------------------------------------

type nodeKind int

const (
	kindScenario nodeKind = iota
	kindChoice
	kindOutcome
)

type mapNode struct {
	ID       string
	Kind     nodeKind
	Label    string
	Detail   string
	Category model.Category
	X, Y     float64
	W, H     float64
}

type mapEdge struct {
	From, To string
	Next     bool
}

type mapLayout struct {
	Nodes   []mapNode
	Edges   []mapEdge
	Width   int
	Height  int
	Header  float64
	Summary mapSummary
}

type mapSummary struct {
	Title      string
	DataHash   string
	Scenarios  int
	Choices    int
	ByCategory map[model.Category]int
}

func buildMapLayout(opts DecisionMapOptions) mapLayout {
	const (
		nodeW    = 220.0
		nodeH    = 54.0
		outcomeW = 260.0
		colGap   = 60.0
		rowGap   = 12.0
		groupGap = 36.0
		margin   = 32.0
		header   = 140.0
	)

	st := opts.Catalog.Stats()
	layout := mapLayout{
		Header: header,
		Summary: mapSummary{
			Title:      opts.Title,
			DataHash:   DataHash(opts.Catalog),
			Scenarios:  st.Scenarios,
			Choices:    st.Choices,
			ByCategory: st.ByCategory,
		},
	}

	colX := [3]float64{margin, margin + nodeW + colGap, margin + 2*(nodeW+colGap)}
	y := header + margin
	var prevScenario string

	for _, s := range opts.Catalog.Scenarios() {
		sid := fmt.Sprintf("s%d", s.ID)
		rows := max(len(s.Choices), 1)
		groupH := float64(rows)*nodeH + float64(rows-1)*rowGap

		layout.Nodes = append(layout.Nodes, mapNode{
			ID:     sid,
			Kind:   kindScenario,
			Label:  fmt.Sprintf("#%d %s", s.ID, s.Title),
			Detail: richtext.Plain(s.Subtitle),
			X:      colX[0],
			Y:      y + (groupH-nodeH)/2,
			W:      nodeW,
			H:      nodeH,
		})
		if prevScenario != "" {
			layout.Edges = append(layout.Edges, mapEdge{From: prevScenario, To: sid, Next: true})
		}
		prevScenario = sid

		for i, c := range s.Choices {
			cid := fmt.Sprintf("%s_c%d", sid, c.ID)
			oid := cid + "_o"
			rowY := y + float64(i)*(nodeH+rowGap)
			layout.Nodes = append(layout.Nodes,
				mapNode{ID: cid, Kind: kindChoice, Label: c.Title, Detail: richtext.Plain(c.Subtitle), X: colX[1], Y: rowY, W: nodeW, H: nodeH},
				mapNode{
					ID:       oid,
					Kind:     kindOutcome,
					Label:    c.Outcome.Result,
					Detail:   fmt.Sprintf("%s - %d takeaways", c.Outcome.Category(), len(c.Outcome.KeyTakeaways)),
					Category: c.Outcome.Category(),
					X:        colX[2],
					Y:        rowY,
					W:        outcomeW,
					H:        nodeH,
				},
			)
			layout.Edges = append(layout.Edges, mapEdge{From: sid, To: cid}, mapEdge{From: cid, To: oid})
		}
		y += groupH + groupGap
	}

	layout.Width = int(colX[2] + outcomeW + margin)
	layout.Height = int(y - groupGap + margin)
	return layout
}

func (l mapLayout) positions() map[string]mapNode {
	pos := make(map[string]mapNode, len(l.Nodes))
	for _, n := range l.Nodes {
		pos[n.ID] = n
	}
	return pos
}

// edgeEnds returns the endpoints of an edge. Next edges run down the left
// column from the bottom of one scenario to the top of the following one.
func edgeEnds(from, to mapNode, next bool) (x1, y1, x2, y2 float64) {
	if next {
		return from.X + 24, from.Y + from.H, to.X + 24, to.Y
	}
	return from.X + from.W, from.Y + from.H/2, to.X, to.Y + to.H/2
}

// --- colours ---------------------------------------------------------------

var (
	colorScenario = color.RGBA{0xdb, 0xe1, 0xf1, 0xff}
	colorChoice   = color.RGBA{0xff, 0xf4, 0xd1, 0xff}
	colorPositive = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorNegative = color.RGBA{0xff, 0xcd, 0xd2, 0xff}
	colorWarning  = color.RGBA{0xff, 0xe0, 0xb2, 0xff}
	colorNeutral  = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge     = color.RGBA{0x27, 0x34, 0x69, 0xff}
	colorNextEdge = color.RGBA{0xc9, 0x9a, 0x10, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

func categoryFill(c model.Category) color.RGBA {
	switch c {
	case model.CategoryPositive:
		return colorPositive
	case model.CategoryNegative:
		return colorNegative
	case model.CategoryWarning:
		return colorWarning
	default:
		return colorNeutral
	}
}

func nodeFill(n mapNode) color.RGBA {
	switch n.Kind {
	case kindScenario:
		return colorScenario
	case kindChoice:
		return colorChoice
	default:
		return categoryFill(n.Category)
	}
}

func legendLabel(c model.Category) string {
	switch c {
	case model.CategoryPositive:
		return "Positive"
	case model.CategoryNegative:
		return "Negative"
	case model.CategoryWarning:
		return "Warning"
	default:
		return "Neutral"
	}
}

func summaryLines(s mapSummary) []string {
	counts := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		counts = append(counts, fmt.Sprintf("%s %d", c, s.ByCategory[c]))
	}
	return []string{
		fmt.Sprintf("data_hash: %s", s.DataHash),
		fmt.Sprintf("scenarios: %d  choices: %d", s.Scenarios, s.Choices),
		"outcomes: " + strings.Join(counts, "  "),
	}
}

// --- png -------------------------------------------------------------------

func renderMapPNG(path string, layout mapLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	drawMapSummary(dc, layout)
	drawMapLegend(dc, layout)

	pos := layout.positions()
	dc.SetLineWidth(2)
	for _, e := range layout.Edges {
		x1, y1, x2, y2 := edgeEnds(pos[e.From], pos[e.To], e.Next)
		if e.Next {
			dc.SetColor(colorNextEdge)
			dc.SetDash(6, 4)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
			dc.SetDash()
			drawArrowHead(dc, x2, y2, 0, -8)
			continue
		}
		dc.SetColor(colorEdge)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		drawArrowHead(dc, x2, y2, -8, 0)
	}

	for _, n := range layout.Nodes {
		drawMapNode(dc, n)
	}

	return dc.SavePNG(path)
}

func drawMapNode(dc *gg.Context, n mapNode) {
	dc.SetColor(nodeFill(n))
	dc.DrawRoundedRectangle(n.X, n.Y, n.W, n.H, 8)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.2)
	dc.DrawRoundedRectangle(n.X, n.Y, n.W, n.H, 8)
	dc.Stroke()

	limit := int(n.W / 7.5)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(truncate(n.Label, limit), n.X+10, n.Y+20, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(truncate(n.Detail, limit), n.X+10, n.Y+38, 0, 0.5)
}

// drawArrowHead fills a triangle whose tip is (x, y) and whose base sits
// (dx, dy) behind it.
func drawArrowHead(dc *gg.Context, x, y, dx, dy float64) {
	dc.NewSubPath()
	dc.MoveTo(x, y)
	if dy == 0 {
		dc.LineTo(x+dx, y+4)
		dc.LineTo(x+dx, y-4)
	} else {
		dc.LineTo(x-4, y+dy)
		dc.LineTo(x+4, y+dy)
	}
	dc.ClosePath()
	dc.Fill()
}

func drawMapSummary(dc *gg.Context, layout mapLayout) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Summary.Title, 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	for i, line := range summaryLines(layout.Summary) {
		dc.DrawStringAnchored(line, 32, 64+float64(i)*20, 0, 0.5)
	}
}

func drawMapLegend(dc *gg.Context, layout mapLayout) {
	boxW, boxH := 180.0, 96.0
	x := float64(layout.Width) - boxW - 20
	y := 24.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Outcomes", x+12, y+18, 0, 0.5)
	for i, c := range model.Categories() {
		ry := y + 36 + float64(i)*16
		dc.SetColor(categoryFill(c))
		dc.DrawRoundedRectangle(x+12, ry-8, 14, 14, 3)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.DrawRoundedRectangle(x+12, ry-8, 14, 14, 3)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(legendLabel(c), x+32, ry, 0, 0.5)
	}
}

// --- svg -------------------------------------------------------------------

func renderMapSVG(path string, layout mapLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderMapSVGTo(file, layout)
}

func renderMapSVGTo(w io.Writer, layout mapLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	canvas.Text(32, 44, layout.Summary.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, line := range summaryLines(layout.Summary) {
		canvas.Text(32, 64+i*20, line, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	}

	lx, ly := layout.Width-200, 24
	canvas.Roundrect(lx, ly, 180, 96, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(lx+12, ly+18, "Outcomes", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, c := range model.Categories() {
		ry := ly + 36 + i*16
		canvas.Roundrect(lx+12, ry-8, 14, 14, 3, 3, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(categoryFill(c)), css(colorStroke)))
		canvas.Text(lx+32, ry+4, legendLabel(c), fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}

	pos := layout.positions()
	for _, e := range layout.Edges {
		fx1, fy1, fx2, fy2 := edgeEnds(pos[e.From], pos[e.To], e.Next)
		x1, y1, x2, y2 := int(fx1), int(fy1), int(fx2), int(fy2)
		if e.Next {
			canvas.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:2;stroke-dasharray:6,4", css(colorNextEdge)))
			canvas.Polygon([]int{x2, x2 - 4, x2 + 4}, []int{y2, y2 - 8, y2 - 8}, fmt.Sprintf("fill:%s", css(colorNextEdge)))
			continue
		}
		canvas.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:2", css(colorEdge)))
		canvas.Polygon([]int{x2, x2 - 8, x2 - 8}, []int{y2, y2 + 4, y2 - 4}, fmt.Sprintf("fill:%s", css(colorEdge)))
	}

	for _, n := range layout.Nodes {
		x, y := int(n.X), int(n.Y)
		limit := int(n.W / 7.5)
		canvas.Roundrect(x, y, int(n.W), int(n.H), 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(nodeFill(n)), css(colorStroke)))
		canvas.Text(x+10, y+22, truncate(n.Label, limit), fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
		canvas.Text(x+10, y+40, truncate(n.Detail, limit), fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
