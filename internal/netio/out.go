package netio

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/evolbioinfo/gotree/tree"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	gr "github.com/jsdoublel/sdag/internal/graphs"
)

var (
	plotLineColor  = color.RGBA{R: 37, G: 150, B: 190, A: 255}
	plotMarkerShap = draw.SquareGlyph{}
)

const (
	plotH = 4 * vg.Inch
	plotW = 6 * vg.Inch

	maxTicks = 10
)

// GotreeFromTopology converts a sampled topology into a gotree tree with the
// DAG's taxon names at the tips.
func GotreeFromTopology(dag *gr.SubsplitDAG, top *gr.Node) *tree.Tree {
	tre := tree.NewTree()
	root := tre.NewNode()
	tre.SetRoot(root)
	attachTopology(tre, dag, top, root)
	return tre
}

func attachTopology(tre *tree.Tree, dag *gr.SubsplitDAG, top *gr.Node, cur *tree.Node) {
	if top.IsLeaf() {
		cur.SetName(dag.TaxonName(top.ID()))
		return
	}
	for _, child := range top.Children() {
		n := tre.NewNode()
		tre.ConnectNodes(cur, n)
		attachTopology(tre, dag, child, n)
	}
}

// TopologyNewick renders a sampled topology as a rooted newick string.
func TopologyNewick(dag *gr.SubsplitDAG, top *gr.Node) string {
	return GotreeFromTopology(dag, top).Newick()
}

// WriteTopologies writes each sampled topology as one newick line.
func WriteTopologies(w io.Writer, dag *gr.SubsplitDAG, topologies []*gr.Node) error {
	for _, top := range topologies {
		if _, err := fmt.Fprintln(w, TopologyNewick(dag, top)); err != nil {
			return fmt.Errorf("%w, %s", ErrWritingFile, err.Error())
		}
	}
	return nil
}

// WriteFrequencyPlot plots sampled topology counts by frequency rank and
// saves the plot to <prefix>.png.
func WriteFrequencyPlot(counts map[string]int, prefix string) error {
	freqs := make([]int, 0, len(counts))
	for _, c := range counts {
		freqs = append(freqs, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(freqs)))
	p := plot.New()
	p.X.Label.Text = "Topology Rank"
	p.Y.Label.Text = "Sample Count"
	p.X.Min = 1
	p.X.Max = float64(len(freqs))
	p.X.Tick.Marker = plot.TickerFunc(func(_, max float64) []plot.Tick {
		step := 1
		if int(max) > maxTicks {
			step = int(math.Ceil(max / maxTicks))
		}
		ticks := make([]plot.Tick, 0, int(max)/step+2)
		for i := 1; i <= int(max); i++ {
			if i%step == 0 {
				ticks = append(ticks, plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
			} else {
				ticks = append(ticks, plot.Tick{Value: float64(i)})
			}
		}
		return ticks
	})
	p.Y.Min = 0
	pts := make(plotter.XYs, len(freqs))
	for i, c := range freqs {
		pts[i].X = float64(i + 1)
		pts[i].Y = float64(c)
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = plotLineColor
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	points.Color = plotLineColor
	points.Shape = plotMarkerShap
	points.Radius = vg.Points(4)
	p.Add(line, points)
	return p.Save(plotW, plotH, fmt.Sprintf("%s.png", prefix))
}
