// Command cluster-plot renders the clusters found in a TPX3 acquisition as a
// pixel-plane scatter plot, one color per cluster, with centroids marked.
// Useful for eyeballing radius/window tuning against real data.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/openbeamline/tpxcluster/internal/cluster"
	"github.com/openbeamline/tpxcluster/internal/tpx3"
)

var (
	inputPath = flag.String("input", "", "Path to raw .tpx3 acquisition file (required)")
	outPath   = flag.String("out", "clusters.png", "Output PNG path")
	algorithm = flag.String("algorithm", "grid", "Clustering algorithm: grid, streaming or dbscan")
	radius    = flag.Float64("radius", cluster.DefaultRadius, "Spatial neighbor radius in pixels")
	window    = flag.Float64("window", cluster.DefaultTemporalWindow, "Temporal window in coarse ticks")
	minSize   = flag.Int("min-size", cluster.DefaultMinClusterSize, "Minimum cluster size")
)

func main() {
	flag.Parse()
	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		log.Fatalf("cluster-plot: %v", err)
	}
}

func run() error {
	data, err := os.ReadFile(*inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *inputPath, err)
	}
	store, err := tpx3.Decode(data)
	if err != nil {
		return err
	}

	algo := cluster.Algorithm(*algorithm)
	if algo == cluster.AlgorithmStreaming {
		store = tpx3.SortStore(store)
	}
	cfg := cluster.Config{Radius: *radius, TemporalWindow: *window, MinClusterSize: *minSize}
	clusters, err := cluster.Engine{}.Cluster(store, cfg, algo)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %d clusters (%s)", *inputPath, len(clusters), algo)
	p.X.Label.Text = "pixel x"
	p.Y.Label.Text = "pixel y"

	centroids := make(plotter.XYs, 0, len(clusters))
	for i, c := range clusters {
		pts := make(plotter.XYs, 0, c.Size)
		for _, idx := range c.Members {
			h := store.At(idx)
			pts = append(pts, plotter.XY{X: float64(h.X), Y: float64(h.Y)})
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = clusterColor(i)
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(scatter)

		centroids = append(centroids, plotter.XY{X: c.CentroidX, Y: c.CentroidY})
	}

	marks, err := plotter.NewScatter(centroids)
	if err != nil {
		return err
	}
	marks.GlyphStyle.Color = color.Black
	marks.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(marks)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	fmt.Printf("wrote %s (%d clusters)\n", *outPath, len(clusters))
	return nil
}

// clusterColor cycles a fixed palette so adjacent clusters stay visually
// distinct without depending on cluster count.
func clusterColor(i int) color.Color {
	palette := []color.RGBA{
		{R: 214, G: 39, B: 40, A: 255},
		{R: 31, G: 119, B: 180, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 148, G: 103, B: 189, A: 255},
		{R: 140, G: 86, B: 75, A: 255},
		{R: 227, G: 119, B: 194, A: 255},
		{R: 23, G: 190, B: 207, A: 255},
	}
	return palette[i%len(palette)]
}
