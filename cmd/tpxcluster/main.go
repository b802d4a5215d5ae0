// Command tpxcluster decodes a raw TPX3 acquisition file, reconstructs
// physical events with the selected clustering algorithm, and reports (or
// persists) the resulting clusters.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/openbeamline/tpxcluster/internal/cluster"
	"github.com/openbeamline/tpxcluster/internal/clusterdb"
	"github.com/openbeamline/tpxcluster/internal/monitoring"
	"github.com/openbeamline/tpxcluster/internal/tpx3"
	"github.com/openbeamline/tpxcluster/internal/tuning"
)

var (
	inputPath  = flag.String("input", "", "Path to raw .tpx3 acquisition file (required)")
	algorithm  = flag.String("algorithm", "grid", "Clustering algorithm: grid, streaming or dbscan")
	radius     = flag.Float64("radius", cluster.DefaultRadius, "Spatial neighbor radius in pixels")
	window     = flag.Float64("window", cluster.DefaultTemporalWindow, "Temporal window in coarse ticks")
	minSize    = flag.Int("min-size", cluster.DefaultMinClusterSize, "Minimum cluster size")
	tuningPath = flag.String("tuning", "", "Optional JSON tuning file; explicit flags override it")
	workers    = flag.Int("workers", 1, "Worker count for the parallel grid path (grid only)")
	dbPath     = flag.String("db", "", "Optional SQLite file to persist results to")
	printMax   = flag.Int("print", 10, "Maximum clusters to print (0 disables)")
	verbose    = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	monitoring.SetDebug(*verbose)

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		log.Fatalf("tpxcluster: %v", err)
	}
}

func run() error {
	cfg, algo, nWorkers, err := resolveConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *inputPath, err)
	}
	store, err := tpx3.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", *inputPath, err)
	}
	if algo == cluster.AlgorithmStreaming {
		// The acquisition stream interleaves chips; restore global time
		// order before the single-pass algorithm sees it.
		store = tpx3.SortStore(store)
	}

	var (
		clusters []cluster.Cluster
		summary  cluster.RunSummary
		e        cluster.Engine
	)
	if algo == cluster.AlgorithmGrid && nWorkers > 1 {
		start := time.Now()
		clusters, err = cluster.ClusterParallel(store, cfg, nWorkers)
		if err != nil {
			return err
		}
		summary = cluster.RunSummary{
			RunID:       uuid.NewString(),
			Algorithm:   string(algo),
			HitsIn:      store.Len(),
			ClustersOut: len(clusters),
			Duration:    time.Since(start),
		}
		for _, c := range clusters {
			summary.HitsClustered += c.Size
		}
		summary.NoiseHits = summary.HitsIn - summary.HitsClustered
	} else {
		clusters, summary, err = e.ClusterWithSummary(store, cfg, algo)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%s: %d hits -> %d clusters (algorithm %s, radius %.2g, window %.2g, min size %d)\n",
		*inputPath, store.Len(), len(clusters), algo, cfg.Radius, cfg.TemporalWindow, cfg.MinClusterSize)

	for i, c := range clusters {
		if *printMax == 0 || i >= *printMax {
			fmt.Printf("... %d more\n", len(clusters)-i)
			break
		}
		f := cluster.ComputeFeatures(store, c)
		fmt.Printf("  #%d size=%d centroid=(%.2f, %.2f) tot=%d toa=[%d, %d] bbox=%gx%g\n",
			i, c.Size, c.CentroidX, c.CentroidY, c.TotalToT, c.TimeMin, c.TimeMax,
			f.BBoxWidth, f.BBoxHeight)
	}

	if *dbPath != "" {
		db, err := clusterdb.Open(*dbPath)
		if err != nil {
			return fmt.Errorf("failed to open result db: %w", err)
		}
		defer db.Close()
		if err := db.SaveRun(summary, cfg, clusters); err != nil {
			return fmt.Errorf("failed to persist run: %w", err)
		}
		fmt.Printf("persisted run %s to %s\n", summary.RunID, *dbPath)
	}
	return nil
}

// resolveConfig layers the configuration sources: defaults, then the tuning
// file, then any flag the user set explicitly.
func resolveConfig() (cluster.Config, cluster.Algorithm, int, error) {
	cfg := cluster.DefaultConfig()
	algo := cluster.Algorithm(*algorithm)
	nWorkers := *workers

	if *tuningPath != "" {
		tun, err := tuning.Load(*tuningPath)
		if err != nil {
			return cluster.Config{}, "", 0, err
		}
		cfg, err = tun.Config()
		if err != nil {
			return cluster.Config{}, "", 0, err
		}
		algo = tun.AlgorithmOr(algo)
		nWorkers = tun.WorkersOr(nWorkers)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "radius":
			cfg.Radius = *radius
		case "window":
			cfg.TemporalWindow = *window
		case "min-size":
			cfg.MinClusterSize = *minSize
		case "algorithm":
			algo = cluster.Algorithm(*algorithm)
		case "workers":
			nWorkers = *workers
		}
	})

	if err := cfg.Validate(); err != nil {
		return cluster.Config{}, "", 0, err
	}
	return cfg, algo, nWorkers, nil
}
