package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sanonone/kektortree/pkg/config"
	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/engine"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	pointsPath string
	random     int
	dim        int
	seed       uint64
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:          "kektortree",
		Short:        "Build and query orthtrees over point clouds",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&g.pointsPath, "points", "p", "", "file with one point per line (comma or space separated)")
	pf.IntVar(&g.random, "random", 0, "index N uniformly random points instead of a file")
	pf.IntVar(&g.dim, "dim", 3, "dimension of random points")
	pf.Uint64Var(&g.seed, "seed", 1, "seed for random points")
	pf.StringVar(&g.logLevel, "log-level", "", "override log.level from the configuration")

	root.AddCommand(newBuildCmd(&g), newLocateCmd(&g), newNearestCmd(&g))
	return root
}

// session is what every subcommand starts from: a loaded configuration and an
// engine holding the requested points under the configured index name.
type session struct {
	cfg    config.Config
	log    zerolog.Logger
	engine *engine.Engine
	name   string
	points []geom.Point
}

func (g *globalFlags) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	points, err := g.loadPoints()
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("points", len(points)).Msg("points loaded")

	e := engine.New(engine.OptionsFromConfig(cfg, logger))
	if _, err := e.Create(cfg.Metrics.IndexName, points); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: logger, engine: e, name: cfg.Metrics.IndexName, points: points}, nil
}

func (g *globalFlags) loadPoints() ([]geom.Point, error) {
	switch {
	case g.pointsPath != "" && g.random > 0:
		return nil, fmt.Errorf("--points and --random are mutually exclusive")
	case g.pointsPath != "":
		return readPointsFile(g.pointsPath)
	case g.random > 0:
		if g.dim < 1 {
			return nil, fmt.Errorf("--dim must be positive")
		}
		return randomPoints(g.random, g.dim, g.seed), nil
	}
	return nil, fmt.Errorf("one of --points or --random is required")
}

func randomPoints(n, dim int, seed uint64) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pts := make([]geom.Point, n)
	for i := range pts {
		p := make(geom.Point, dim)
		for j := range p {
			p[j] = rng.Float64()
		}
		pts[i] = p
	}
	return pts
}
