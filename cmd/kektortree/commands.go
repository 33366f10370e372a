package main

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
)

func newBuildCmd(g *globalFlags) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an index and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			info, err := s.engine.Info(s.name)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			if dump {
				return s.engine.Dump(s.name, cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print every node of the tree")
	return cmd
}

func newLocateCmd(g *globalFlags) *cobra.Command {
	var point string
	var neighbors bool
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the leaf containing a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(point)
			if err != nil {
				return err
			}
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			leaf, nbs, err := s.engine.Neighbors(s.name, p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "leaf #%d depth=%d coords=%v bbox=%v points=%d\n", leaf.Node, leaf.Depth, leaf.Coords, leaf.Bbox, leaf.Points)
			if neighbors {
				for _, nb := range nbs {
					fmt.Fprintf(out, "  neighbour #%d depth=%d coords=%v leaf=%t\n", nb.Node, nb.Depth, nb.Coords, nb.Leaf)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&point, "point", "", "point to locate, e.g. 0.5,0.5,0.5")
	cmd.Flags().BoolVar(&neighbors, "neighbors", false, "also print face neighbours")
	_ = cmd.MarkFlagRequired("point")
	return cmd
}

func newNearestCmd(g *globalFlags) *cobra.Command {
	var point string
	var k int
	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Print the k points closest to a query point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parsePoint(point)
			if err != nil {
				return err
			}
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			near, err := s.engine.Nearest(s.name, q, k)
			if err != nil {
				return err
			}
			for _, c := range near {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%g\t%v\n", c.Id, c.Distance, s.points[c.Id])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&point, "point", "", "query point, e.g. 0.5,0.5,0.5")
	cmd.Flags().IntVarP(&k, "k", "k", 5, "number of neighbours")
	_ = cmd.MarkFlagRequired("point")
	return cmd
}
