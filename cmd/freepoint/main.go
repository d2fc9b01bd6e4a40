// Command freepoint checks and corrects points against a ROS occupancy
// grid map from the command line.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/seqsense/pcgol/mat"
	"github.com/spf13/cobra"

	"github.com/seqsense/freepoint"
	"github.com/seqsense/freepoint/occgrid"
)

var (
	mapFile           string
	robotRadius       float32
	maxDistance       float32
	distanceIncrement float32
	angleIncrement    float32
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "freepoint",
		Short:         "Find the closest free point on an occupancy grid map",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&mapFile, "map", "", "map YAML file (required)")
	pf.Float32Var(&robotRadius, "robot-radius", freepoint.DefaultRobotRadius, "robot radius in meters")
	pf.Float32Var(&maxDistance, "max-distance", freepoint.DefaultMaxDistance, "max search distance in meters")
	pf.Float32Var(&distanceIncrement, "distance-increment", 0, "radial step in meters (default: map resolution)")
	pf.Float32Var(&angleIncrement, "angle-increment", freepoint.DefaultAngleIncrement, "angular step in degrees")
	rootCmd.MarkPersistentFlagRequired("map")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "isfree X Y",
			Short: "Check whether a point is free",
			Args:  cobra.ExactArgs(2),
			RunE:  runIsFree,
		},
		&cobra.Command{
			Use:   "closest X Y",
			Short: "Find the closest free point to a point",
			Args:  cobra.ExactArgs(2),
			RunE:  runClosest,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "freepoint:", err)
		os.Exit(1)
	}
}

func newFinder() (*freepoint.Finder, error) {
	g, err := occgrid.LoadFile(mapFile)
	if err != nil {
		return nil, err
	}
	opts := []freepoint.Option{
		freepoint.WithRobotRadius(robotRadius),
		freepoint.WithMaxDistance(maxDistance),
		freepoint.WithAngleIncrement(angleIncrement),
	}
	if distanceIncrement != 0 {
		opts = append(opts, freepoint.WithDistanceIncrement(distanceIncrement))
	}
	return freepoint.New(g, opts...)
}

func parsePoint(args []string) (mat.Vec3, error) {
	x, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return mat.Vec3{}, err
	}
	y, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return mat.Vec3{}, err
	}
	return mat.Vec3{float32(x), float32(y), 0}, nil
}

func runIsFree(cmd *cobra.Command, args []string) error {
	p, err := parsePoint(args)
	if err != nil {
		return err
	}
	f, err := newFinder()
	if err != nil {
		return err
	}
	if f.IsFree(p) {
		fmt.Printf("point (%g, %g) is free\n", p[0], p[1])
	} else {
		fmt.Printf("point (%g, %g) is not free\n", p[0], p[1])
	}
	return nil
}

func runClosest(cmd *cobra.Command, args []string) error {
	p, err := parsePoint(args)
	if err != nil {
		return err
	}
	f, err := newFinder()
	if err != nil {
		return err
	}
	q, ok := f.ClosestFreePoint(p)
	if !ok {
		fmt.Println("no free point found")
		return nil
	}
	fmt.Printf("closest free point to (%g, %g) is (%g, %g)\n", p[0], p[1], q[0], q[1])
	return nil
}
