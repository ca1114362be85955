package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/route/routeplot"
	"go.viam.com/pathfollower/spatialmath"
	"go.viam.com/pathfollower/utils"
)

// ListAction prints every stored path with its size.
func ListAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		names, err := s.repo.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			warningf(c.App.Writer, "no paths in %s", s.repo.Dir())
			return nil
		}
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Name", "Points", "Segments", "Length (m)"})
		for _, name := range names {
			_, p, err := s.load(name)
			if err != nil {
				warningf(c.App.ErrWriter, "skipping %s: %v", name, err)
				continue
			}
			stats := route.ComputeStats(p)
			t.AppendRow(table.Row{name, stats.Points, p.NumSegments(), fmt.Sprintf("%.2f", stats.Length)})
		}
		printf(c.App.Writer, "%s", t.Render())
		return nil
	})
}

// ShowAction prints the segments of a path along with spacing statistics.
func ShowAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		name, err := s.nameArg()
		if err != nil {
			return err
		}
		poses, p, err := s.load(name)
		if err != nil {
			return err
		}
		stats := route.ComputeStats(p)

		t := table.NewWriter()
		t.AppendHeader(table.Row{"#", "Points", "Length (m)", "Start", "End"})
		for i, seg := range p.Segments() {
			t.AppendRow(table.Row{
				i,
				stats.Segments[i].Points,
				fmt.Sprintf("%.2f", stats.Segments[i].Length),
				formatPose(seg[0]),
				formatPose(seg[len(seg)-1]),
			})
		}
		t.AppendFooter(table.Row{"", stats.Points, fmt.Sprintf("%.2f", stats.Length), "", ""})
		printf(c.App.Writer, "%s", t.Render())

		printf(c.App.Writer, "recorded %d waypoints, kept %d in %d segments", len(poses), stats.Points, p.NumSegments())
		if stats.Points > 1 {
			printf(c.App.Writer, "spacing mean %.3f m, median %.3f m, stddev %.3f m; longest segment #%d",
				stats.MeanSpacing, stats.MedianSpacing, stats.SpacingStdDev, stats.LongestSegment)
		}
		return nil
	})
}

// PlotAction renders a segmented path to an image file.
func PlotAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		name, err := s.nameArg()
		if err != nil {
			return err
		}
		_, p, err := s.load(name)
		if err != nil {
			return err
		}
		out := c.String(outFlag)
		if err := routeplot.Save(out, name, p, nil); err != nil {
			return err
		}
		infof(c.App.Writer, "wrote %s", out)
		return nil
	})
}

// DeleteAction removes a path from the repository.
func DeleteAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		name, err := s.nameArg()
		if err != nil {
			return err
		}
		if err := s.repo.Delete(name); err != nil {
			return err
		}
		infof(c.App.Writer, "deleted %s", name)
		return nil
	})
}

func formatPose(p spatialmath.Pose) string {
	return fmt.Sprintf("(%.2f, %.2f, %.0f°)", p.X(), p.Y(), utils.RadToDeg(p.Theta))
}
