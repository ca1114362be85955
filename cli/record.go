package cli

import (
	"bufio"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/tracker"
)

// RecordAction records the poses read from stdin into a path, keeping only novel ones.
func RecordAction(c *cli.Context) error {
	return withSession(c, func(s *session) (err error) {
		name, err := s.nameArg()
		if err != nil {
			return err
		}
		tr := tracker.New(s.repo, s.trackerOptions(), s.logger)
		if err := tr.RecordTo(name); err != nil {
			return err
		}
		defer func() {
			err = multierr.Combine(err, tr.Stop())
		}()

		var read, skipped int
		scanner := bufio.NewScanner(c.App.Reader)
		for scanner.Scan() {
			pose, ok := route.ParsePose(scanner.Text())
			if !ok {
				skipped++
				continue
			}
			read++
			tr.PutPose(pose)
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, "reading poses")
		}
		if err := tr.Stop(); err != nil {
			return err
		}
		kept, err := s.repo.Read(name)
		if err != nil {
			return err
		}
		if skipped > 0 {
			warningf(c.App.ErrWriter, "skipped %d malformed lines", skipped)
		}
		infof(c.App.Writer, "recorded %d of %d poses into %s", len(kept), read, name)
		return nil
	})
}

func (s *session) trackerOptions() tracker.Options {
	return tracker.Options{Follow: s.cfg.Follow, Thresholds: s.cfg.Record}
}
