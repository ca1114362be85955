package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/pathfollower/repository"
)

// WatchAction prints every path that is written or removed until the command is interrupted.
func WatchAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		infof(c.App.ErrWriter, "watching %s", s.repo.Dir())
		err := s.repo.Watch(c.Context, s.logger, func(ch repository.Change) {
			if ch.Removed {
				printf(c.App.Writer, "removed %s", ch.Name)
				return
			}
			printf(c.App.Writer, "changed %s", ch.Name)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}
