package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/pathfollower/config"
	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/repository"
	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
)

// session is what every command needs: the configuration, a logger and the repository.
type session struct {
	c        *cli.Context
	cfg      *config.Config
	logger   logging.Logger
	repo     *repository.Repository
	closeLog func() error
}

func newSession(c *cli.Context) (*session, error) {
	cfg := config.Default()
	if path := c.String(configFlag); path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, errors.Wrapf(err, "reading config %q", path)
		}
	}
	if dir := c.String(repoFlag); dir != "" {
		cfg.Repository = dir
	}

	if c.Bool(debugFlag) {
		cfg.Log.Level = "debug"
	}
	registry := logging.NewRegistry()
	logger := registry.NewLogger("pathfollower", logging.INFO, logging.NewWriterAppender(c.App.ErrWriter))
	closeLog, err := cfg.Log.Apply(registry, logger)
	if err != nil {
		return nil, err
	}

	repo, err := repository.New(cfg.Repository)
	if err != nil {
		return nil, multierr.Combine(err, closeLog())
	}
	logger.Debugw("session started", "repository", repo.Dir(), "config", cfg.ConfigFilePath)
	return &session{c: c, cfg: cfg, logger: logger, repo: repo, closeLog: closeLog}, nil
}

func (s *session) Close() error {
	return multierr.Combine(s.logger.Sync(), s.closeLog())
}

// nameArg returns the single path name argument.
func (s *session) nameArg() (string, error) {
	if s.c.Args().Len() != 1 {
		return "", errors.New("expected exactly one path name")
	}
	return s.c.Args().First(), nil
}

// load reads and segments the named path.
func (s *session) load(name string) ([]spatialmath.Pose, *route.Path, error) {
	poses, err := s.repo.Read(name)
	if err != nil {
		return nil, nil, err
	}
	p := s.cfg.Follow
	return poses, route.Build(poses, p.LightRadius, p.TipIgnore), nil
}

// withSession runs action with a session that is closed afterwards.
func withSession(c *cli.Context, action func(*session) error) (err error) {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()
	return action(s)
}
