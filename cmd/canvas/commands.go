package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"canvas/config"
	"canvas/resolve"
	"canvas/settings"
	"canvas/state"
	"canvas/store/sqlstore"
)

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputting configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

func outputSettings(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		fname = env.Cfg.Parser.FieldPath
	}
	if len(fname) == 0 {
		return errors.New("no field definition has been specified")
	}

	field, err := settings.LoadField(fname)
	if err != nil {
		return err
	}
	s := settings.Compile(field)
	env.Rpt.Store("field", fname)
	env.Log.Info("Field compiled", zap.String("field", field.ID), zap.Int("settings", len(s.Keys())))

	if _, err := fmt.Fprintln(os.Stdout, s.String()); err != nil {
		return fmt.Errorf("unable to write settings: %w", err)
	}
	return nil
}

func importFixture(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		return errors.New("no fixture has been specified")
	}
	db := cmd.String("db")
	if len(db) == 0 {
		db = env.Cfg.Resolver.Sqlite.Path
	}

	fixture, err := resolve.LoadFixture(fname)
	if err != nil {
		return err
	}
	env.Rpt.Store("fixture", fname)

	s, err := sqlstore.Open(ctx, db, env.Cfg.Resolver.Sqlite.PoolSize, env.Log)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	c, err := s.Import(ctx, fixture)
	if err != nil {
		return fmt.Errorf("unable to import fixture: %w", err)
	}
	total, err := s.Count(ctx)
	if err != nil {
		return fmt.Errorf("unable to count records: %w", err)
	}
	env.Log.Info("Fixture imported", zap.String("db", db),
		zap.Int("nodes", c.Nodes), zap.Int("entries", c.Entries), zap.Int("assets", c.Assets),
		zap.Int("total", total.Nodes+total.Entries+total.Assets))
	return nil
}
