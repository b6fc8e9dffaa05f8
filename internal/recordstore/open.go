package recordstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRemote   = "remote"
)

type Options struct {
	Driver string
	DSN    string
	Remote RemoteConfig
	// Tables get their own metrics label, see Instrument.
	Tables []string
}

// Open builds the configured backend wrapped with metrics.
func Open(ctx context.Context, opts Options, log *zap.Logger) (Client, error) {
	var (
		c   Client
		err error
	)
	switch opts.Driver {
	case "", DriverMemory:
		c = NewMemory()
	case DriverPostgres:
		c, err = OpenSQL(ctx, DialectPostgres, opts.DSN, log)
	case DriverSQLite:
		c, err = OpenSQL(ctx, DialectSQLite, opts.DSN, log)
	case DriverRemote:
		c, err = NewRemote(opts.Remote, log)
	default:
		return nil, fmt.Errorf("unknown record store driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c, opts.Tables...), nil
}
