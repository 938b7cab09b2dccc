package vectorutils

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/vector"
	"github.com/loomkb/loom/pkg/vector/memvec"
	"github.com/loomkb/loom/pkg/vector/pgvec"
	"github.com/loomkb/loom/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	Target       string
	Dimensions   int
	Logger       *zap.Logger
}

func NewVectorDriver(ctx context.Context, o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "memory":
		return memvec.NewDriver(memvec.Config{
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "sqlite":
		return sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "postgres":
		return pgvec.NewPgVecDriver(ctx, pgvec.Config{
			DSN:        o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
