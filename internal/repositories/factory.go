package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zdziszkee/swiftcodes/internal/database"
)

// Open connects to the configured database and returns the matching
// repository together with a function releasing the connection.
func Open(ctx context.Context, cfg database.Config) (SwiftCodeRepository, func() error, error) {
	switch cfg.Type {
	case database.TypeSQLite:
		gdb, err := database.OpenSQLite(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewGormSwiftCodeRepository(gdb, cfg.TableName)
		if err != nil {
			_ = database.CloseGorm(gdb)
			return nil, nil, err
		}
		return repo, func() error { return database.CloseGorm(gdb) }, nil

	case database.TypePostgres, database.TypeTrino:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Type == database.TypeTrino {
			log.Warn().Str("table", cfg.QualifiedTableName()).
				Msg("trino tables do not enforce primary keys; codes are kept unique only for writes made by this process")
		}
		return NewSQLSwiftCodeRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
