package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/storage"
)

// bootstrapStatements creates the schema and table and adds the columns
// introduced after the first release. Every statement is idempotent.
func bootstrapStatements(schema, table string) []string {
	return []string{
		fmt.Sprintf(`create schema if not exists %s`, pgx.Identifier{schema}.Sanitize()),
		fmt.Sprintf(`create table if not exists %s (
	"id" bigserial primary key,
	"nome_rua" varchar(120) not null,
	"numero" varchar(10) not null,
	"bairro" varchar(80) not null
)`, tableName(schema, table)),
		fmt.Sprintf(`alter table %s
	add column if not exists "latitude" numeric(9,6),
	add column if not exists "longitude" numeric(9,6),
	add column if not exists "foto_path" text,
	add column if not exists "situacoes" text,
	add column if not exists "criado_em" timestamptz default now()`, tableName(schema, table)),
	}
}

// Bootstrap runs the DDL in a single transaction.
func (s *Storage) Bootstrap(ctx context.Context) error {
	stmts := bootstrapStatements(s.conf.DBSchema, s.conf.TableName)
	err := s.db().BeginFunc(ctx, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logging.Error(ctx, err, logging.Data{"schema": s.conf.DBSchema, "table": s.conf.TableName}, "bootstrap failed")
		return storage.ErrStorage
	}
	logging.Info(ctx, logging.Data{"schema": s.conf.DBSchema, "table": s.conf.TableName}, "bootstrap done")
	return nil
}
