/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/tomoncle/iws/utils"
	"github.com/uptrace/bun"
)

// TableBootstrapper creates the tables of the registered models when they are
// missing. It never alters or drops an existing table.
type TableBootstrapper struct {
	db     *bun.DB
	fkm    *ForeignKeyManager
	logger Logger
}

func NewTableBootstrapper(db *bun.DB, logger Logger) *TableBootstrapper {
	if logger == nil {
		logger = GetLogger()
	}
	RegisterModels(db)
	return &TableBootstrapper{db: db, fkm: NewForeignKeyManager(logger), logger: logger}
}

// WithForeignKeyFile adds the constraints listed in a yaml file.
func (tb *TableBootstrapper) WithForeignKeyFile(path string) error {
	if path == "" {
		return nil
	}
	return tb.fkm.LoadFile(path)
}

// CreateTables creates every registered table in priority order inside one transaction.
func (tb *TableBootstrapper) CreateTables(ctx context.Context) error {
	start := time.Now()
	tx, err := tb.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	var committed bool
	defer func(tx bun.Tx) {
		if !committed {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				tb.logger.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}(tx)

	for _, model := range RegisteredModelInstances() {
		table := tb.db.Table(reflect.TypeOf(model).Elem())
		q := tx.NewCreateTable().Model(model).IfNotExists()
		for _, fk := range tb.fkm.GetConstraintsByTable(table.Name) {
			q = q.ForeignKey(fk.Clause())
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	tb.logger.Info("Database tables ready", "tables", len(RegisteredModelInstances()), "elapsed", utils.Since(start))
	return nil
}

// DropTables drops every registered table in reverse priority order.
func (tb *TableBootstrapper) DropTables(ctx context.Context) error {
	models := RegisteredModelInstances()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := tb.db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table %T: %w", models[i], err)
		}
	}
	return nil
}
