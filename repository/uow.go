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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomoncle/iws/database"
	"github.com/tomoncle/iws/utils"
	"github.com/uptrace/bun"
	"go.uber.org/multierr"
)

// State is a step of the unit of work lifecycle.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateWork
	StateCommitted
	StateRolledBack
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateWork:
		return "WORK"
	case StateCommitted:
		return "COMMIT"
	case StateRolledBack:
		return "ROLLBACK"
	case StateClosed:
		return "CLOSED"
	default:
		return "IDLE"
	}
}

// UnitOfWork wraps one transaction: OPEN, WORK, then COMMIT or ROLLBACK, then CLOSED.
// A UnitOfWork runs once.
type UnitOfWork struct {
	provider SessionProvider
	name     string
	logger   database.Logger

	mu    sync.Mutex
	trail []State
}

// NewUnitOfWork returns an idle unit of work named for logging.
func NewUnitOfWork(provider SessionProvider, name string) *UnitOfWork {
	return &UnitOfWork{provider: provider, name: name, logger: database.GetLogger()}
}

// State returns the current state.
func (u *UnitOfWork) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.trail) == 0 {
		return StateIdle
	}
	return u.trail[len(u.trail)-1]
}

// Trail returns every state entered so far.
func (u *UnitOfWork) Trail() []State {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]State, len(u.trail))
	copy(out, u.trail)
	return out
}

func (u *UnitOfWork) enter(s State) {
	u.mu.Lock()
	u.trail = append(u.trail, s)
	u.mu.Unlock()
}

// Run opens a transaction and runs work inside it. The transaction commits when
// work returns nil and rolls back on an error or a panic. A failed rollback is
// logged and combined with the work error; a panic is re-raised after CLOSED.
func (u *UnitOfWork) Run(ctx context.Context, work func(ctx context.Context, tx bun.Tx) error) (err error) {
	if u.State() != StateIdle {
		return fmt.Errorf("unit of work %s already used", u.name)
	}
	start := time.Now()
	tx, err := u.provider.BeginTx(ctx, nil)
	if err != nil {
		u.enter(StateClosed)
		u.logger.Error("unit of work begin failed", "uow", u.name, "error", err)
		return err
	}
	u.enter(StateOpen)

	committed := false
	defer func() {
		recovered := recover()
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				u.logger.Error("unit of work rollback failed", "uow", u.name, "error", rbErr)
				err = multierr.Append(err, rbErr)
			}
			u.enter(StateRolledBack)
		}
		u.enter(StateClosed)
		u.logger.Debug("unit of work closed", "uow", u.name, "committed", committed, "elapsed", utils.Since(start))
		if recovered != nil {
			panic(recovered)
		}
	}()

	u.enter(StateWork)
	if err = work(ctx, tx); err != nil {
		u.logger.Debug("unit of work failed", "uow", u.name, "error", err)
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	u.enter(StateCommitted)
	return nil
}
