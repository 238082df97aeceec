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

	"github.com/uptrace/bun"
)

// Open loads the configuration, connects, and creates missing tables when
// configured to. The returned factory owns the connection; the caller hands
// the *bun.DB to repositories and services and closes the factory on shutdown.
func Open(ctx context.Context, cfg *Config) (*BaseDatabaseFactory, *bun.DB, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("database configuration cannot be empty")
	}
	factory := NewDatabaseFactory()
	if _, err := factory.CreateFromConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := factory.InitializeDatabase(ctx, cfg.BootstrapConfig.CreateTablesOnStartup); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return factory, factory.GetDB(), nil
}

// OpenFile is Open with the configuration read from a yaml file.
func OpenFile(ctx context.Context, path string) (*BaseDatabaseFactory, *bun.DB, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	return Open(ctx, cfg)
}
