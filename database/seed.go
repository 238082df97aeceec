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
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// SeedFile is one ordered SQL file of a seed directory.
type SeedFile struct {
	Path  string
	Name  string
	Order int
}

// SeedResult is the outcome of one seed file.
type SeedResult struct {
	File         string
	Statements   int
	RowsAffected int64
	Duration     time.Duration
}

// Seeder loads reference data from "<order>_<name>.sql" files. Files run in
// ascending order, each inside its own transaction.
type Seeder struct {
	db     *bun.DB
	dir    string
	logger Logger
}

var seedOrderPattern = regexp.MustCompile(`^(\d+)_`)

func NewSeeder(db *bun.DB, dir string, logger Logger) *Seeder {
	if logger == nil {
		logger = GetLogger()
	}
	return &Seeder{db: db, dir: dir, logger: logger}
}

// Run executes every seed file and stops at the first failing one.
func (s *Seeder) Run(ctx context.Context) ([]SeedResult, error) {
	files, err := s.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to list seed files: %w", err)
	}
	results := make([]SeedResult, 0, len(files))
	for _, file := range files {
		result, err := s.execute(ctx, file)
		if err != nil {
			s.logger.Error("Seed file failed", "file", file.Name, "error", err)
			return results, fmt.Errorf("seed file %s: %w", file.Name, err)
		}
		s.logger.Info("Seed file executed", "file", file.Name, "statements", result.Statements,
			"rows_affected", result.RowsAffected, "duration", result.Duration.String())
		results = append(results, result)
	}
	return results, nil
}

// Files lists the .sql files of the seed directory in execution order.
// Files without a numeric prefix run last, by name.
func (s *Seeder) Files() ([]SeedFile, error) {
	var files []SeedFile
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		files = append(files, SeedFile{Path: path, Name: d.Name(), Order: seedOrder(d.Name())})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (s *Seeder) execute(ctx context.Context, file SeedFile) (SeedResult, error) {
	start := time.Now()
	result := SeedResult{File: file.Path}
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return result, err
	}
	statements := SplitStatements(string(content))
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range statements {
			res, err := tx.ExecContext(ctx, stmt)
			if err != nil {
				return fmt.Errorf("failed to execute %q: %w", stmt, err)
			}
			n, _ := res.RowsAffected()
			result.RowsAffected += n
		}
		return nil
	})
	result.Statements = len(statements)
	result.Duration = time.Since(start)
	return result, err
}

func seedOrder(name string) int {
	m := seedOrderPattern.FindStringSubmatch(name)
	if len(m) < 2 {
		return 999
	}
	order, err := strconv.Atoi(m[1])
	if err != nil {
		return 999
	}
	return order
}

// SplitStatements splits a script on statement-ending semicolons at line end.
// Blank lines and "--" comment lines are dropped.
func SplitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			flush()
		}
	}
	flush()
	return statements
}
