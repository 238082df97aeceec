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

package types

import (
	"fmt"
	"sort"
	"strings"
)

// Filter is an equality filter keyed by column name. A slice value matches any
// of its elements; an empty slice matches nothing. An empty Filter matches every row.
type Filter map[string]interface{}

// ByID is the filter selecting a single row by primary key.
func ByID(id int64) Filter {
	return Filter{"id": id}
}

// ByIDs selects the rows whose primary key is in ids.
func ByIDs(ids []int64) Filter {
	return Filter{"id": ids}
}

// Keys returns the filter columns in a stable order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f Filter) String() string {
	parts := make([]string, 0, len(f))
	for _, k := range f.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
