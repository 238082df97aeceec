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

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Operation is the kind of write a payload is validated for.
type Operation int

const (
	OperationCreate Operation = iota
	OperationRead
	OperationUpdate
	OperationDelete
)

var operationNames = [...]string{"CREATE", "READ", "UPDATE", "DELETE"}

var operationDescs = [...]string{
	"insert a new record",
	"read records",
	"merge provided fields into an existing record",
	"remove an existing record",
}

var _ BaseEnum = OperationCreate

func (o Operation) IsValid() bool {
	return o >= OperationCreate && o <= OperationDelete
}

func (o Operation) Number() int {
	if !o.IsValid() {
		return IllegalValue
	}
	return int(o)
}

func (o Operation) String() string {
	return o.Name()
}

func (o Operation) Desc() string {
	if !o.IsValid() {
		return IllegalDesc
	}
	return operationDescs[o]
}

func (o Operation) Name() string {
	if !o.IsValid() {
		return IllegalName
	}
	return operationNames[o]
}

// ParseOperation resolves an operation by name, case-insensitively.
func ParseOperation(name string) (Operation, bool) {
	for i, n := range operationNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Operation(i), true
		}
	}
	return Operation(IllegalValue), false
}
