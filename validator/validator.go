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

// Package validator checks models against the rules of an operation and
// reports every violated rule at once.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tomoncle/iws/model"
	"github.com/tomoncle/iws/types"
)

// Validator validates models of one entity kind.
type Validator struct {
	tag      model.Tag
	validate *validator.Validate
}

// New returns a validator for the entity identified by tag. Rules come from
// the `validate` struct tags of the model.
func New(tag model.Tag) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			name = strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{tag: tag, validate: v}
}

// Validate checks m for op. CREATE runs every field rule, including the rules
// of nested collections, and rejects a client-supplied id; UPDATE only requires
// the identity. All violations are returned together in one
// *types.ValidationError.
func (v *Validator) Validate(op types.Operation, m any) error {
	violations, err := v.check(op, m)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return types.NewValidationError(v.tag.Display(), violations...)
	}
	return nil
}

// Validates checks every element of a batch and fails the whole batch with the
// violations of all elements. An empty batch is itself a violation.
func Validates[M any](v *Validator, op types.Operation, models []*M) error {
	if len(models) == 0 {
		return types.NewValidationError(v.tag.Display(), types.Violation{
			Message: fmt.Sprintf("%ss is required!", v.tag.Display()),
		})
	}
	var all []types.Violation
	for i, m := range models {
		violations, err := v.check(op, m)
		if err != nil {
			return err
		}
		for _, violation := range violations {
			violation.Field = fmt.Sprintf("[%d].%s", i, violation.Field)
			all = append(all, violation)
		}
	}
	if len(all) > 0 {
		return types.NewValidationError(v.tag.Display(), all...)
	}
	return nil
}

func (v *Validator) check(op types.Operation, m any) ([]types.Violation, error) {
	if m == nil || (reflect.ValueOf(m).Kind() == reflect.Ptr && reflect.ValueOf(m).IsNil()) {
		return []types.Violation{{Message: fmt.Sprintf("%s is required!", v.tag.Display())}}, nil
	}
	switch op {
	case types.OperationCreate:
		violations, err := v.checkFields(m)
		if err != nil {
			return nil, err
		}
		if model.IdentityOf(m) != nil {
			violations = append([]types.Violation{v.violation("id", "transient", "")}, violations...)
		}
		return violations, nil
	case types.OperationUpdate:
		if model.IdentityOf(m) == nil {
			return []types.Violation{v.violation("id", "required", "")}, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("validator: unsupported operation %s", op)
	}
}

func (v *Validator) checkFields(m any) ([]types.Violation, error) {
	err := v.validate.Struct(m)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	violations := make([]types.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, v.violation(fieldPath(fe.Namespace()), fe.Tag(), fe.Param()))
	}
	return violations, nil
}

func (v *Validator) violation(field, rule, param string) types.Violation {
	entity := v.tag.Display()
	var msg string
	switch rule {
	case "required":
		msg = fmt.Sprintf("%s '%s' is required!", entity, field)
	case "email":
		msg = fmt.Sprintf("%s '%s' must be a valid email address!", entity, field)
	case "transient":
		msg = fmt.Sprintf("%s '%s' is assigned by the server and must not be set!", entity, field)
	case "datetime":
		msg = fmt.Sprintf("%s '%s' must match %s!", entity, field, param)
	default:
		msg = fmt.Sprintf("%s '%s' failed rule %s!", entity, field, rule)
	}
	return types.Violation{Field: field, Message: msg}
}

// fieldPath drops the struct name from a namespace such as "User.addresses[0].city".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
