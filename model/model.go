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

package model

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// DateLayout is the wire format of calendar dates such as a birth date.
const DateLayout = "2006-01-02"

// Tag identifies an entity kind.
type Tag string

const (
	TagUser       Tag = "user"
	TagAddress    Tag = "address"
	TagRole       Tag = "role"
	TagPermission Tag = "permission"
	TagCompany    Tag = "company"
	TagContact    Tag = "contact"
	TagPost       Tag = "post"
	TagAttachment Tag = "attachment"
)

// Display is the capitalized name used in user-facing messages.
func (t Tag) Display() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Auditable carries identity and audit timestamps. A nil ID marks a transient entity.
// Timestamps are assigned by the store and never decoded from client input.
type Auditable struct {
	ID        *int64     `json:"id,omitempty" mapstructure:"id"`
	CreatedAt *time.Time `json:"created_at,omitempty" mapstructure:"-"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" mapstructure:"-"`
}

// Identity returns the entity id, nil while transient.
func (a *Auditable) Identity() *int64 {
	return a.ID
}

// Identifiable is implemented by every model through Auditable.
type Identifiable interface {
	Identity() *int64
}

// IdentityOf returns the id of m, or nil when m is transient or not a model.
func IdentityOf(m any) *int64 {
	if id, ok := m.(Identifiable); ok {
		return id.Identity()
	}
	return nil
}

var bytesType = reflect.TypeOf([]byte(nil))

// base64Hook decodes strings into []byte fields the way encoding/json encodes them.
func base64Hook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != bytesType {
		return data, nil
	}
	return base64.StdEncoding.DecodeString(data.(string))
}

// Decode builds a typed model from the raw key/value map produced by the
// request parser. Unknown keys are ignored; a nil value leaves the field unset.
func Decode(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			base64Hook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	return decoder.Decode(raw)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
