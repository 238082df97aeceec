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

import "time"

type User struct {
	Auditable `mapstructure:",squash"`
	Email     *string    `json:"email" mapstructure:"email" validate:"required,email"`
	FirstName *string    `json:"first_name" mapstructure:"first_name" validate:"required"`
	LastName  *string    `json:"last_name" mapstructure:"last_name" validate:"required"`
	BirthDate *string    `json:"birth_date" mapstructure:"birth_date" validate:"required,datetime=2006-01-02"`
	UserName  *string    `json:"user_name" mapstructure:"user_name" validate:"required"`
	Password  *string    `json:"-" mapstructure:"password" validate:"required"`
	Admin     *bool      `json:"admin" mapstructure:"admin"`
	LastSeen  *time.Time `json:"last_seen,omitempty" mapstructure:"last_seen"`
	AvatarURL *string    `json:"avatar_url,omitempty" mapstructure:"avatar_url"`
	Addresses []Address  `json:"addresses" mapstructure:"addresses" validate:"dive"`
}

// Address belongs to a user. UserID is assigned when the owning user is saved.
type Address struct {
	Auditable `mapstructure:",squash"`
	UserID    *int64  `json:"user_id,omitempty" mapstructure:"user_id"`
	Street1   *string `json:"street1" mapstructure:"street1" validate:"required"`
	Street2   *string `json:"street2,omitempty" mapstructure:"street2"`
	City      *string `json:"city" mapstructure:"city" validate:"required"`
	State     *string `json:"state" mapstructure:"state" validate:"required"`
	Country   *string `json:"country" mapstructure:"country" validate:"required"`
	Zip       *string `json:"zip" mapstructure:"zip" validate:"required"`
}
