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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/iws/internal/dbtest"
	"github.com/tomoncle/iws/schema"
	"github.com/tomoncle/iws/types"
)

func ptr[T any](v T) *T { return &v }

func newUser(email, userName string, streets ...string) *schema.User {
	u := &schema.User{
		Email:     email,
		FirstName: "A",
		LastName:  "B",
		BirthDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		UserName:  userName,
		Password:  "secret",
	}
	for _, street := range streets {
		u.Addresses = append(u.Addresses, &schema.Address{
			Street1: street, City: "Paris", State: "IDF", Country: "FR", Zip: "75001",
		})
	}
	return u
}

func TestSaveLoadsChildrenInOrder(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.User](db, "User")

	saved, err := repo.Save(context.Background(), newUser("a@b.com", "ab", "1 First St", "2 Second St"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())
	require.Len(t, saved.Addresses, 2)
	assert.Equal(t, "1 First St", saved.Addresses[0].Street1)
	assert.Equal(t, "2 Second St", saved.Addresses[1].Street1)
	assert.Equal(t, saved.ID, saved.Addresses[0].UserID)
	assert.Equal(t, 2, dbtest.Count(t, db, "addresses"))
}

func TestSaveDuplicateIsTranslated(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Role](db, "Role")
	ctx := context.Background()

	_, err := repo.Save(ctx, &schema.Role{Name: "admin"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &schema.Role{Name: "admin"})
	var dup *types.DuplicateRecordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Role", dup.Entity)
	assert.Equal(t, 1, dbtest.Count(t, db, "roles"))
}

func TestSaveAllIsAtomic(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Role](db, "Role")

	roles := []*schema.Role{{Name: "reader"}, {Name: "writer"}, {Name: "owner"}, {Name: "reader"}}
	err := repo.SaveAll(context.Background(), roles)

	var dup *types.DuplicateRecordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 0, dbtest.Count(t, db, "roles"))
}

func TestSaveAllAssignsIDs(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Role](db, "Role")

	roles := []*schema.Role{
		{Name: "reader", Permissions: []*schema.Permission{{Name: "read"}}},
		{Name: "writer", Permissions: []*schema.Permission{{Name: "write"}}},
	}
	require.NoError(t, repo.SaveAll(context.Background(), roles))

	assert.Equal(t, int64(1), roles[0].ID)
	assert.Equal(t, int64(2), roles[1].ID)
	assert.Equal(t, 2, dbtest.Count(t, db, "permissions"))
	assert.Equal(t, 2, dbtest.Count(t, db, "role_permissions"))

	found, err := repo.FindByFilter(context.Background(), types.ByID(2))
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Len(t, found[0].Permissions, 1)
	assert.Equal(t, "write", found[0].Permissions[0].Name)
}

func TestFindByFilter(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Company](db, "Company")
	ctx := context.Background()

	for _, name := range []string{"acme", "globex", "initech"} {
		_, err := repo.Save(ctx, &schema.Company{Name: name, Active: ptr(name != "globex")})
		require.NoError(t, err)
	}

	t.Run("empty result is an empty slice", func(t *testing.T) {
		found, err := repo.FindByFilter(ctx, types.Filter{"name": "umbrella"})
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})

	t.Run("empty filter matches every row in id order", func(t *testing.T) {
		found, err := repo.FindByFilter(ctx, nil)
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, []string{"acme", "globex", "initech"}, []string{found[0].Name, found[1].Name, found[2].Name})
	})

	t.Run("slice value matches any element", func(t *testing.T) {
		found, err := repo.FindByFilter(ctx, types.ByIDs([]int64{1, 3}))
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "initech", found[1].Name)
	})

	t.Run("empty slice matches nothing", func(t *testing.T) {
		found, err := repo.FindByFilter(ctx, types.ByIDs(nil))
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("conditions are combined", func(t *testing.T) {
		found, err := repo.FindByFilter(ctx, types.Filter{"active": true, "name": "globex"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("unknown column is a validation error", func(t *testing.T) {
		_, err := repo.FindByFilter(ctx, types.Filter{"nickname": "x"})
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Violations, 1)
		assert.Equal(t, "nickname", verr.Violations[0].Field)
	})
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Company](db, "Company")
	ctx := context.Background()

	saved, err := repo.Save(ctx, &schema.Company{Name: "acme"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	saved.Name = "acme corp"
	affected, err := repo.Update(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.FindByFilter(ctx, types.ByID(saved.ID))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "acme corp", found[0].Name)
	assert.True(t, found[0].UpdatedAt.After(found[0].CreatedAt))

	missing := &schema.Company{Name: "ghost"}
	missing.ID = 42
	affected, err = repo.Update(ctx, missing)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)
	users := NewRepository[schema.User](db, "User")
	ctx := context.Background()

	_, err := users.Save(ctx, newUser("a@b.com", "ab", "1 First St", "2 Second St"))
	require.NoError(t, err)
	_, err = users.Save(ctx, newUser("c@d.com", "cd", "3 Third St"))
	require.NoError(t, err)

	t.Run("no match", func(t *testing.T) {
		err := users.Delete(ctx, types.ByID(99))
		var nf *types.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "User doesn't exist!", nf.Error())
	})

	t.Run("several matches", func(t *testing.T) {
		err := users.Delete(ctx, types.Filter{"first_name": "A"})
		var amb *types.AmbiguousMatchError
		require.ErrorAs(t, err, &amb)
		assert.Equal(t, 2, amb.Count)
		assert.Equal(t, 2, dbtest.Count(t, db, "users"))
	})

	t.Run("owned children go with the row", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, types.ByID(1)))
		assert.Equal(t, 1, dbtest.Count(t, db, "users"))
		assert.Equal(t, 1, dbtest.Count(t, db, "addresses"))
	})
}

func TestBulkDelete(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Contact](db, "Contact")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Save(ctx, &schema.Contact{FirstName: "A", LastName: "B", Country: "FR", Subject: "hello"})
		require.NoError(t, err)
	}

	err := repo.BulkDelete(ctx, []int64{1, 7})
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, types.ByIDs([]int64{7}), nf.Filter)
	assert.Equal(t, 3, dbtest.Count(t, db, "contacts"))

	require.NoError(t, repo.BulkDelete(ctx, []int64{1, 3}))
	remaining, err := repo.FindByFilter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(2), remaining[0].ID)
}

func TestPage(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Company](db, "Company")
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, err := repo.Save(ctx, &schema.Company{Name: name})
		require.NoError(t, err)
	}

	page, err := repo.Page(ctx, types.NewPageRequest(2, 2, nil, []string{"name DESC"}))
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c", page.Items[0].Name)
	assert.Equal(t, "b", page.Items[1].Name)

	count, err := repo.Count(ctx, types.Filter{"name": []string{"a", "e"}})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = repo.Page(ctx, types.NewPageRequest(1, 2, nil, []string{"name; DROP TABLE companies"}))
	var verr *types.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSaveStampsTimestamps(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository[schema.Company](db, "Company")

	past := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	row := &schema.Company{Name: "acme"}
	row.CreatedAt = past
	row.UpdatedAt = past

	saved, err := repo.Save(context.Background(), row)
	require.NoError(t, err)
	assert.True(t, saved.CreatedAt.After(past))
	assert.True(t, saved.UpdatedAt.After(past))
}

func TestDeleteUserCascadesToPosts(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	users := NewRepository[schema.User](db, "User")
	posts := NewRepository[schema.Post](db, "Post")

	user, err := users.Save(ctx, newUser("a@b.com", "ab"))
	require.NoError(t, err)
	_, err = posts.Save(ctx, &schema.Post{UserID: user.ID, Title: "hello", Author: "ab"})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, types.ByID(user.ID)))
	assert.Equal(t, 0, dbtest.Count(t, db, "posts"))

	_, err = posts.Save(ctx, &schema.Post{UserID: 9999, Title: "orphan", Author: "nobody"})
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}
