package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/dto"
)

func TestUserService_Create(t *testing.T) {
	svc := NewUserService(newMockUserRepo())

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email: "alice@example.com", Name: "Alice Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.add("alice@example.com", "Alice")
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email: "alice@example.com", Name: "Alice Doe",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUserService_Create_NamePolicy(t *testing.T) {
	svc := NewUserService(newMockUserRepo())

	for _, name := range []string{"Al", "Alice7", "", "x!"} {
		_, err := svc.Create(context.Background(), dto.CreateUserRequest{
			Email: "alice@example.com", Name: name,
		})
		assert.True(t, apperr.IsValidation(err), "name %q should be rejected", name)
	}
}

func TestUserService_List_ClampsPageSize(t *testing.T) {
	repo := newMockUserRepo()
	repo.add("a@example.com", "Aaa")
	repo.add("b@example.com", "Bbb")
	svc := NewUserService(repo)

	resp, err := svc.List(context.Background(), dto.PageParams{Page: -1, PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.PerPage)
	assert.Equal(t, 2, resp.Pagination.Total)
	assert.Len(t, resp.Users, 2)
}
