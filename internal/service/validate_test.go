package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{1, 10, 1, 10},
		{0, 10, 1, 10},
		{-3, 50, 1, 50},
		{2, 0, 2, 10},
		{2, 101, 2, 10},
		{2, 100, 2, 100},
	}
	for _, c := range cases {
		page, perPage := clampPage(c.page, c.perPage)
		assert.Equal(t, c.wantPage, page)
		assert.Equal(t, c.wantPerPage, perPage)
	}
}

func TestBuildPagination(t *testing.T) {
	p := buildPagination(25, 2, 10)
	assert.Equal(t, 3, p.Pages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 1, *p.PrevPage)

	p = buildPagination(0, 1, 10)
	assert.Equal(t, 0, p.Pages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
	assert.Nil(t, p.NextPage)
	assert.Nil(t, p.PrevPage)
}

func TestCheckName(t *testing.T) {
	assert.Empty(t, checkName("name", "Alice Doe"))
	assert.NotEmpty(t, checkName("name", "Al"))
	assert.NotEmpty(t, checkName("name", "Alice7"))
	assert.NotEmpty(t, checkName("name", ""))
}

func TestCheckNameLength(t *testing.T) {
	assert.Empty(t, checkNameLength("name", "Coca Cola 2L"))
	assert.Empty(t, checkNameLength("name", "Alice Doe"))
	assert.NotEmpty(t, checkNameLength("name", "2L"))
	assert.NotEmpty(t, checkNameLength("name", ""))
}

func TestEndOfDay(t *testing.T) {
	d, err := parseDate("2025-03-18")
	assert.NoError(t, err)
	e := endOfDay(d)
	assert.Equal(t, 23, e.Hour())
	assert.Equal(t, 59, e.Minute())
	assert.Equal(t, 59, e.Second())
}
