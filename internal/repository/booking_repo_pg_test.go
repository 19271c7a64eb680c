package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestContainsJSON(t *testing.T) {
	assert.Equal(t, `[{"email":"john@example.com"}]`, containsJSON("email", "john@example.com"))
	assert.Equal(t, `[{"last_name":"O\"Brien"}]`, containsJSON("last_name", `O"Brien`))
}
