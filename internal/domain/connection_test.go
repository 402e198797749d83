package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair(9, 4)
	assert.Equal(t, 4, a)
	assert.Equal(t, 9, b)

	a, b = CanonicalPair(4, 9)
	assert.Equal(t, 4, a)
	assert.Equal(t, 9, b)
}

func TestConnectionStatusOf(t *testing.T) {
	conn := &Connection{
		User1ID: 1, User2ID: 2,
		User1Status: StatusAccepted, User2Status: StatusPending,
	}

	s, ok := conn.StatusOf(1)
	assert.True(t, ok)
	assert.Equal(t, StatusAccepted, s)

	s, ok = conn.StatusOf(2)
	assert.True(t, ok)
	assert.Equal(t, StatusPending, s)

	_, ok = conn.StatusOf(3)
	assert.False(t, ok)
}

func TestConnectionOtherUserID(t *testing.T) {
	conn := &Connection{User1ID: 1, User2ID: 2}

	other, ok := conn.OtherUserID(1)
	assert.True(t, ok)
	assert.Equal(t, 2, other)

	other, ok = conn.OtherUserID(2)
	assert.True(t, ok)
	assert.Equal(t, 1, other)

	_, ok = conn.OtherUserID(3)
	assert.False(t, ok)
}

func TestConnectionIsMutual(t *testing.T) {
	conn := &Connection{User1Status: StatusAccepted, User2Status: StatusPending}
	assert.False(t, conn.IsMutual())

	conn.User2Status = StatusAccepted
	assert.True(t, conn.IsMutual())
}

func TestConnectionIsExpired(t *testing.T) {
	now := time.Now()

	permanent := &Connection{}
	assert.False(t, permanent.IsExpired(now))

	future := now.Add(time.Hour)
	open := &Connection{ExpiresAt: &future}
	assert.False(t, open.IsExpired(now))

	past := now.Add(-time.Hour)
	stale := &Connection{ExpiresAt: &past}
	assert.True(t, stale.IsExpired(now))
}
