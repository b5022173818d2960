package sqlbase

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingVersionsAreOrdered(t *testing.T) {
	m := NewMigrationManager(slog.Default(), nil, map[int]string{
		3: "c",
		1: "a",
		2: "b",
		5: "e",
	})

	assert.Equal(t, []int{1, 2, 3, 5}, m.pendingVersions(0))
	assert.Equal(t, []int{3, 5}, m.pendingVersions(2))
	assert.Empty(t, m.pendingVersions(5))
	assert.Equal(t, 5, m.LatestVersion())
}

func TestLatestVersionEmpty(t *testing.T) {
	m := NewMigrationManager(slog.Default(), nil, nil)
	assert.Equal(t, 0, m.LatestVersion())
}
