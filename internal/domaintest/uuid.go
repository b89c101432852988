package domaintest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewUUID returns a random id in the canonical lowercase form the stores use
func NewUUID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id.String()
}

// NewUUIDs returns n distinct ids
func NewUUIDs(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for range n {
		ids = append(ids, NewUUID(t))
	}
	return ids
}
