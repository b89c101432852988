package domain_test

import (
	"testing"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestPlayerRefFromAny(t *testing.T) {
	t.Parallel()

	player := domain.Player{ID: "0b6a28d4-6c3b-4a53-9d1f-0f3f1a4f3c11", Username: "user_a"}

	t.Run("nil is empty", func(t *testing.T) {
		t.Parallel()

		ref := domain.PlayerRefFromAny(nil)
		require.True(t, ref.IsEmpty())
		_, ok := ref.Player()
		require.False(t, ok)
		_, ok = ref.Raw()
		require.False(t, ok)
	})

	t.Run("nil player pointer is empty", func(t *testing.T) {
		t.Parallel()

		var p *domain.Player
		require.True(t, domain.PlayerRefFromAny(p).IsEmpty())
	})

	t.Run("player", func(t *testing.T) {
		t.Parallel()

		for _, value := range []any{player, &player} {
			ref := domain.PlayerRefFromAny(value)
			require.False(t, ref.IsEmpty())

			resolved, ok := ref.Player()
			require.True(t, ok)
			require.Equal(t, player, resolved)

			_, ok = ref.Raw()
			require.False(t, ok)
			require.Equal(t, player.ID, ref.String())
		}
	})

	t.Run("strings", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{player.ID, "user_a", ""} {
			ref := domain.PlayerRefFromAny(raw)
			require.False(t, ref.IsEmpty())

			got, ok := ref.Raw()
			require.True(t, ok)
			require.Equal(t, raw, got)
		}
	})

	t.Run("other json values are stringified", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			value    any
			expected string
		}{
			{value: float64(42), expected: "42"},
			{value: true, expected: "true"},
			{value: 7, expected: "7"},
		}
		for _, tc := range cases {
			got, ok := domain.PlayerRefFromAny(tc.value).Raw()
			require.True(t, ok)
			require.Equal(t, tc.expected, got)
		}
	})
}
