package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/hucreative-studio/internal/repository"
)

func TestNew_RestoresFlag(t *testing.T) {
	tests := []struct {
		name   string
		stored *string
		want   bool
	}{
		{name: "absent", stored: nil, want: false},
		{name: "true", stored: ptr("true"), want: true},
		{name: "false", stored: ptr("false"), want: false},
		{name: "garbage", stored: ptr("yes"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := repository.NewMemoryRepository()
			if tt.stored != nil {
				require.NoError(t, kv.Set(context.Background(), AuthKey, *tt.stored))
			}

			g, err := New(context.Background(), kv, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.IsAuthenticated())
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	g, err := New(ctx, kv, nil)
	require.NoError(t, err)

	ok, err := g.Login(ctx, "wrong", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, g.IsAuthenticated())
	_, stored, _ := kv.Get(ctx, AuthKey)
	assert.False(t, stored)

	ok, err = g.Login(ctx, "pankajbisht", "14062008")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, g.IsAuthenticated())
	v, _, _ := kv.Get(ctx, AuthKey)
	assert.Equal(t, "true", v)

	// a failed attempt leaves an existing session in place
	ok, err = g.Login(ctx, "pankajbisht", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, g.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	g, err := New(ctx, kv, nil)
	require.NoError(t, err)

	_, err = g.Login(ctx, "pankajbisht", "14062008")
	require.NoError(t, err)
	require.NoError(t, g.Logout(ctx))

	assert.False(t, g.IsAuthenticated())
	_, stored, _ := kv.Get(ctx, AuthKey)
	assert.False(t, stored)

	restarted, err := New(ctx, kv, nil)
	require.NoError(t, err)
	assert.False(t, restarted.IsAuthenticated())
}

func TestLogin_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	g, err := New(ctx, kv, nil)
	require.NoError(t, err)

	_, err = g.Login(ctx, "pankajbisht", "14062008")
	require.NoError(t, err)

	restarted, err := New(ctx, kv, nil)
	require.NoError(t, err)
	assert.True(t, restarted.IsAuthenticated())
}

func TestLogin_WriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	g, err := New(ctx, kv, nil)
	require.NoError(t, err)

	kv.FailWrites(errors.New("quota exceeded"))

	ok, err := g.Login(ctx, "pankajbisht", "14062008")
	assert.True(t, ok)
	assert.ErrorIs(t, err, repository.ErrPersist)
	assert.True(t, g.IsAuthenticated())

	err = g.Logout(ctx)
	assert.ErrorIs(t, err, repository.ErrPersist)
	assert.False(t, g.IsAuthenticated())
}

func ptr(s string) *string { return &s }
