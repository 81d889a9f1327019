package application

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tashivar/backoffice/pkg/errors"
)

func newKVService() (*KVService, *fakeKVRepo) {
	repo := newFakeKVRepo()
	return NewKVService(repo, testLogger()), repo
}

func TestKVRoundTrip(t *testing.T) {
	svc, _ := newKVService()
	ctx := context.Background()
	blob := []byte(`{"orders":[],"syncedAt":"2026-08-30T10:00:00Z"}`)

	require.NoError(t, svc.Set(ctx, "tashivar_orders", blob))

	got, err := svc.Get(ctx, "tashivar_orders")
	require.NoError(t, err)
	assert.Equal(t, blob, got, "blobs are returned verbatim")

	require.NoError(t, svc.Set(ctx, "tashivar_orders", []byte(`{}`)))
	got, err = svc.Get(ctx, "tashivar_orders")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got, "set replaces the previous value")
}

func TestKVGetMissing(t *testing.T) {
	svc, _ := newKVService()

	_, err := svc.Get(context.Background(), "tashivar_missing")

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestKVDelete(t *testing.T) {
	svc, _ := newKVService()
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, "tashivar_state", []byte(`1`)))

	require.NoError(t, svc.Delete(ctx, "tashivar_state"))
	_, err := svc.Get(ctx, "tashivar_state")
	require.Error(t, err)

	assert.NoError(t, svc.Delete(ctx, "tashivar_state"), "deleting an absent key is not an error")
}

func TestKVKeys(t *testing.T) {
	svc, _ := newKVService()
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, "tashivar_orders", []byte(`1`)))
	require.NoError(t, svc.Set(ctx, "tashivar_inventory", []byte(`2`)))
	require.NoError(t, svc.Set(ctx, "other_state", []byte(`3`)))

	keys, err := svc.Keys(ctx, "tashivar_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tashivar_orders", "tashivar_inventory"}, keys)

	keys, err = svc.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestKVValidation(t *testing.T) {
	svc, _ := newKVService()
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
	}{
		{"empty key", svc.Set(ctx, "", []byte(`1`))},
		{"key with spaces", svc.Set(ctx, "bad key", []byte(`1`))},
		{"empty value", svc.Set(ctx, "tashivar_ok", nil)},
		{"oversized value", svc.Set(ctx, "tashivar_ok", bytes.Repeat([]byte{'a'}, maxBlobSize+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr, ok := apperrors.AsAppError(tt.err)
			require.True(t, ok)
			assert.Equal(t, 400, appErr.HTTPStatus)
		})
	}
}
