package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2025, 6, 14, 10, 30, 0, 123456789, time.UTC)
	id := "inv-42"

	token := EncodeToken(createdAt, id)
	require.NotEmpty(t, token)

	gotCreatedAt, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotCreatedAt))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	t.Run("not base64", func(t *testing.T) {
		_, _, err := DecodeToken("!!!not-base64!!!")
		assert.Error(t, err)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, _, err := DecodeToken("bm8tc2VwYXJhdG9y") // "no-separator"
		assert.Error(t, err)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, _, err := DecodeToken("bm90LWEtdGltZXxpZA==") // "not-a-time|id"
		assert.Error(t, err)
	})
}

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	date := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	token := EncodeDateBasedToken(date)
	got, err := DecodeDateBasedToken(token)
	require.NoError(t, err)
	assert.True(t, date.Equal(got))
}
