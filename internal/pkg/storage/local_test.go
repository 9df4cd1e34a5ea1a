package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	obj, err := s.Save(ctx, "portfolios/ce-1", "Sketsa.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, obj.ID)
	assert.Equal(t, "portfolios/ce-1/"+obj.ID+".png", obj.Path)
	assert.Equal(t, "http://localhost:8080/uploads/"+obj.Path, obj.URL)

	r, err := s.Open(ctx, obj.Path)
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, s.Delete(ctx, obj.Path))
	require.NoError(t, s.Delete(ctx, obj.Path))
	_, err = s.Open(ctx, obj.Path)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = s.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = s.Save(ctx, "../../outside", "x.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, s.Delete(ctx, ".."), ErrInvalidPath)
}
