package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

func TestActionService_Export(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	raw := []byte{0x00, 0x01, 0xfe, 0xff}
	docs, err := env.registry.Ingest(ctx, []domain.IncomingFile{{Name: "deck.pptx", Data: raw}})
	require.NoError(t, err)

	actions := NewActionService(env.registry, t.TempDir())

	t.Run("to directory uses document name", func(t *testing.T) {
		dir := t.TempDir()

		path, err := actions.Export(ctx, docs[0].ID, dir, false)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "deck.pptx"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("to explicit path", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "copy.pptx")

		path, err := actions.Export(ctx, docs[0].ID, dest, false)

		require.NoError(t, err)
		assert.Equal(t, dest, path)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "exists.pptx")
		require.NoError(t, os.WriteFile(dest, []byte("keep"), 0600))

		_, err := actions.Export(ctx, docs[0].ID, dest, false)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		data, _ := os.ReadFile(dest)
		assert.Equal(t, "keep", string(data))
	})

	t.Run("overwrites when asked", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "exists.pptx")
		require.NoError(t, os.WriteFile(dest, []byte("keep"), 0600))

		_, err := actions.Export(ctx, docs[0].ID, dest, true)

		require.NoError(t, err)
		data, _ := os.ReadFile(dest)
		assert.Equal(t, raw, data)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := actions.Export(ctx, "missing", t.TempDir(), false)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestActionService_Open(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	docs, err := env.registry.Ingest(ctx, []domain.IncomingFile{mdFile("report.md", "# Title")})
	require.NoError(t, err)

	openDir := t.TempDir()
	actions := NewActionService(env.registry, openDir)

	var opened string
	actions.Opener = func(path string) error {
		opened = path
		return nil
	}

	path, err := actions.Open(ctx, docs[0].ID)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(openDir, docs[0].ID, "report.md"), path)
	assert.Equal(t, path, opened)

	// Opening again replaces the previous copy.
	_, err = actions.Open(ctx, docs[0].ID)
	require.NoError(t, err)
}

func TestActionService_Open_OpenerFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	docs, err := env.registry.Ingest(ctx, []domain.IncomingFile{mdFile("report.md", "# Title")})
	require.NoError(t, err)

	actions := NewActionService(env.registry, t.TempDir())
	actions.Opener = func(string) error { return errors.New("no viewer") }

	path, err := actions.Open(ctx, docs[0].ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no viewer")
	assert.FileExists(t, path)
}

func TestActionService_Open_NoDirectory(t *testing.T) {
	env := newTestEnv()

	_, err := NewActionService(env.registry, "").Open(context.Background(), "x")

	assert.Error(t, err)
}

func TestActionService_Open_UnknownIDCreatesNothing(t *testing.T) {
	env := newTestEnv()
	root := t.TempDir()
	openDir := filepath.Join(root, "open")

	actions := NewActionService(env.registry, openDir)
	actions.Opener = func(string) error {
		t.Fatal("opener must not run")
		return nil
	}

	for _, id := range []string{"../x", "missing", "a/b"} {
		_, err := actions.Open(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}

	assert.NoDirExists(t, openDir)
	assert.NoDirExists(t, filepath.Join(root, "x"))
}
