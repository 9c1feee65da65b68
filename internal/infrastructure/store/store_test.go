package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/chemflo-api/internal/infrastructure/store"
	"github.com/jhoicas/chemflo-api/pkg/config"
)

func TestOpen_SQLiteEnArchivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemflo.db")
	s, err := store.Open(context.Background(), config.DBConfig{Driver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer s.Close()

	list, err := s.Categories.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, config.DriverSQLite, s.Driver)
}

func TestOpen_MigracionIdempotente(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemflo.db")
	cfg := config.DBConfig{Driver: config.DriverSQLite, SQLitePath: path}
	s, err := store.Open(context.Background(), cfg)
	require.NoError(t, err)
	s.Close()

	s, err = store.Open(context.Background(), cfg)
	require.NoError(t, err, "reabrir no debe fallar al reaplicar el esquema")
	s.Close()
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := store.Open(context.Background(), config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}
