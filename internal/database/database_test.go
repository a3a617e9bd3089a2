package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goncalo-araujo/babyshower/internal/config"
	"github.com/goncalo-araujo/babyshower/internal/models"

	"github.com/stretchr/testify/require"
)

func TestInit_CreatesDirAndOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.db")

	db, err := Init(config.DatabaseConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	item := models.Item{Title: "Crib", PriceTotal: 10000}
	require.NoError(t, db.Create(&item).Error)
	require.NotZero(t, item.ID)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestInit_WALMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")

	db, err := Init(config.DatabaseConfig{Path: path})
	require.NoError(t, err)

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode;").Scan(&mode).Error)
	require.Equal(t, "wal", mode)
}
