package database

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_init.sql", "00002_deletion_logs.sql"}, names)
}

func TestMigrationsDeclareRestrictForeignKeys(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/00001_init.sql")
	require.NoError(t, err)
	sql := string(data)

	assert.Contains(t, sql, "project_id  uuid NOT NULL REFERENCES projects (id) ON DELETE RESTRICT")
	assert.Contains(t, sql, "building_id uuid NOT NULL REFERENCES buildings (id) ON DELETE RESTRICT")
	assert.Contains(t, sql, "-- +goose Down")
}

func TestNewMigratorRequiresDSN(t *testing.T) {
	_, err := NewMigrator("", nil)
	assert.Error(t, err)

	m, err := NewMigrator("postgres://localhost/db", nil)
	require.NoError(t, err)
	assert.NotNil(t, m.log)
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := Open(Options{}, logrus.NewEntry(logrus.New()))
	assert.Error(t, err)
}

func TestGormLoggerLevels(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	assert.NotNil(t, NewGormLogger(entry, logrus.DebugLevel))
	assert.NotNil(t, NewGormLogger(entry, logrus.InfoLevel).LogMode(logger.Silent))
}
