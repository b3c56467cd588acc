package db

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

func TestMigrateCreatesSchedulingTables(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb))

	m := gdb.Migrator()
	for _, model := range []any{&models.Client{}, &models.Service{}, &models.Appointment{}, &models.AuditLog{}} {
		assert.True(t, m.HasTable(model))
	}
	assert.True(t, m.HasIndex(&models.Appointment{}, "idx_appointments_slot"))
	assert.False(t, m.HasIndex(&models.Appointment{}, "uniq_appointments_active_slot"))
}

func TestNewRedis(t *testing.T) {
	log := zaptest.NewLogger(t)

	client, err := NewRedis(&config.Config{}, log)
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = NewRedis(&config.Config{RedisAddr: mr.Addr()}, log)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedis(&config.Config{RedisAddr: mr.Addr()}, log)
	assert.Error(t, err)
}
