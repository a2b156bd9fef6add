package sqlite

import (
	"testing"

	"clinicdesk/cmd/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_MigratesSchema(t *testing.T) {
	db, err := Init(":memory:")
	require.NoError(t, err)

	for _, model := range []any{&entity.User{}, &entity.Credential{}, &entity.Patient{}, &entity.Prescription{}, &entity.Appointment{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestInit_ForeignKeysEnabled(t *testing.T) {
	db, err := Init(":memory:")
	require.NoError(t, err)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}
