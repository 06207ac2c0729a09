package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"kemea.backend/internal/config"
	"kemea.backend/internal/infrastructure/models"
)

func TestParseOptions(t *testing.T) {
	noEnv := func(string) string { return "" }

	opts, err := parseOptions([]string{"-email", "a@kemea.al", "-password", "secret123"}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "a@kemea.al", opts.email)
	assert.Equal(t, "Administrator", opts.name)

	opts, err = parseOptions([]string{"-email", "a@kemea.al"}, func(key string) string {
		if key == passwordEnv {
			return "from-env"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "from-env", opts.password)

	_, err = parseOptions([]string{"-password", "secret123"}, noEnv)
	assert.EqualError(t, err, "-email is required")

	_, err = parseOptions([]string{"-email", "a@kemea.al", "-password", "abc"}, noEnv)
	assert.Error(t, err)

	_, err = parseOptions([]string{"-unknown"}, noEnv)
	assert.Error(t, err)
}

func stubDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	origOpen, origOut := openDB, stdout
	t.Cleanup(func() { openDB, stdout = origOpen, origOut })
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return db, nil }
	return db
}

func TestRun_CreatesStaffUser(t *testing.T) {
	db := stubDB(t)
	var out bytes.Buffer
	stdout = &out

	require.NoError(t, run([]string{"-email", "Root@Kemea.al", "-name", "Root", "-password", "secret123"}))
	assert.Contains(t, out.String(), "Staff user created: root@kemea.al")

	var user models.User
	require.NoError(t, db.Where("email = ?", "root@kemea.al").First(&user).Error)
	assert.True(t, user.IsStaff)
	assert.True(t, user.EmailVerified)

	err := run([]string{"-email", "root@kemea.al", "-password", "secret123"})
	assert.Error(t, err)
}

func TestRun_DatabaseError(t *testing.T) {
	stubDB(t)
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return nil, errors.New("refused") }

	err := run([]string{"-email", "a@kemea.al", "-password", "secret123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}
