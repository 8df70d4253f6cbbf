package repository

import (
	"fmt"
	"testing"
	"time"

	"rewards_engine/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_GetDatabaseURL(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "rewards", Password: "pw", Name: "rewards"}
	assert.Equal(t, "postgres://rewards:pw@db:5432/rewards?sslmode=disable", cfg.GetDatabaseURL())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://rewards:pw@db:5432/rewards?sslmode=require", cfg.GetDatabaseURL())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: uniqueViolation}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert transaction: %w", &pgconn.PgError{Code: uniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(ErrNotFound))
	assert.False(t, isUniqueViolation(nil))
}

func TestJSONMap(t *testing.T) {
	value, err := jsonMap{"task_id": "abc", "security_score": 80}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id":"abc","security_score":80}`, value.(string))

	value, err = jsonMap(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	var m jsonMap
	require.NoError(t, m.Scan([]byte(`{"trigger":"first_video"}`)))
	assert.Equal(t, "first_video", m["trigger"])

	require.NoError(t, m.Scan(`{"n":1}`))
	assert.Equal(t, float64(1), m["n"])

	require.NoError(t, m.Scan(nil))
	assert.Nil(t, m)

	assert.Error(t, m.Scan(42))
	assert.Error(t, m.Scan([]byte("not json")))
}

func TestCurrentPositionQuery(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := currentPositionQuery(userID, now).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM user_positions up JOIN positions p ON p.id = up.position_id")
	assert.Contains(t, query, "up.end_date > $")
	assert.Contains(t, query, "ORDER BY up.start_date DESC LIMIT 1")
	assert.NotContains(t, query, "?")
	assert.Len(t, args, 3)
	assert.Contains(t, args, userID.String())
	assert.Contains(t, args, string(model.UserPositionActive))
	assert.Contains(t, args, now)
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t,
		[]string{"MANAGEMENT_BONUS_A", "MANAGEMENT_BONUS_B", "MANAGEMENT_BONUS_C"},
		typeStrings(model.ManagementBonusTypes),
	)
	assert.Empty(t, typeStrings(nil))
}
