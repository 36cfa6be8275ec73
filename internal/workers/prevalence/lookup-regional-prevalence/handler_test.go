// internal/workers/prevalence/lookup-regional-prevalence/handler_test.go
package lookupregionalprevalence

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-risk-workers/internal/common/database"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/prevalence"
)

// ==========================
// Test Helper Functions
// ==========================

var weeklyQuery = regexp.QuoteMeta("SELECT prevalence")

func createTestConfig() *Config {
	return &Config{
		Timeout:  5 * time.Second,
		MaxWeeks: 52,
	}
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewTestLogger(t)
	service := prevalence.NewService(
		prevalence.NewPostgresStore(db),
		&database.RedisClient{Client: client},
		prevalence.Options{CacheTTL: time.Hour, DefaultWeek: 22, DefaultValue: 0.01},
		log,
	)
	return NewHandler(createTestConfig(), service, log), mock, mr
}

func rows(v ...float64) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"prevalence"})
	for _, x := range v {
		r.AddRow(x)
	}
	return r
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_DatabaseThenCache(t *testing.T) {
	handler, mock, mr := createTestHandler(t)
	mock.ExpectQuery(weeklyQuery).WithArgs("South", 30).WillReturnRows(rows(0.018))

	out, err := handler.Execute(context.Background(), &Input{ExposureLocation: "TX", Week: 30})
	require.NoError(t, err)
	assert.Equal(t, "South", out.Region)
	assert.Equal(t, 30, out.Week)
	assert.Equal(t, 0.018, out.Prevalence)
	assert.Equal(t, prevalence.SourceDatabase, out.Source)
	assert.True(t, mr.Exists("prevalence:South:30"))

	out, err = handler.Execute(context.Background(), &Input{ExposureLocation: "FL", Week: 30})
	require.NoError(t, err)
	assert.Equal(t, prevalence.SourceCache, out.Source)
	assert.Equal(t, 0.018, out.Prevalence)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_DefaultWeekAndNotFound(t *testing.T) {
	handler, mock, _ := createTestHandler(t)
	mock.ExpectQuery(weeklyQuery).WithArgs("National", 22).WillReturnRows(rows())

	out, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, "National", out.Region)
	assert.Equal(t, 22, out.Week)
	assert.Equal(t, 0.01, out.Prevalence)
	assert.Equal(t, prevalence.SourceDefault, out.Source)
	assert.Contains(t, out.Advisory, "PREVALENCE_NOT_FOUND")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_Sequence(t *testing.T) {
	handler, mock, _ := createTestHandler(t)
	mock.ExpectQuery(weeklyQuery).WithArgs("West", 51).WillReturnRows(rows(0.02))
	mock.ExpectQuery(weeklyQuery).WithArgs("West", 52).WillReturnRows(rows(0.025))
	mock.ExpectQuery(weeklyQuery).WithArgs("West", 1).WillReturnRows(rows(0.03))

	out, err := handler.Execute(context.Background(), &Input{ExposureLocation: "WA", Week: 51, NumWeeks: 3})
	require.NoError(t, err)

	require.Len(t, out.Sequence, 3)
	weeks := []int{out.Sequence[0].Week, out.Sequence[1].Week, out.Sequence[2].Week}
	assert.Equal(t, []int{51, 52, 1}, weeks)
	assert.Equal(t, 0.02, out.Prevalence)
	assert.Equal(t, prevalence.SourceCache, out.Sequence[0].Source, "first week was cached by the single lookup")
	assert.Equal(t, 0.03, out.Sequence[2].Prevalence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_DatabaseError(t *testing.T) {
	handler, mock, _ := createTestHandler(t)
	mock.ExpectQuery(weeklyQuery).WithArgs("Northeast", 10).WillReturnError(stderrors.New("connection reset"))

	_, err := handler.Execute(context.Background(), &Input{ExposureLocation: "NY", Week: 10})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
}

func TestExecute_TooManyWeeks(t *testing.T) {
	handler, mock, _ := createTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{ExposureLocation: "TX", NumWeeks: 53})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeExposureInputInvalid, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
