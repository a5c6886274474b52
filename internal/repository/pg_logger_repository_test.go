package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresLogRepository(t *testing.T) {
	t.Run("With mock database", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing()

		repo, err := NewPostgresLogRepository(context.Background(), "", db)
		assert.NoError(t, err)
		assert.NotNil(t, repo)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ping failure", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))

		repo, err := NewPostgresLogRepository(context.Background(), "", db)
		assert.Nil(t, repo)
		assert.ErrorContains(t, err, "failed to ping database")
	})
}

func TestPostgresLogRepository_SaveLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &PostgresLogRepository{db: db}

	t.Run("Successful log save", func(t *testing.T) {
		log := model.NewLog(model.LogLevelInfo, "converted 10 USD to EUR")

		mock.ExpectExec("INSERT INTO logs").
			WithArgs(log.ID, log.Level, log.Message, log.Timestamp, log.Source).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.SaveLog(context.Background(), log)
		assert.NoError(t, err)
	})

	t.Run("Failed log save", func(t *testing.T) {
		log := model.NewLog(model.LogLevelError, "upstream quota reached")

		mock.ExpectExec("INSERT INTO logs").
			WithArgs(log.ID, log.Level, log.Message, log.Timestamp, log.Source).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.SaveLog(context.Background(), log)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save log")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogRepository_CreatePartition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &PostgresLogRepository{db: db}

	t.Run("Successful partition creation", func(t *testing.T) {
		month := time.Date(2023, time.May, 17, 12, 0, 0, 0, time.UTC)

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS logs_y2023m05 PARTITION OF logs\s+FOR VALUES FROM \('2023-05-01'\) TO \('2023-06-01'\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.CreatePartition(context.Background(), month)
		assert.NoError(t, err)
	})

	t.Run("December rolls over the year", func(t *testing.T) {
		month := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS logs_y2023m12 PARTITION OF logs\s+FOR VALUES FROM \('2023-12-01'\) TO \('2024-01-01'\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.CreatePartition(context.Background(), month)
		assert.NoError(t, err)
	})

	t.Run("Failed partition creation", func(t *testing.T) {
		month := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS logs_y2023m06 PARTITION OF logs").
			WillReturnError(fmt.Errorf("database error"))

		err := repo.CreatePartition(context.Background(), month)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create partition logs_y2023m06")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogRepository_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &PostgresLogRepository{db: db}

	mock.ExpectClose()

	err = repo.Close()
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogRepository_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &PostgresLogRepository{db: db}

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS logs \(`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, repo.Migrate(context.Background()))

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS logs \(`).WillReturnError(fmt.Errorf("permission denied"))
	err = repo.Migrate(context.Background())
	assert.ErrorContains(t, err, "failed to apply logs schema")

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, logsSchema, "PARTITION BY RANGE (timestamp)")
}
