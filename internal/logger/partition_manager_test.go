package logger

import (
	"context"
	"testing"
	"time"

	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) SaveLog(ctx context.Context, log model.Log) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockLogRepository) CreatePartition(ctx context.Context, month time.Time) error {
	args := m.Called(ctx, month)
	return args.Error(0)
}

func (m *MockLogRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

var fixedNow = time.Date(2024, time.January, 31, 15, 4, 5, 0, time.UTC)

func newTestPartitionManager(repo *MockLogRepository) *PartitionManager {
	pm := NewPartitionManager(repo)
	pm.now = func() time.Time { return fixedNow }
	return pm
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestNewPartitionManager(t *testing.T) {
	mockRepo := new(MockLogRepository)
	pm := NewPartitionManager(mockRepo)

	assert.NotNil(t, pm)
	assert.Equal(t, mockRepo, pm.repo)
	assert.NotNil(t, pm.cron)
	assert.Len(t, pm.cron.Entries(), 1)
}

func TestPartitionManager_Start(t *testing.T) {
	mockRepo := new(MockLogRepository)
	pm := newTestPartitionManager(mockRepo)

	mockRepo.On("CreatePartition", mock.Anything, month(2024, time.January)).Return(nil)
	mockRepo.On("CreatePartition", mock.Anything, month(2024, time.February)).Return(nil)
	mockRepo.On("CreatePartition", mock.Anything, month(2024, time.March)).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := pm.Start(ctx)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestPartitionManager_Start_FailedInitialPartition(t *testing.T) {
	mockRepo := new(MockLogRepository)
	pm := newTestPartitionManager(mockRepo)

	mockRepo.On("CreatePartition", mock.Anything, month(2024, time.January)).Return(nil)
	mockRepo.On("CreatePartition", mock.Anything, month(2024, time.February)).Return(assert.AnError)

	err := pm.Start(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create initial partitions")
	assert.ErrorIs(t, err, assert.AnError)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "CreatePartition", 2)
}

func TestPartitionManager_createNextMonthPartition(t *testing.T) {
	mockRepo := new(MockLogRepository)
	pm := newTestPartitionManager(mockRepo)

	mockRepo.On("CreatePartition", mock.Anything, month(2024, time.April)).Return(nil)

	err := pm.createNextMonthPartition(context.Background())
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestPartitionManager_cronJob(t *testing.T) {
	mockRepo := new(MockLogRepository)
	pm := newTestPartitionManager(mockRepo)

	mockRepo.On("CreatePartition", mock.Anything, month(2024, time.April)).Return(nil)

	entries := pm.cron.Entries()
	assert.Len(t, entries, 1)
	entries[0].Job.Run()

	mockRepo.AssertExpectations(t)
}

func TestFirstOfMonth(t *testing.T) {
	assert.Equal(t, month(2024, time.March), firstOfMonth(fixedNow, 2))
	assert.Equal(t, month(2025, time.January), firstOfMonth(time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC), 2))
}
