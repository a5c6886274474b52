package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/robfig/cron/v3"
)

const (
	partitionSchedule    = "0 0 1 * *"
	partitionMonthsAhead = 3
)

// PartitionManager keeps monthly partitions of the logs table created ahead
// of time.
type PartitionManager struct {
	repo repository.LogRepository
	cron *cron.Cron
	now  func() time.Time
}

func NewPartitionManager(repo repository.LogRepository) *PartitionManager {
	c := cron.New(cron.WithLocation(time.UTC))
	pm := &PartitionManager{
		repo: repo,
		cron: c,
		now:  time.Now,
	}

	_, err := c.AddFunc(partitionSchedule, pm.createNextMonthPartitionWrapper)
	if err != nil {
		Errorf("failed to add cron job: %v", err)
	}

	return pm
}

func (pm *PartitionManager) Start(ctx context.Context) error {
	if err := pm.EnsurePartitions(ctx); err != nil {
		return fmt.Errorf("failed to create initial partitions: %w", err)
	}

	pm.cron.Start()

	go func() {
		<-ctx.Done()
		pm.cron.Stop()
	}()

	return nil
}

// EnsurePartitions creates the partitions for the current month and the
// following ones. Existing partitions are left untouched.
func (pm *PartitionManager) EnsurePartitions(ctx context.Context) error {
	now := pm.now().UTC()
	for i := 0; i < partitionMonthsAhead; i++ {
		if err := pm.repo.CreatePartition(ctx, firstOfMonth(now, i)); err != nil {
			return err
		}
	}
	return nil
}

func (pm *PartitionManager) createNextMonthPartition(ctx context.Context) error {
	return pm.repo.CreatePartition(ctx, firstOfMonth(pm.now().UTC(), partitionMonthsAhead))
}

func (pm *PartitionManager) createNextMonthPartitionWrapper() {
	if err := pm.createNextMonthPartition(context.Background()); err != nil {
		Errorf("failed to create next month partition: %v", err)
	}
}

// firstOfMonth avoids AddDate normalisation: Jan 31 plus one month is March.
func firstOfMonth(t time.Time, monthsAhead int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(monthsAhead), 1, 0, 0, 0, 0, time.UTC)
}
