package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/summitretail/preseason-backend/internal/app/service"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

// OrderTotalsScheduler re-derives order subtotals and quantities from the
// line items overnight, catching any drift left by partial failures.
type OrderTotalsScheduler struct {
	cron         *cron.Cron
	orderService service.OrderService
}

func NewOrderTotalsScheduler(orderService service.OrderService) *OrderTotalsScheduler {
	return &OrderTotalsScheduler{
		cron:         cron.New(),
		orderService: orderService,
	}
}

// Start schedules the nightly recompute at 03:00
func (s *OrderTotalsScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled order totals recompute", nil)

		count, err := s.orderService.RecomputeAllTotals()
		if err != nil {
			logger.Error("Failed to recompute order totals from scheduler", err)
			return
		}

		logger.Info("Order totals recompute finished", map[string]interface{}{
			"orders": count,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for order totals recompute", err)
		return err
	}

	s.cron.Start()
	logger.Info("Order totals scheduler started (daily at 3:00 AM)", nil)

	return nil
}

// Stop halts the scheduler
func (s *OrderTotalsScheduler) Stop() {
	logger.Info("Stopping order totals scheduler...", nil)
	s.cron.Stop()
	logger.Info("Order totals scheduler stopped", nil)
}
