package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"amc-backend/internal/metrics"
	"amc-backend/internal/models"

	log "github.com/sirupsen/logrus"
)

// PortfolioCollector periodically publishes portfolio-wide gauges: customers,
// branches and per-quarter completion counts.
type PortfolioCollector struct {
	customers       CustomerStore
	collectInterval time.Duration
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

func NewPortfolioCollector(customers CustomerStore, interval time.Duration) *PortfolioCollector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PortfolioCollector{
		customers:       customers,
		collectInterval: interval,
		stopChan:        make(chan struct{}),
	}
}

// Start collects once and then on every tick until Stop.
func (c *PortfolioCollector) Start() {
	log.Println("[MetricsCollector] Starting portfolio collector...")

	// Collect immediately on start
	c.collect()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				log.Println("[MetricsCollector] Stopping portfolio collector...")
				return
			}
		}
	}()
}

func (c *PortfolioCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
}

func (c *PortfolioCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customers, err := c.customers.List(ctx)
	if err != nil {
		log.Printf("[MetricsCollector] Error listing customers: %v", err)
		return
	}

	var branches int
	var completed [models.QuarterCount]int
	for _, cust := range customers {
		branches += len(cust.Branches)
		for _, b := range cust.Branches {
			for q, done := range b.Quarters {
				if done {
					completed[q]++
				}
			}
		}
	}

	metrics.PortfolioCustomers.Set(float64(len(customers)))
	metrics.PortfolioBranches.Set(float64(branches))
	for q, n := range completed {
		metrics.PortfolioQuartersCompleted.WithLabelValues(strconv.Itoa(q + 1)).Set(float64(n))
	}
}
