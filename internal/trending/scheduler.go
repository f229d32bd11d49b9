package trending

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"emt/internal/providers"
	"emt/internal/store"
	"emt/internal/structures"
	"emt/internal/trending/interfaces"
)

// Scheduler owns the periodic work: trending recomputation on every
// trending interval, and file persistence of the memory backend on its save
// interval. Restore and Persist bracket the process lifecycle.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	recomputer  *Recomputer
	fileManager *store.FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Trending.Interval), func() {
		// Run has its own deadline and single-flight guard; errors are
		// logged there and retried on the next tick.
		_ = s.recomputer.Run(context.Background())
	})

	if s.fileManager.Persistent() {
		s.cron.AddFunc(gron.Every(s.config.Store.Memory.SaveInterval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			err := s.fileManager.SaveToFile(s.config.Store.Memory.FilePath)
			if err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while persisting counters: %s", err)
				return
			}
			s.logger.Infof(providers.TypeApp, "Persisted counters to file %s", s.config.Store.Memory.FilePath)
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if !s.fileManager.Persistent() {
		return nil
	}
	return s.fileManager.LoadFromFile(s.config.Store.Memory.FilePath)
}

func (s *Scheduler) Persist() error {
	if !s.fileManager.Persistent() {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting counters to file...")
	err := s.fileManager.SaveToFile(s.config.Store.Memory.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting counters: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, recomputer *Recomputer, fileManager *store.FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		recomputer:  recomputer,
		fileManager: fileManager,
	}
}
