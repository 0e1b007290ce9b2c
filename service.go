package kernos

import (
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/kernos/service/event"
	"github.com/viant/kernos/service/kernel"
	"github.com/viant/kernos/service/meta"
	"github.com/viant/kernos/service/timer"
)

// Service is the embeddable engine façade: a kernel, its lifecycle event
// stream and the timer driver that ticks the scheduler, assembled from one
// configuration document.
type Service struct {
	config        Config
	configURL     string
	metaService   *meta.Service
	metaBaseURL   string
	metaFsOptions []storage.Option

	kernelOptions []kernel.Option
	eventService  *event.Service

	kernel *kernel.Service
	timer  *timer.Service
}

// New creates the engine: it resolves configuration, boots the kernel with
// the permanent init process and prepares the timer driver.  The driver does
// not tick until Start is called.
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() error {
	s.ensureBaseSetup()
	if s.configURL != "" {
		if err := s.metaService.Load(context.Background(), s.configURL, &s.config); err != nil {
			return err
		}
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	kernelOptions := append([]kernel.Option{kernel.WithEventService(s.eventService)}, s.kernelOptions...)
	core, err := kernel.New(s.config.Kernel, kernelOptions...)
	if err != nil {
		return err
	}
	s.kernel = core
	s.timer = timer.New(core, s.config.Timer)
	return nil
}

func (s *Service) ensureBaseSetup() {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.eventService == nil {
		s.eventService = event.New()
	}
}

// Kernel exposes the process and scheduling operations.
func (s *Service) Kernel() *kernel.Service {
	return s.kernel
}

// Events exposes the lifecycle event stream.
func (s *Service) Events() *event.Service {
	return s.eventService
}

// Start launches the timer driver in the background; scheduling then
// advances without host involvement until the context is cancelled or
// Shutdown is called.
func (s *Service) Start(ctx context.Context) {
	go func() {
		_ = s.timer.Start(ctx)
	}()
}

// Shutdown stops the timer driver.  Kernel state stays queryable afterwards.
func (s *Service) Shutdown() {
	s.timer.Shutdown()
}
