package kernos

import (
	"github.com/rs/zerolog"
	"github.com/viant/afs/storage"
	"github.com/viant/kernos/service/allocator"
	"github.com/viant/kernos/service/clock"
	"github.com/viant/kernos/service/event"
	"github.com/viant/kernos/service/kernel"
	"github.com/viant/kernos/service/meta"
	"github.com/viant/kernos/tracing"
)

// Option customizes the kernos service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithConfigURL loads the engine configuration from the given location via
// the meta service during New.
func WithConfigURL(location string) Option {
	return func(s *Service) {
		s.configURL = location
	}
}

// WithMetaService sets the configuration loader service.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithAllocator sets the kernel's address-space collaborator.
func WithAllocator(svc allocator.Service) Option {
	return func(s *Service) {
		s.kernelOptions = append(s.kernelOptions, kernel.WithAllocator(svc))
	}
}

// WithClock sets the kernel's time source.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.kernelOptions = append(s.kernelOptions, kernel.WithClock(c))
	}
}

// WithLogger sets the kernel's structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.kernelOptions = append(s.kernelOptions, kernel.WithLogger(logger))
	}
}

// WithDescriptorCloser sets the kernel's filesystem collaborator.
func WithDescriptorCloser(closer kernel.DescriptorCloser) Option {
	return func(s *Service) {
		s.kernelOptions = append(s.kernelOptions, kernel.WithDescriptorCloser(closer))
	}
}

// WithEventService sets the lifecycle event service.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times, the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}
