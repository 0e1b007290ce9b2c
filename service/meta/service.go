// Package meta loads kernel configuration documents from any location the
// abstract file system understands (file, embed, s3, gs, http) and decodes
// them as YAML after environment expansion.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves and decodes configuration documents.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service; baseURL may be empty, in which case locations
// are used as-is.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Load reads the document at location (joined with the base URL when
// relative), expands ${env.KEY} references and decodes YAML into target.
func (s *Service) Load(ctx context.Context, location string, target any) error {
	URL := location
	if s.baseURL != "" && url.IsRelative(location) {
		URL = url.Join(s.baseURL, location)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return fmt.Errorf("failed to load %v: %w", URL, err)
	}
	expanded := ExpandEnv(string(data))
	if err = yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return nil
}

// Exists reports whether the document is present.
func (s *Service) Exists(ctx context.Context, location string) (bool, error) {
	URL := location
	if s.baseURL != "" && url.IsRelative(location) {
		URL = url.Join(s.baseURL, location)
	}
	has, err := s.fs.Exists(ctx, URL, s.options...)
	if err != nil && strings.Contains(err.Error(), "not found") {
		return false, nil
	}
	return has, err
}
