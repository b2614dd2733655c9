package workflow

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Option customizes the workflow DAO service.
type Option func(*Service)

// WithBaseURL sets the base URL relative workflow locations are joined with.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithFs sets the file system service.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithFsOptions sets storage options passed to every file system operation.
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.fsOptions = options
	}
}
