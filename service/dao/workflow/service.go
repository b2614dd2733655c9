// Package workflow loads declarative workflow definitions from JSON or YAML
// documents stored on any afs-supported file system (local, embed, s3, ...).
package workflow

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prospectio/leadflow/model"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads and caches workflow definitions.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
	cache     map[string]*model.Workflow
	mux       sync.RWMutex
}

// Load loads a workflow definition from the given URL. A relative URL is
// joined with the service base URL; a URL without extension defaults to
// ".json". Loaded definitions are cached by their effective URL.
func (s *Service) Load(ctx context.Context, URL string) (*model.Workflow, error) {
	URL = s.normalizeURL(URL)

	s.mux.RLock()
	cached, ok := s.cache[URL]
	s.mux.RUnlock()
	if ok {
		return cached, nil
	}

	exists, err := s.fs.Exists(ctx, URL, s.fsOptions...)
	if err != nil || !exists {
		return nil, NewNotFoundError(URL, err)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		return nil, NewNotFoundError(URL, err)
	}
	workflow, err := s.Decode(data, filepath.Ext(URL))
	if err != nil {
		if parseErr, ok := err.(*ParseError); ok {
			parseErr.URL = URL
		}
		return nil, err
	}
	workflow.Source = &model.Source{URL: URL}
	if workflow.Name == "" {
		workflow.Name = nameFromURL(URL)
	}

	s.mux.Lock()
	s.cache[URL] = workflow
	s.mux.Unlock()
	return workflow, nil
}

// Decode parses a workflow document. The extension selects the codec; YAML is
// used for ".yaml" and ".yml", JSON otherwise.
func (s *Service) Decode(data []byte, ext string) (*model.Workflow, error) {
	workflow := &model.Workflow{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, workflow); err != nil {
			return nil, NewParseError("", err)
		}
	default:
		if err := json.Unmarshal(data, workflow); err != nil {
			return nil, NewParseError("", err)
		}
	}
	if issues := workflow.Validate(); len(issues) > 0 {
		return nil, NewValidationError(workflow.Name, issues)
	}
	return workflow, nil
}

// Refresh drops the cached definition for the given URL, forcing the next
// Load to re-read the document.
func (s *Service) Refresh(URL string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.cache, s.normalizeURL(URL))
}

func (s *Service) normalizeURL(URL string) string {
	if filepath.Ext(URL) == "" {
		URL += ".json"
	}
	if s.baseURL != "" && !strings.Contains(URL, "://") && !strings.HasPrefix(URL, "/") {
		return url.Join(s.baseURL, URL)
	}
	return URL
}

func nameFromURL(URL string) string {
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// New creates a workflow DAO service.
func New(options ...Option) *Service {
	ret := &Service{
		fs:    afs.New(),
		cache: make(map[string]*model.Workflow),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
