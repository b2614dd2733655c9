package leadflow

import (
	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/runtime/orchestrator"
	"github.com/prospectio/leadflow/service/dao/workflow"
	"github.com/prospectio/leadflow/service/tool"
	"github.com/prospectio/leadflow/tracing"
	"github.com/viant/afs/storage"
	"github.com/viant/x"
)

// Option customizes the leadflow service.
type Option func(s *Service)

// WithCapability registers a capability factory, replacing a built-in
// capability of the same name.
func WithCapability(name string, factory extension.Factory) Option {
	return func(s *Service) {
		if s.capabilities == nil {
			s.capabilities = make(map[string]extension.Factory)
		}
		s.capabilities[name] = factory
	}
}

// WithExtensionTypes sets additional capability data types.
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = append(s.extensionTypes, types...)
	}
}

// WithWorkflowDAO sets the workflow DAO.
func WithWorkflowDAO(dao *workflow.Service) Option {
	return func(s *Service) {
		s.workflowDAO = dao
	}
}

// WithToolService sets the tool resolution service.
func WithToolService(tools *tool.Service) Option {
	return func(s *Service) {
		s.toolService = tools
	}
}

// WithListener sets a listener invoked after every executed step.
func WithListener(listener orchestrator.Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithMetaBaseURL sets the base URL workflow locations are resolved against.
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions sets file system options for workflow loading.
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithEnvFiles loads the given dotenv files into the process environment
// before any tool configuration is resolved.
func WithEnvFiles(files ...string) Option {
	return func(s *Service) {
		s.envFiles = append(s.envFiles, files...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}
