// Package leadflow is a declarative workflow orchestrator for prospect
// discovery and outreach pipelines. Workflows are JSON or YAML documents
// listing ordered steps; each step names a registered capability, an input
// template with {{...}} reference expressions and the tools the capability
// may use. The service compiles a definition into a linear plan and executes
// it strictly sequentially.
package leadflow

import (
	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/runtime/orchestrator"
	"github.com/prospectio/leadflow/service/capability/content"
	"github.com/prospectio/leadflow/service/capability/enrich"
	"github.com/prospectio/leadflow/service/capability/feedback"
	"github.com/prospectio/leadflow/service/capability/outreach"
	"github.com/prospectio/leadflow/service/capability/prospect"
	"github.com/prospectio/leadflow/service/capability/scoring"
	"github.com/prospectio/leadflow/service/capability/tracker"
	"github.com/prospectio/leadflow/service/dao/workflow"
	"github.com/prospectio/leadflow/service/tool"
	"github.com/viant/afs/storage"
	"github.com/viant/x"
)

// Service wires the workflow DAO, the capability registry and the
// orchestrator into a ready-to-use runtime.
type Service struct {
	runtime        *Runtime
	registry       *extension.Registry
	extensionTypes []*x.Type
	capabilities   map[string]extension.Factory
	workflowDAO    *workflow.Service
	toolService    *tool.Service
	listener       orchestrator.Listener
	metaBaseURL    string
	metaFsOptions  []storage.Option
	envFiles       []string
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	if len(s.envFiles) > 0 {
		_ = tool.LoadEnv(s.envFiles...)
	}
	if s.toolService == nil {
		s.toolService = tool.New()
	}
	if s.workflowDAO == nil {
		var daoOptions []workflow.Option
		if s.metaBaseURL != "" {
			daoOptions = append(daoOptions, workflow.WithBaseURL(s.metaBaseURL))
		}
		if len(s.metaFsOptions) > 0 {
			daoOptions = append(daoOptions, workflow.WithFsOptions(s.metaFsOptions...))
		}
		s.workflowDAO = workflow.New(daoOptions...)
	}
	s.registry = extension.NewRegistry(s.extensionTypes...)
	s.registerDefaults()
	for name, factory := range s.capabilities {
		s.registry.Register(name, factory)
	}
	s.runtime = &Runtime{
		workflowDAO: s.workflowDAO,
		orchestrator: orchestrator.New(s.registry,
			orchestrator.WithToolService(s.toolService),
			orchestrator.WithListener(s.listener)),
	}
}

// registerDefaults installs the built-in prospect-to-lead capabilities and
// their data types. User-supplied factories registered under the same name
// take precedence.
func (s *Service) registerDefaults() {
	s.registry.Register(prospect.Name, prospect.New)
	s.registry.Register(enrich.Name, enrich.New)
	s.registry.Register(scoring.Name, scoring.New)
	s.registry.Register(content.Name, content.New)
	s.registry.Register(outreach.Name, outreach.New)
	s.registry.Register(tracker.Name, tracker.New)
	s.registry.Register(feedback.Name, feedback.New)

	prospect.InitTypes(s.registry.Types())
	enrich.InitTypes(s.registry.Types())
	scoring.InitTypes(s.registry.Types())
	content.InitTypes(s.registry.Types())
	outreach.InitTypes(s.registry.Types())
	tracker.InitTypes(s.registry.Types())
	feedback.InitTypes(s.registry.Types())
}

// RegisterCapability registers (or replaces) a capability factory.
func (s *Service) RegisterCapability(name string, factory extension.Factory) {
	s.registry.Register(name, factory)
}

// RegisterExtensionTypes registers additional capability data types.
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.registry.Types().Register(types[i])
	}
}

// Capabilities returns the registered capability names.
func (s *Service) Capabilities() []string {
	return s.registry.Names()
}

// Runtime returns the service runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// New creates the leadflow service.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}
