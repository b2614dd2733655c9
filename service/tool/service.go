// Package tool resolves step tool declarations into ready-to-use
// configurations. Resolution substitutes {{ENV_VAR}} placeholders in string
// leaves and optionally loads an encrypted API key when the configuration
// carries a secretURL entry.
package tool

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/viant/scy"
)

// placeholderExpr matches {{ENV_VAR}} style placeholders. Only upper-case
// names qualify so that step reference expressions like {{search.output.x}}
// pass through untouched.
var placeholderExpr = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// Lookup resolves an environment variable name to its value.
type Lookup func(name string) (string, bool)

// Service resolves tool configurations.
type Service struct {
	lookup     Lookup
	scyService *scy.Service
}

// Option customizes the tool service.
type Option func(*Service)

// WithLookup overrides the environment lookup, used by tests.
func WithLookup(lookup Lookup) Option {
	return func(s *Service) {
		s.lookup = lookup
	}
}

// New creates a tool resolution service.
func New(options ...Option) *Service {
	ret := &Service{
		lookup:     os.LookupEnv,
		scyService: scy.New(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// LoadEnv loads the supplied dotenv files into the process environment. A
// missing file is not an error; dotenv files are optional overlays.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// ResolveAll resolves every tool declared by a step. The source declarations
// are never mutated.
func (s *Service) ResolveAll(ctx context.Context, tools []*graph.Tool) (types.ToolConfigs, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	ret := make(types.ToolConfigs, len(tools))
	for _, tool := range tools {
		if tool == nil || tool.Name == "" {
			continue
		}
		config, err := s.Resolve(ctx, tool)
		if err != nil {
			return nil, err
		}
		ret[tool.Name] = config
	}
	return ret, nil
}

// Resolve produces the effective configuration for a single tool.
func (s *Service) Resolve(ctx context.Context, tool *graph.Tool) (map[string]interface{}, error) {
	config := s.expandValue(tool.Config).(map[string]interface{})
	if config == nil {
		config = map[string]interface{}{}
	}
	if err := s.revealSecret(ctx, tool.Name, config); err != nil {
		return nil, err
	}
	return config, nil
}

// expandValue walks the configuration and substitutes placeholders in string
// leaves. Maps and slices are copied so the declaration stays pristine.
func (s *Service) expandValue(value interface{}) interface{} {
	switch actual := value.(type) {
	case map[string]interface{}:
		ret := make(map[string]interface{}, len(actual))
		for k, v := range actual {
			ret[k] = s.expandValue(v)
		}
		return ret
	case []interface{}:
		ret := make([]interface{}, len(actual))
		for i, v := range actual {
			ret[i] = s.expandValue(v)
		}
		return ret
	case string:
		return s.expandString(actual)
	default:
		return actual
	}
}

func (s *Service) expandString(value string) string {
	return placeholderExpr.ReplaceAllStringFunc(value, func(match string) string {
		name := match[2 : len(match)-2]
		if resolved, ok := s.lookup(name); ok {
			return resolved
		}
		log.Printf("[tool] environment variable %s is not set", name)
		return ""
	})
}

// revealSecret loads an encrypted credential when the configuration declares
// a secretURL, storing the plain text under apiKey. The secretURL and
// secretKey entries are removed from the resolved configuration.
func (s *Service) revealSecret(ctx context.Context, name string, config map[string]interface{}) error {
	secretURL, ok := config["secretURL"].(string)
	if !ok || secretURL == "" {
		return nil
	}
	key, _ := config["secretKey"].(string)
	resource := scy.NewResource(nil, secretURL, key)
	secret, err := s.scyService.Load(ctx, resource)
	if err != nil {
		return fmt.Errorf("failed to load secret for tool %s: %w", name, err)
	}
	config["apiKey"] = secret.String()
	delete(config, "secretURL")
	delete(config, "secretKey")
	return nil
}
