// Package prospect implements the ProspectSearchAgent capability. It searches
// for prospects matching ICP criteria using the Apollo API, falling back to a
// built-in sample data set when the API is not configured or unavailable.
package prospect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

const Name = "ProspectSearchAgent"

// apolloTool is the tool name carrying the Apollo API configuration.
const apolloTool = "ApolloAPI"

const defaultEndpoint = "https://api.apollo.io/v1/mixed_people/search"

// EmployeeRange bounds the target company head count.
type EmployeeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ICP describes the ideal customer profile driving the search.
type ICP struct {
	Industry      string        `json:"industry"`
	Location      string        `json:"location"`
	EmployeeCount EmployeeRange `json:"employee_count"`
	Signals       []string      `json:"signals"`
}

// Input holds the resolved step inputs.
type Input struct {
	ICP     ICP      `json:"icp"`
	Signals []string `json:"signals"`
	Limit   int      `json:"limit"`
}

// Service implements the prospect search capability.
type Service struct {
	step      *graph.Step
	tools     types.ToolConfigs
	reasoning types.Reasoning
	converter *conv.Converter
	client    *http.Client
}

// New creates a prospect search capability for one step invocation.
func New(step *graph.Step, tools types.ToolConfigs) (types.Capability, error) {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return &Service{
		step:      step,
		tools:     tools,
		converter: conv.NewConverter(options),
		client:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// InitTypes registers the capability data types.
func InitTypes(registry *extension.Types) {
	registry.Register(x.NewType(reflect.TypeOf(Input{}), x.WithName("prospect.Input")))
}

// Name returns the capability name.
func (s *Service) Name() string {
	return Name
}

// Reasoning returns the reasoning trail of the last execution.
func (s *Service) Reasoning() *types.Reasoning {
	return &s.reasoning
}

// Execute searches for prospects matching the ICP criteria and returns them
// under the "leads" key.
func (s *Service) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	s.reasoning.Think("Starting prospect search based on ICP criteria")

	input := &Input{}
	if err := s.converter.Convert(inputs, input); err != nil {
		return nil, fmt.Errorf("%s: invalid inputs: %w", Name, err)
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}

	s.reasoning.Think(fmt.Sprintf("ICP: %s companies in %s with %d-%d employees",
		input.ICP.Industry, input.ICP.Location,
		input.ICP.EmployeeCount.Min, input.ICP.EmployeeCount.Max))

	leads, err := s.searchApollo(ctx, input)
	if err != nil {
		s.reasoning.Observe(fmt.Sprintf("Apollo API error: %v", err))
		leads = nil
	}
	if len(leads) == 0 {
		s.reasoning.Observe("Apollo API unavailable, using sample data")
		leads = s.sampleLeads(input)
	}
	s.reasoning.Observe(fmt.Sprintf("Found %d qualified leads", len(leads)))

	return map[string]interface{}{"leads": leads}, nil
}

type apolloResponse struct {
	People []struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Title        string `json:"title"`
		LinkedinURL  string `json:"linkedin_url"`
		Organization struct {
			Name                  string `json:"name"`
			EstimatedNumEmployees int    `json:"estimated_num_employees"`
		} `json:"organization"`
	} `json:"people"`
}

func (s *Service) searchApollo(ctx context.Context, input *Input) ([]interface{}, error) {
	config := s.tools.Config(apolloTool)
	if config == nil {
		return nil, nil
	}
	apiKey, _ := config["api_key"].(string)
	if apiKey == "" {
		s.reasoning.Observe("Apollo API key not configured")
		return nil, nil
	}

	s.reasoning.Act("Calling Apollo API", map[string]interface{}{"endpoint": "mixed_people/search"})

	location := input.ICP.Location
	if location == "" {
		location = "USA"
	}
	perPage := input.Limit
	if perPage > 25 {
		perPage = 25
	}
	payload := map[string]interface{}{
		"person_titles":      []string{"VP", "Director", "Head", "Chief", "Manager"},
		"person_seniorities": []string{"vp", "director", "head"},
		"organization_locations": []string{
			location,
		},
		"organization_num_employees_ranges": []string{
			fmt.Sprintf("%d,%d", input.ICP.EmployeeCount.Min, input.ICP.EmployeeCount.Max),
		},
		"page":     1,
		"per_page": perPage,
	}

	endpoint, _ := config["endpoint"].(string)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Cache-Control", "no-cache")
	request.Header.Set("X-Api-Key", apiKey)

	response, err := s.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		s.reasoning.Observe(fmt.Sprintf("Apollo API error: %d", response.StatusCode))
		return nil, nil
	}
	var parsed apolloResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	signal := "general_outreach"
	if len(input.Signals) > 0 {
		signal = input.Signals[0]
	}
	var leads []interface{}
	for i, person := range parsed.People {
		if i >= input.Limit {
			break
		}
		company := person.Organization.Name
		if company == "" {
			company = "Unknown"
		}
		name := person.Name
		if name == "" {
			name = "Unknown"
		}
		leads = append(leads, map[string]interface{}{
			"company":      company,
			"contact_name": name,
			"email":        person.Email,
			"title":        person.Title,
			"linkedin":     person.LinkedinURL,
			"company_size": person.Organization.EstimatedNumEmployees,
			"signal":       signal,
		})
	}
	s.reasoning.Observe(fmt.Sprintf("Apollo API returned %d leads", len(leads)))
	return leads, nil
}

type sampleLead struct {
	company string
	contact string
	email   string
	title   string
	size    int
}

var builtinLeads = []sampleLead{
	{"Salesforce", "Sarah Johnson", "sarah.johnson@salesforce.com", "VP of Sales", 500},
	{"HubSpot", "Michael Chen", "m.chen@hubspot.com", "Director of Marketing", 450},
	{"Zendesk", "Emily Rodriguez", "emily.r@zendesk.com", "Head of Business Development", 380},
	{"Atlassian", "David Park", "david.park@atlassian.com", "VP of Enterprise Sales", 600},
	{"Shopify", "Amanda Williams", "a.williams@shopify.com", "Director of Partnerships", 420},
	{"Slack", "James Martinez", "james.m@slack.com", "Head of Sales Operations", 350},
	{"Zoom", "Lisa Thompson", "l.thompson@zoom.us", "VP of Customer Success", 550},
	{"DocuSign", "Robert Garcia", "r.garcia@docusign.com", "Director of Sales", 400},
	{"Twilio", "Jessica Lee", "jessica.lee@twilio.com", "Head of Growth", 380},
	{"Stripe", "Christopher Brown", "chris.brown@stripe.com", "VP of Business Development", 500},
}

// sampleLeads materializes deterministic sample leads when no prospecting API
// is reachable, cycling the ICP signals across the result.
func (s *Service) sampleLeads(input *Input) []interface{} {
	signals := input.ICP.Signals
	if len(signals) == 0 {
		signals = input.Signals
	}
	if len(signals) == 0 {
		signals = []string{"general_outreach"}
	}
	limit := input.Limit
	if limit > len(builtinLeads) {
		limit = len(builtinLeads)
	}
	leads := make([]interface{}, 0, limit)
	for i := 0; i < limit; i++ {
		sample := builtinLeads[i]
		slug := strings.ReplaceAll(strings.ToLower(sample.contact), " ", "-")
		leads = append(leads, map[string]interface{}{
			"company":      sample.company,
			"contact_name": sample.contact,
			"email":        sample.email,
			"title":        sample.title,
			"linkedin":     fmt.Sprintf("https://linkedin.com/in/%s", slug),
			"company_size": sample.size,
			"signal":       signals[i%len(signals)],
		})
	}
	return leads
}
