// Package scoring implements the ScoringAgent capability. Enriched leads are
// scored against weighted ICP criteria, filtered by a minimum score threshold
// and ranked highest first.
package scoring

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

const Name = "ScoringAgent"

// EnrichedLead is the shape produced by the enrichment step.
type EnrichedLead struct {
	Company            string   `json:"company"`
	Contact            string   `json:"contact"`
	Email              string   `json:"email"`
	Role               string   `json:"role"`
	Technologies       []string `json:"technologies"`
	CompanyDescription string   `json:"company_description"`
	RecentNews         string   `json:"recent_news"`
}

// Thresholds bounds lead acceptance.
type Thresholds struct {
	MinScore float64 `json:"min_score"`
}

// Criteria carries scoring weights and thresholds.
type Criteria struct {
	Weights    map[string]float64 `json:"weights"`
	Thresholds *Thresholds        `json:"thresholds"`
}

// Input holds the resolved step inputs.
type Input struct {
	EnrichedLeads   []EnrichedLead `json:"enriched_leads"`
	ScoringCriteria *Criteria      `json:"scoring_criteria"`
}

// Service implements the lead scoring capability.
type Service struct {
	step      *graph.Step
	tools     types.ToolConfigs
	reasoning types.Reasoning
	converter *conv.Converter
}

// New creates a scoring capability for one step invocation.
func New(step *graph.Step, tools types.ToolConfigs) (types.Capability, error) {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return &Service{
		step:      step,
		tools:     tools,
		converter: conv.NewConverter(options),
	}, nil
}

// InitTypes registers the capability data types.
func InitTypes(registry *extension.Types) {
	registry.Register(x.NewType(reflect.TypeOf(Input{}), x.WithName("scoring.Input")))
}

// Name returns the capability name.
func (s *Service) Name() string {
	return Name
}

// Reasoning returns the reasoning trail of the last execution.
func (s *Service) Reasoning() *types.Reasoning {
	return &s.reasoning
}

var defaultWeights = map[string]float64{
	"revenue_match":    0.3,
	"employee_match":   0.2,
	"technology_match": 0.2,
	"signal_strength":  0.3,
}

const defaultMinScore = 60

// Execute scores and ranks leads, returning those above the threshold under
// the "ranked_leads" key, sorted by score descending.
func (s *Service) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	s.reasoning.Think("Starting lead scoring based on ICP criteria")

	input := &Input{}
	if err := s.converter.Convert(inputs, input); err != nil {
		return nil, fmt.Errorf("%s: invalid inputs: %w", Name, err)
	}
	s.reasoning.Think(fmt.Sprintf("Scoring %d leads using weighted criteria", len(input.EnrichedLeads)))

	weights := defaultWeights
	minScore := float64(defaultMinScore)
	if criteria := input.ScoringCriteria; criteria != nil {
		if len(criteria.Weights) > 0 {
			weights = criteria.Weights
		}
		if criteria.Thresholds != nil && criteria.Thresholds.MinScore > 0 {
			minScore = criteria.Thresholds.MinScore
		}
	}

	type scored struct {
		lead      *EnrichedLead
		total     float64
		breakdown map[string]interface{}
	}
	var accepted []scored
	for i := range input.EnrichedLeads {
		lead := &input.EnrichedLeads[i]
		s.reasoning.Act(fmt.Sprintf("Scoring lead: %s", lead.Company), nil)

		breakdown := s.scoreBreakdown(lead, weights)
		var total float64
		for _, component := range breakdown {
			total += component.(float64)
		}
		if total < minScore {
			continue
		}
		accepted = append(accepted, scored{lead: lead, total: round2(total), breakdown: breakdown})
		s.reasoning.Observe(fmt.Sprintf("%s scored %.2f", lead.Company, total))
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].total > accepted[j].total
	})
	s.reasoning.Observe(fmt.Sprintf("Ranked %d leads above threshold (%v)", len(accepted), minScore))

	ranked := make([]interface{}, 0, len(accepted))
	for _, entry := range accepted {
		technologies := make([]interface{}, 0, len(entry.lead.Technologies))
		for _, tech := range entry.lead.Technologies {
			technologies = append(technologies, tech)
		}
		ranked = append(ranked, map[string]interface{}{
			"company":             entry.lead.Company,
			"contact":             entry.lead.Contact,
			"email":               entry.lead.Email,
			"role":                entry.lead.Role,
			"score":               entry.total,
			"score_breakdown":     entry.breakdown,
			"technologies":        technologies,
			"company_description": entry.lead.CompanyDescription,
			"recent_news":         entry.lead.RecentNews,
		})
	}
	return map[string]interface{}{"ranked_leads": ranked}, nil
}

// scoreBreakdown computes the weighted score components. Revenue and employee
// matches are treated as pre-filtered by the search step and receive fixed
// base scores.
func (s *Service) scoreBreakdown(lead *EnrichedLead, weights map[string]float64) map[string]interface{} {
	weightOf := func(name string, fallback float64) float64 {
		if value, ok := weights[name]; ok {
			return value
		}
		return fallback
	}
	return map[string]interface{}{
		"revenue_match":    90 * weightOf("revenue_match", 0.3),
		"employee_match":   85 * weightOf("employee_match", 0.2),
		"technology_match": scoreTechnologies(lead.Technologies) * weightOf("technology_match", 0.2),
		"signal_strength":  scoreSignals(lead) * weightOf("signal_strength", 0.3),
	}
}

var valuableTech = map[string]float64{
	"Salesforce":   20,
	"HubSpot":      20,
	"AWS":          15,
	"Azure":        15,
	"Google Cloud": 15,
	"Slack":        10,
	"Zoom":         10,
	"Docker":       10,
	"Kubernetes":   10,
}

func scoreTechnologies(technologies []string) float64 {
	var score float64
	for _, tech := range technologies {
		if value, ok := valuableTech[tech]; ok {
			score += value
			continue
		}
		score += 5
	}
	return math.Min(score, 100)
}

func scoreSignals(lead *EnrichedLead) float64 {
	score := float64(50)
	news := strings.ToLower(lead.RecentNews)
	if strings.Contains(news, "funding") || strings.Contains(news, "raised") || strings.Contains(news, "raises") {
		score += 30
	}
	if strings.Contains(news, "hiring") || strings.Contains(news, "expands") {
		score += 20
	}
	if strings.Contains(news, "growth") || strings.Contains(news, "earnings") {
		score += 15
	}
	if strings.Contains(news, "new product") || strings.Contains(news, "launches") {
		score += 10
	}
	role := strings.ToLower(lead.Role)
	if strings.Contains(role, "vp") || strings.Contains(role, "vice president") {
		score += 10
	} else if strings.Contains(role, "director") {
		score += 5
	}
	return math.Min(score, 100)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
