// Package feedback implements the FeedbackTrainerAgent capability. It turns
// campaign engagement into performance metrics and actionable recommendations
// and persists a feedback report for later review.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/internal/clock"
	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

const Name = "FeedbackTrainerAgent"

// storeTool is the tool name carrying the feedback store configuration.
const storeTool = "FeedbackStore"

const defaultOutputURL = "data"

// Response is the engagement record produced by the response tracker step.
type Response struct {
	Email         string `json:"email"`
	Lead          string `json:"lead"`
	Company       string `json:"company"`
	Opened        bool   `json:"opened"`
	Clicked       bool   `json:"clicked"`
	Replied       bool   `json:"replied"`
	MeetingBooked bool   `json:"meeting_booked"`
}

// ScoredLead is the shape produced by the scoring step.
type ScoredLead struct {
	Company string  `json:"company"`
	Score   float64 `json:"score"`
}

// Input holds the resolved step inputs.
type Input struct {
	Responses   []Response               `json:"responses"`
	Messages    []map[string]interface{} `json:"messages"`
	ScoredLeads []ScoredLead             `json:"scored_leads"`
}

// Service implements the feedback trainer capability.
type Service struct {
	step      *graph.Step
	tools     types.ToolConfigs
	reasoning types.Reasoning
	converter *conv.Converter
	fs        afs.Service
	now       func() time.Time
}

// New creates a feedback trainer capability for one step invocation.
func New(step *graph.Step, tools types.ToolConfigs) (types.Capability, error) {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return &Service{
		step:      step,
		tools:     tools,
		converter: conv.NewConverter(options),
		fs:        afs.New(),
		now:       clock.Now,
	}, nil
}

// InitTypes registers the capability data types.
func InitTypes(registry *extension.Types) {
	registry.Register(x.NewType(reflect.TypeOf(Input{}), x.WithName("feedback.Input")))
}

// Name returns the capability name.
func (s *Service) Name() string {
	return Name
}

// Reasoning returns the reasoning trail of the last execution.
func (s *Service) Reasoning() *types.Reasoning {
	return &s.reasoning
}

// Execute analyzes campaign performance and returns "metrics" and
// "recommendations". The report is additionally persisted as JSON; a
// persistence failure is observed but does not fail the step.
func (s *Service) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	s.reasoning.Think("Starting campaign performance analysis")

	input := &Input{}
	if err := s.converter.Convert(inputs, input); err != nil {
		return nil, fmt.Errorf("%s: invalid inputs: %w", Name, err)
	}
	s.reasoning.Think(fmt.Sprintf("Analyzing %d campaign responses", len(input.Responses)))

	metrics := s.calculateMetrics(input.Responses)
	s.reasoning.Observe(fmt.Sprintf("Metrics calculated: Open rate: %.1f%%, Reply rate: %.1f%%",
		metrics["open_rate"], metrics["reply_rate"]))

	recommendations := s.recommendations(metrics, input.ScoredLeads)
	s.reasoning.Observe(fmt.Sprintf("Generated %d recommendations", len(recommendations)))

	if err := s.persist(ctx, metrics, recommendations); err != nil {
		s.reasoning.Observe(fmt.Sprintf("Failed to persist feedback report: %v", err))
	}

	return map[string]interface{}{
		"metrics":         toOutput(metrics),
		"recommendations": recommendations,
	}, nil
}

func (s *Service) calculateMetrics(responses []Response) map[string]float64 {
	total := len(responses)
	if total == 0 {
		return map[string]float64{
			"open_rate":    0,
			"click_rate":   0,
			"reply_rate":   0,
			"meeting_rate": 0,
		}
	}
	var opened, clicked, replied, meetings int
	for _, response := range responses {
		if response.Opened {
			opened++
		}
		if response.Clicked {
			clicked++
		}
		if response.Replied {
			replied++
		}
		if response.MeetingBooked {
			meetings++
		}
	}
	return map[string]float64{
		"total_sent":     float64(total),
		"total_opened":   float64(opened),
		"total_clicked":  float64(clicked),
		"total_replied":  float64(replied),
		"total_meetings": float64(meetings),
		"open_rate":      float64(opened) / float64(total) * 100,
		"click_rate":     float64(clicked) / float64(total) * 100,
		"reply_rate":     float64(replied) / float64(total) * 100,
		"meeting_rate":   float64(meetings) / float64(total) * 100,
	}
}

func (s *Service) recommendations(metrics map[string]float64, scoredLeads []ScoredLead) []interface{} {
	var recommendations []interface{}
	add := func(category, suggestion, confidence, current, target string) {
		recommendations = append(recommendations, map[string]interface{}{
			"category":      category,
			"suggestion":    suggestion,
			"confidence":    confidence,
			"current_value": current,
			"target_value":  target,
		})
	}

	if metrics["open_rate"] < 20 {
		add("Subject Lines",
			"Open rate is below industry average (20%). Consider testing more personalized subject lines that reference company-specific news or pain points.",
			"high", fmt.Sprintf("%.1f%%", metrics["open_rate"]), "25-30%")
	}
	if metrics["reply_rate"] < 2 {
		add("Email Content",
			"Reply rate is low. Try shorter emails (under 100 words), clearer value propositions, and more specific CTAs.",
			"high", fmt.Sprintf("%.1f%%", metrics["reply_rate"]), "3-5%")
	}
	if metrics["meeting_rate"] < 0.5 && metrics["reply_rate"] > 2 {
		add("Call-to-Action",
			"Good reply rate but low meeting bookings. Make CTAs more specific (e.g., \"15-min call Tuesday 2pm?\") and include calendar links.",
			"medium", fmt.Sprintf("%.1f%%", metrics["meeting_rate"]), "1-2%")
	}

	if len(scoredLeads) > 0 {
		var sum float64
		for _, lead := range scoredLeads {
			sum += lead.Score
		}
		if average := sum / float64(len(scoredLeads)); average < 70 {
			add("ICP Targeting",
				"Average lead score is below 70. Consider tightening ICP criteria to focus on higher-quality prospects.",
				"medium", fmt.Sprintf("%.1f", average), "75+")
		}
	}

	if metrics["open_rate"] > 25 {
		add("Subject Lines",
			"Subject lines are performing well! Document winning patterns and continue A/B testing.",
			"high", fmt.Sprintf("%.1f%%", metrics["open_rate"]), "Maintain")
	}
	if metrics["meeting_rate"] > 1 {
		add("Overall Performance",
			"Excellent meeting booking rate! Scale this campaign and document the messaging approach.",
			"high", fmt.Sprintf("%.1f%%", metrics["meeting_rate"]), "Scale")
	}
	return recommendations
}

// persist uploads the feedback report to the configured store. The store URL
// may point at any afs-supported scheme; it defaults to a local data folder.
func (s *Service) persist(ctx context.Context, metrics map[string]float64, recommendations []interface{}) error {
	outputURL := defaultOutputURL
	if config := s.tools.Config(storeTool); config != nil {
		if configured, ok := config["output_url"].(string); ok && configured != "" {
			outputURL = configured
		}
	}
	report := map[string]interface{}{
		"timestamp":       s.now().Format(time.RFC3339),
		"metrics":         toOutput(metrics),
		"recommendations": recommendations,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	destination := url.Join(outputURL, fmt.Sprintf("feedback_%s.json", s.now().Format("20060102_150405")))
	if err := s.fs.Upload(ctx, destination, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return err
	}
	s.reasoning.Observe(fmt.Sprintf("Feedback saved to %s", destination))
	return nil
}

func toOutput(metrics map[string]float64) map[string]interface{} {
	ret := make(map[string]interface{}, len(metrics))
	for key, value := range metrics {
		ret[key] = value
	}
	return ret
}
