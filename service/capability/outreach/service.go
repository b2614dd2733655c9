// Package outreach implements the OutreachExecutorAgent capability. It sends
// the generated emails through the SendGrid API; in dry-run mode (the
// default) sends are simulated and no mail leaves the process.
package outreach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/internal/clock"
	"github.com/prospectio/leadflow/internal/idgen"
	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

const Name = "OutreachExecutorAgent"

const sendGridTool = "SendGrid"

const defaultEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Message is the shape produced by the content generation step.
type Message struct {
	Lead      string `json:"lead"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	EmailBody string `json:"email_body"`
	Company   string `json:"company"`
}

// Input holds the resolved step inputs. DryRun defaults to true when the step
// does not set it explicitly.
type Input struct {
	Messages []Message `json:"messages"`
	DryRun   *bool     `json:"dry_run"`
}

// Service implements the outreach executor capability.
type Service struct {
	step      *graph.Step
	tools     types.ToolConfigs
	reasoning types.Reasoning
	converter *conv.Converter
	client    *http.Client
	now       func() time.Time
}

// New creates an outreach executor capability for one step invocation.
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
		now:       clock.Now,
	}, nil
}

// InitTypes registers the capability data types.
func InitTypes(registry *extension.Types) {
	registry.Register(x.NewType(reflect.TypeOf(Input{}), x.WithName("outreach.Input")))
}

// Name returns the capability name.
func (s *Service) Name() string {
	return Name
}

// Reasoning returns the reasoning trail of the last execution.
func (s *Service) Reasoning() *types.Reasoning {
	return &s.reasoning
}

// Execute processes every message and returns "campaign_id" together with a
// per-message "sent_status" array.
func (s *Service) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	s.reasoning.Think("Starting email outreach execution")

	input := &Input{}
	if err := s.converter.Convert(inputs, input); err != nil {
		return nil, fmt.Errorf("%s: invalid inputs: %w", Name, err)
	}
	dryRun := true
	if input.DryRun != nil {
		dryRun = *input.DryRun
	}
	s.reasoning.Think(fmt.Sprintf("Preparing to send %d emails", len(input.Messages)))
	if dryRun {
		s.reasoning.Observe("DRY RUN MODE - no emails will actually be sent")
	}

	campaignID := fmt.Sprintf("campaign_%s_%s", shortID(8), s.now().Format("20060102"))

	sentStatus := make([]interface{}, 0, len(input.Messages))
	for i := range input.Messages {
		message := &input.Messages[i]
		s.reasoning.Act(fmt.Sprintf("Processing email to %s at %s", message.Lead, message.Email), nil)

		var status map[string]interface{}
		if dryRun {
			status = s.simulateSend(message)
		} else {
			status = s.sendWithSendGrid(ctx, message)
		}
		sentStatus = append(sentStatus, status)
		s.reasoning.Observe(fmt.Sprintf("Email to %s: %v", message.Lead, status["status"]))
	}

	success := 0
	for _, entry := range sentStatus {
		status := entry.(map[string]interface{})["status"]
		if status == "sent" || status == "simulated" {
			success++
		}
	}
	s.reasoning.Observe(fmt.Sprintf("Campaign complete: %d/%d emails processed", success, len(input.Messages)))

	return map[string]interface{}{
		"campaign_id": campaignID,
		"sent_status": sentStatus,
	}, nil
}

func (s *Service) simulateSend(message *Message) map[string]interface{} {
	return map[string]interface{}{
		"email":      message.Email,
		"lead":       message.Lead,
		"company":    message.Company,
		"status":     "simulated",
		"timestamp":  s.now().Format(time.RFC3339),
		"message_id": "sim_" + shortID(12),
	}
}

func (s *Service) sendWithSendGrid(ctx context.Context, message *Message) map[string]interface{} {
	failed := func(reason string) map[string]interface{} {
		return map[string]interface{}{
			"email":     message.Email,
			"lead":      message.Lead,
			"status":    "failed",
			"error":     reason,
			"timestamp": s.now().Format(time.RFC3339),
		}
	}

	config := s.tools.Config(sendGridTool)
	if config == nil {
		return failed("SendGrid not configured")
	}
	apiKey, _ := config["api_key"].(string)
	if apiKey == "" {
		return failed("SendGrid API key not set")
	}
	fromEmail, _ := config["from_email"].(string)
	fromName, _ := config["from_name"].(string)
	endpoint, _ := config["endpoint"].(string)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	payload := map[string]interface{}{
		"personalizations": []interface{}{
			map[string]interface{}{
				"to": []interface{}{
					map[string]interface{}{"email": message.Email, "name": message.Lead},
				},
			},
		},
		"from":    map[string]interface{}{"email": fromEmail, "name": fromName},
		"subject": message.Subject,
		"content": []interface{}{
			map[string]interface{}{"type": "text/plain", "value": message.EmailBody},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return failed(err.Error())
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return failed(err.Error())
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+apiKey)

	response, err := s.client.Do(request)
	if err != nil {
		return failed(err.Error())
	}
	defer response.Body.Close()
	if response.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(response.Body)
		return failed(fmt.Sprintf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body))))
	}

	messageID := response.Header.Get("X-Message-Id")
	if messageID == "" {
		messageID = "unknown"
	}
	return map[string]interface{}{
		"email":       message.Email,
		"lead":        message.Lead,
		"company":     message.Company,
		"status":      "sent",
		"timestamp":   s.now().Format(time.RFC3339),
		"message_id":  messageID,
		"status_code": response.StatusCode,
	}
}

func shortID(length int) string {
	id := strings.ReplaceAll(idgen.New(), "-", "")
	if length > len(id) {
		length = len(id)
	}
	return id[:length]
}
