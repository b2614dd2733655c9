// Package content implements the OutreachContentAgent capability. It writes a
// personalized outreach email for every ranked lead, preferring the OpenAI
// chat completion API and falling back to a deterministic template.
package content

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

const Name = "OutreachContentAgent"

const openAITool = "OpenAI"

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4o-mini"
)

// RankedLead is the shape produced by the scoring step.
type RankedLead struct {
	Company            string   `json:"company"`
	Contact            string   `json:"contact"`
	Email              string   `json:"email"`
	Role               string   `json:"role"`
	Score              float64  `json:"score"`
	Technologies       []string `json:"technologies"`
	CompanyDescription string   `json:"company_description"`
	RecentNews         string   `json:"recent_news"`
}

// Input holds the resolved step inputs.
type Input struct {
	RankedLeads []RankedLead `json:"ranked_leads"`
	Persona     string       `json:"persona"`
	Tone        string       `json:"tone"`
}

// Service implements the outreach content capability.
type Service struct {
	step      *graph.Step
	tools     types.ToolConfigs
	reasoning types.Reasoning
	converter *conv.Converter
	client    *http.Client
}

// New creates an outreach content capability for one step invocation.
func New(step *graph.Step, tools types.ToolConfigs) (types.Capability, error) {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return &Service{
		step:      step,
		tools:     tools,
		converter: conv.NewConverter(options),
		client:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// InitTypes registers the capability data types.
func InitTypes(registry *extension.Types) {
	registry.Register(x.NewType(reflect.TypeOf(Input{}), x.WithName("content.Input")))
}

// Name returns the capability name.
func (s *Service) Name() string {
	return Name
}

// Reasoning returns the reasoning trail of the last execution.
func (s *Service) Reasoning() *types.Reasoning {
	return &s.reasoning
}

// Execute generates one email per ranked lead, returned under the "messages"
// key.
func (s *Service) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	s.reasoning.Think("Starting outreach content generation")

	input := &Input{}
	if err := s.converter.Convert(inputs, input); err != nil {
		return nil, fmt.Errorf("%s: invalid inputs: %w", Name, err)
	}
	if input.Persona == "" {
		input.Persona = "SDR"
	}
	if input.Tone == "" {
		input.Tone = "friendly and professional"
	}
	s.reasoning.Think(fmt.Sprintf("Generating personalized emails for %d leads", len(input.RankedLeads)))
	s.reasoning.Think(fmt.Sprintf("Persona: %s, Tone: %s", input.Persona, input.Tone))

	messages := make([]interface{}, 0, len(input.RankedLeads))
	for i := range input.RankedLeads {
		lead := &input.RankedLeads[i]
		s.reasoning.Act(fmt.Sprintf("Generating email for %s at %s", lead.Contact, lead.Company), nil)

		subject, body := s.generateEmail(ctx, lead, input.Persona, input.Tone)
		messages = append(messages, map[string]interface{}{
			"lead":       lead.Contact,
			"email":      lead.Email,
			"subject":    subject,
			"email_body": body,
			"company":    lead.Company,
		})
		s.reasoning.Observe(fmt.Sprintf("Generated email for %s", lead.Contact))
	}
	s.reasoning.Observe(fmt.Sprintf("Successfully generated %d personalized emails", len(messages)))

	return map[string]interface{}{"messages": messages}, nil
}

func (s *Service) generateEmail(ctx context.Context, lead *RankedLead, persona, tone string) (string, string) {
	if s.tools.Has(openAITool) {
		if subject, body, ok := s.generateWithOpenAI(ctx, lead, persona, tone); ok {
			return subject, body
		}
	}
	s.reasoning.Observe("Using template-based email generation")
	return s.templateEmail(lead)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *Service) generateWithOpenAI(ctx context.Context, lead *RankedLead, persona, tone string) (string, string, bool) {
	config := s.tools.Config(openAITool)
	apiKey, _ := config["api_key"].(string)
	if apiKey == "" {
		return "", "", false
	}
	model, _ := config["model"].(string)
	if model == "" {
		model = defaultModel
	}
	endpoint, _ := config["endpoint"].(string)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	prompt := fmt.Sprintf(`You are a %s writing a personalized outreach email.

Lead Information:
- Name: %s
- Role: %s
- Company: %s
- Company Description: %s
- Recent News: %s
- Technologies: %s
- Lead Score: %v/100

Task:
Write a %s outreach email to this prospect. The email should:
1. Be personalized based on their company and recent news
2. Be concise (under 150 words)
3. Have a clear value proposition
4. Include a specific call-to-action (schedule a 15-min call)
5. Sound natural and human, not salesy

Product: Analytos.ai - AI-powered sales analytics and lead generation platform

Return ONLY two things:
SUBJECT: [subject line here]
BODY: [email body here]
`, persona, lead.Contact, lead.Role, lead.Company,
		orNA(lead.CompanyDescription), orNA(lead.RecentNews),
		strings.Join(lead.Technologies, ", "), lead.Score, tone)

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert sales copywriter who writes compelling, personalized outreach emails."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", "", false
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", "", false
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+apiKey)

	response, err := s.client.Do(request)
	if err != nil {
		s.reasoning.Observe(fmt.Sprintf("OpenAI API error: %v", err))
		return "", "", false
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		s.reasoning.Observe(fmt.Sprintf("OpenAI API error: %d", response.StatusCode))
		return "", "", false
	}
	var parsed chatResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil || len(parsed.Choices) == 0 {
		return "", "", false
	}

	subject, body := parseCompletion(parsed.Choices[0].Message.Content)
	if subject == "" {
		subject = s.subjectFor(lead)
	}
	return subject, body, true
}

// parseCompletion extracts the SUBJECT: and BODY: sections from the model
// response; when no BODY marker is present the whole completion becomes the
// body.
func parseCompletion(content string) (string, string) {
	content = strings.TrimSpace(content)
	lines := strings.Split(content, "\n")
	var subject, body string
	for i, line := range lines {
		if strings.HasPrefix(line, "SUBJECT:") {
			subject = strings.TrimSpace(strings.TrimPrefix(line, "SUBJECT:"))
			continue
		}
		if strings.HasPrefix(line, "BODY:") {
			body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			break
		}
	}
	if body == "" {
		body = content
	}
	return subject, body
}

func (s *Service) templateEmail(lead *RankedLead) (string, string) {
	news := lead.RecentNews
	if news == "" {
		news = "has been growing"
	}
	body := fmt.Sprintf(`Hi %s,

I noticed %s recently %s.

At Analytos.ai, we help B2B companies like %s streamline their lead generation process using AI-powered analytics. Our platform has helped similar companies increase qualified leads by 40%% while reducing manual research time by 60%%.

Given %s's growth trajectory and your role as %s, I thought this might be relevant for your team.

Would you be open to a quick 15-minute call next week to explore how we could help %s scale your sales efforts more efficiently?

Best regards,
Sales Team
Analytos.ai`, firstName(lead.Contact), lead.Company, strings.ToLower(news),
		lead.Company, lead.Company, lead.Role, lead.Company)
	return s.subjectFor(lead), body
}

var subjectTemplates = []string{
	"Quick question about %s's sales process",
	"Helping %s scale lead generation",
	"Scaling sales at %s",
	"Re: %s's recent growth",
}

func (s *Service) subjectFor(lead *RankedLead) string {
	template := subjectTemplates[len(lead.Company)%len(subjectTemplates)]
	return fmt.Sprintf(template, lead.Company)
}

func firstName(contact string) string {
	if fields := strings.Fields(contact); len(fields) > 0 {
		return fields[0]
	}
	return contact
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
