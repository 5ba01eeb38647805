package intent

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
)

//go:embed prompt/classify_system.md
var classifySystemPromptTmpl string

var classifySystemPrompt = template.Must(template.New("classify_system").Parse(classifySystemPromptTmpl))

//go:embed prompt/summary_system.md
var summarySystemPrompt string

const fallbackReply = "Sorry, I couldn't work out what you need. I can list your issues, comment on an issue, change an issue's status, create issues, and show statuses or people."

// Service classifies chat messages and summarizes operation results with an
// LLM. It satisfies interfaces.IntentService.
type Service struct {
	llmClient gollem.LLMClient
}

var _ interfaces.IntentService = &Service{}

func New(llmClient gollem.LLMClient) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required", goerr.T(types.ErrTagConfig))
	}
	return &Service{llmClient: llmClient}, nil
}

// classifyResponse is the structured output of the classifier session.
type classifyResponse struct {
	Kind         string `json:"kind"`
	FunctionName string `json:"function_name"`
	Arguments    string `json:"arguments"`
	Reply        string `json:"reply"`
}

func classifySchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "IntentClassification",
		Description: "Either an operation call or a direct reply",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"kind": {
				Type:        gollem.TypeString,
				Description: "Either 'call' or 'reply'",
				Required:    true,
			},
			"function_name": {
				Type:        gollem.TypeString,
				Description: "The operation to invoke when kind is 'call'",
			},
			"arguments": {
				Type:        gollem.TypeString,
				Description: "The operation arguments as a JSON object encoded in a string",
			},
			"reply": {
				Type:        gollem.TypeString,
				Description: "The direct answer when kind is 'reply'",
			},
		},
	}
}

func renderHistory(history []*model.Message) string {
	if len(history) == 0 {
		return "(no prior messages)"
	}

	var sb strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Text)
	}
	return sb.String()
}

// Classify decides whether the latest message calls an operation or gets a
// direct reply. A non-empty scrumPrompt is appended to the system prompt so
// the model knows a standup collection is in progress. A response the model
// fails to structure correctly becomes a fallback reply rather than an
// error, so one bad completion does not fail the whole turn.
func (s *Service) Classify(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
	var promptBuf bytes.Buffer
	if err := classifySystemPrompt.Execute(&promptBuf, map[string]string{
		"History": renderHistory(history),
		"Scrum":   scrumPrompt,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render classifier prompt")
	}

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(classifySchema()),
		gollem.WithSessionSystemPrompt(promptBuf.String()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create classifier session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(message))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify message")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("classifier returned no content")
	}

	var parsed classifyResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		logging.From(ctx).Warn("unparseable classifier response",
			"response", resp.Texts[0], "error", err.Error())
		return model.NewReplyIntent(fallbackReply), nil
	}

	if parsed.Kind != "call" {
		reply := parsed.Reply
		if reply == "" {
			reply = fallbackReply
		}
		return model.NewReplyIntent(reply), nil
	}

	op, err := types.ParseOperation(parsed.FunctionName)
	if err != nil {
		logging.From(ctx).Warn("classifier picked unknown operation",
			"functionName", parsed.FunctionName)
		return model.NewReplyIntent(fallbackReply), nil
	}

	args := map[string]any{}
	if parsed.Arguments != "" {
		if err := json.Unmarshal([]byte(parsed.Arguments), &args); err != nil {
			logging.From(ctx).Warn("unparseable operation arguments",
				"arguments", parsed.Arguments, "error", err.Error())
			return model.NewReplyIntent(fallbackReply), nil
		}
	}

	return model.NewCallIntent(op, args), nil
}

// Summarize renders an operation result as a short human sentence. Callers
// treat failures as non-fatal and fall back to a canned summary.
func (s *Service) Summarize(ctx context.Context, envelope *model.Envelope) (string, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode envelope for summary")
	}

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(summarySystemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create summarizer session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(string(payload)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to summarize result")
	}
	if len(resp.Texts) == 0 || strings.TrimSpace(resp.Texts[0]) == "" {
		return "", goerr.New("summarizer returned no content")
	}

	return strings.TrimSpace(resp.Texts[0]), nil
}

const greetSystemPrompt = "You write the opening line of a Jira assistant chatbot. Given a user's name, answer with one short friendly greeting addressed to them. No emoji, no questions."

// Greet personalizes the greeting line. Callers fall back to the canned
// greeting on any failure.
func (s *Service) Greet(ctx context.Context, name string) (string, error) {
	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(greetSystemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create greeter session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(name))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate greeting")
	}
	if len(resp.Texts) == 0 || strings.TrimSpace(resp.Texts[0]) == "" {
		return "", goerr.New("greeter returned no content")
	}
	return strings.TrimSpace(resp.Texts[0]), nil
}
