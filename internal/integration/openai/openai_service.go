package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Intent is the structured output of the interpreter: a bot command and its
// positional arguments, plus a short reply in the user's language.
type Intent struct {
	Command     string   `json:"command" jsonschema_description:"Bot command without the slash, e.g. abv, ibu, prime, projects, or none"`
	Arguments   []string `json:"arguments" jsonschema_description:"Positional arguments for the command, numbers written with a dot as decimal separator"`
	UserMessage string   `json:"user_message" jsonschema_description:"A short message to show back to the user in their original language"`
}

// IntentService turns free text into a bot command
type IntentService interface {
	Interpret(ctx context.Context, userMessage string, commands []string) (*Intent, error)
}

// intentServiceImpl implements the IntentService interface.
type intentServiceImpl struct {
	client openai.Client
	schema *jsonschema.Schema
}

// GenerateSchema reflects the strict response schema of T. Structured outputs need
// every property inline, so definitions are not referenced.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// NewIntentService creates an IntentService backed by the OpenAI API
func NewIntentService(apiKey string) (IntentService, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is not set")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &intentServiceImpl{
		client: client,
		schema: GenerateSchema[Intent](),
	}, nil
}

// BuildSystemPrompt describes the available commands to the model
func BuildSystemPrompt(commands []string) string {
	return fmt.Sprintf(`You are the assistant of a homebrewing bot. The brewer writes in free text and you
translate the request into one of the bot's commands.

Available commands, with their argument order:
%s

Rules:
- Pick exactly one command. If nothing fits, command = "none".
- Arguments are plain numbers or words in the documented order. Convert units to the ones
  the command expects (gallons, pounds, ounces, °F, specific gravity).
- user_message: one short line in the user's language confirming what you will calculate,
  or answering briefly when command = "none".

Output **strictly** in JSON.`, strings.Join(commands, "\n"))
}

// Interpret sends a message to the model and returns the structured intent
func (s *intentServiceImpl) Interpret(ctx context.Context, userMessage string, commands []string) (*Intent, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "intent",
		Description: openai.String("Bot command, its arguments and a message for the user"),
		Schema:      s.schema,
		Strict:      openai.Bool(true),
	}

	respFormat := openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
	}

	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(BuildSystemPrompt(commands)),
			openai.UserMessage(userMessage),
		},
		ResponseFormat: respFormat,
		Model:          openai.ChatModelGPT4o,
	})
	if err != nil {
		return nil, fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, errors.New("received empty response from OpenAI")
	}

	return ParseIntent(chat.Choices[0].Message.Content)
}

// ParseIntent decodes the model's JSON answer
func ParseIntent(content string) (*Intent, error) {
	var intent Intent
	if err := json.Unmarshal([]byte(content), &intent); err != nil {
		slog.Warn("Failed to unmarshal OpenAI response", "error", err, "raw", content)
		return nil, fmt.Errorf("error unmarshalling OpenAI response: %w", err)
	}
	intent.Command = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(intent.Command)), "/")
	return &intent, nil
}
