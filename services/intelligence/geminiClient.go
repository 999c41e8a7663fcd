package ai

import (
	"context"
	"fmt"
	"time"

	"solarbot/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ChatSession is one model conversation with its history.
type ChatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// AssistantClient opens sessions for the solar or calendar assistant.
type AssistantClient interface {
	StartSession(kind models.AssistantKind, history []models.ChatTurn, now time.Time) ChatSession
}

type GeminiClient struct {
	client        *genai.Client
	solarModel    string
	calendarModel string
}

func NewGeminiClient(ctx context.Context, apiKey, solarModel, calendarModel string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: missing API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, solarModel: solarModel, calendarModel: calendarModel}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// StartSession configures a model with the assistant's instructions and
// tools and seeds it with the persisted turns.
func (g *GeminiClient) StartSession(kind models.AssistantKind, history []models.ChatTurn, now time.Time) ChatSession {
	var model *genai.GenerativeModel
	if kind == models.AssistantCalendar {
		model = g.client.GenerativeModel(g.calendarModel)
		model.SystemInstruction = genai.NewUserContent(genai.Text(CalendarInstructions(now)))
		model.Tools = calendarTools()
	} else {
		model = g.client.GenerativeModel(g.solarModel)
		model.SystemInstruction = genai.NewUserContent(genai.Text(SolarInstructions))
		model.Tools = append(solarTools(), calendarTools()...)
	}

	cs := model.StartChat()
	cs.History = historyContent(history)
	return cs
}

func historyContent(turns []models.ChatTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		if t.Text == "" {
			continue
		}
		role := "user"
		if t.Role == "model" {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Text)}})
	}
	return out
}

// responseParts splits the first candidate into text and function calls.
func responseParts(resp *genai.GenerateContentResponse) (string, []genai.FunctionCall) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var text string
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text += string(p)
		case genai.FunctionCall:
			calls = append(calls, p)
		case *genai.FunctionCall:
			calls = append(calls, *p)
		}
	}
	return text, calls
}
