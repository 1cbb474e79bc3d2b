package summary

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/autovalue/internal/domain/models"
	"github.com/mamadbah2/autovalue/pkg/clients/openai"
)

const (
	systemPrompt = "You are a knowledgeable car market expert who provides concise, practical advice to used car buyers."

	maxTokens   = 300
	temperature = 0.7
)

const userPromptTemplate = `You are a car market expert providing brief, practical advice to potential used car buyers. Analyze the following used car and provide a concise summary (3-4 sentences maximum).

Car Details:
- Brand & Model: %s %s
- Year: %d
- Mileage: %s km
- Engine: %d HP, %dL
- Fuel Type: %s
- Transmission: %s
- Estimated Market Price: $%s

Provide a summary that includes:
1. Whether this is a good market value (considering year, mileage, and price)
2. What buyers typically appreciate about this specific model
3. One key consideration or common issue for this year/model

Keep it concise, practical, and buyer-focused. Write in a friendly, professional tone.`

// Service produces a short natural-language buyer summary for a stored car
// valuation via a hosted chat-completion deployment.
type Service struct {
	chat   openai.Client
	logger *zap.Logger
}

// NewService wires a new summary service instance.
func NewService(chat openai.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{chat: chat, logger: logger}
}

// Generate builds the fixed prompt from the car's attributes, runs one
// completion, and returns the trimmed summary together with the deployment
// name that produced it. Missing credentials fail before any network call.
func (s *Service) Generate(ctx context.Context, car models.SummaryRequest) (string, string, error) {
	if !s.chat.Configured() {
		return "", "", openai.ErrNotConfigured
	}

	req := openai.ChatRequest{
		Messages: []openai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(car)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	text, err := s.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("generate car summary: %w", err)
	}

	s.logger.Info("summary generated",
		zap.String("brand", car.Brand),
		zap.String("model", car.Model),
		zap.Int("length", len(text)))

	return text, s.chat.Deployment(), nil
}

func buildPrompt(car models.SummaryRequest) string {
	// Thousands separators match what the listing page shows the user.
	p := message.NewPrinter(language.English)

	return fmt.Sprintf(userPromptTemplate,
		car.Brand,
		car.Model,
		car.Year,
		p.Sprintf("%d", car.Mileage),
		car.EnginePower,
		car.EngineVolume,
		car.FuelType,
		car.Transmission,
		p.Sprintf("%d", car.EstimatedPrice),
	)
}
