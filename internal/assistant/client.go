// Package assistant реализует клиент языковой модели для консультационных
// сценариев: подбор специалиста по жалобам, ответы в переписке сессии,
// генерация итогового отчёта и анализ лабораторных отчётов.
//
// Клиент работает с любым OpenAI-совместимым endpoint; модель и адрес
// задаются конфигом.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/consultation-aggregator/internal/config"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

// Client инкапсулирует OpenAI-совместимый API клиент.
type Client struct {
	api           *openai.Client
	chatModel     string
	analysisModel string
	log           *slog.Logger
}

// New создает новый Client по настройкам из конфига.
func New(cfg config.Assistant, log *slog.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:           openai.NewClientWithConfig(apiConfig),
		chatModel:     cfg.ChatModel,
		analysisModel: cfg.AnalysisModel,
		log:           log,
	}
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	const op = "assistant.complete"
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", op)
	}
	return resp.Choices[0].Message.Content, nil
}

// stripFences убирает обрамление ```json ... ``` — модели часто добавляют
// его вопреки промпту.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// SuggestDoctors подбирает специалистов из каталога по жалобам пользователя.
func (c *Client) SuggestDoctors(ctx context.Context, notes string, catalog []models.DoctorAgent) ([]models.DoctorAgent, error) {
	const op = "assistant.SuggestDoctors"

	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	content, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.analysisModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: string(catalogJSON)},
			{Role: openai.ChatMessageRoleUser,
				Content: "User Notes/Symptoms: " + notes + ". " + suggestDoctorsPrompt},
		},
	})
	if err != nil {
		return nil, err
	}

	var suggested []models.DoctorAgent
	if err := json.Unmarshal([]byte(stripFences(content)), &suggested); err != nil {
		return nil, fmt.Errorf("%s: decode suggestions: %w", op, err)
	}
	return suggested, nil
}

// ConsultationReply возвращает ответ персоны специалиста на сообщение
// пользователя, учитывая жалобы из сессии и историю переписки.
func (c *Client) ConsultationReply(ctx context.Context, session *models.ConsultationSession, message string) (string, error) {
	specialist := "Medical AI Assistant"
	persona := ""
	if session.SelectedDoctor != nil {
		specialist = session.SelectedDoctor.Specialist
		persona = session.SelectedDoctor.AgentPrompt
	}
	notes := session.Notes
	if notes == "" {
		notes = "No specific notes provided"
	}

	systemPrompt := fmt.Sprintf(`You are %s, an AI medical assistant. %s

Key guidelines:
- Be professional and compassionate
- Ask clarifying questions when needed
- Provide clear, understandable explanations
- Recommend seeing a healthcare provider for serious concerns
- Never provide diagnoses, only general medical information

Patient notes: %s

Always maintain a supportive and informative tone.`, specialist, persona, notes)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, turn := range session.Conversation {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	return c.complete(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
}

// GeneralReply отвечает на сообщение общего чата вне консультационной сессии.
func (c *Client) GeneralReply(ctx context.Context, message string, history []models.ConversationTurn) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: generalAssistantPrompt},
	}
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	return c.complete(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
}

// GenerateSessionReport составляет структурированный отчёт по переписке сессии.
func (c *Client) GenerateSessionReport(ctx context.Context, session *models.ConsultationSession) (*models.SessionReport, error) {
	const op = "assistant.GenerateSessionReport"

	var sb strings.Builder
	for _, turn := range session.Conversation {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}

	content, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.analysisModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sessionReportPrompt},
			{Role: openai.ChatMessageRoleUser,
				Content: "Patient notes: " + session.Notes + "\n\nConversation:\n" + sb.String()},
		},
	})
	if err != nil {
		return nil, err
	}

	report := &models.SessionReport{}
	if err := json.Unmarshal([]byte(stripFences(content)), report); err != nil {
		return nil, fmt.Errorf("%s: decode report: %w", op, err)
	}

	report.SessionID = session.SessionID
	report.User = session.CreatedBy
	report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if session.SelectedDoctor != nil {
		report.Agent = session.SelectedDoctor.Specialist
	}
	return report, nil
}

// AnalyzeLabReport анализирует текст лабораторного отчёта и возвращает
// типизированный результат с оценками риска по каждому показателю.
func (c *Client) AnalyzeLabReport(ctx context.Context, reportName, reportText string) (*models.LabReportAnalysis, error) {
	const op = "assistant.AnalyzeLabReport"

	content, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.analysisModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: labReportAnalysisPrompt},
			{Role: openai.ChatMessageRoleUser,
				Content: "Analyze this laboratory report:\n\n" + reportText},
		},
	})
	if err != nil {
		return nil, err
	}

	analysis := &models.LabReportAnalysis{}
	if err := json.Unmarshal([]byte(stripFences(content)), analysis); err != nil {
		return nil, fmt.Errorf("%s: decode analysis: %w", op, err)
	}
	analysis.ReportName = reportName
	analysis.UploadedAt = time.Now().UTC()
	return analysis, nil
}
