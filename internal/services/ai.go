package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/projectboard/project-management-api/internal/constants"
	"github.com/sashabaranov/go-openai"
)

// AIService turns free-form text (meeting notes, feature briefs) into task
// suggestions for a project. Suggestions are returned to the client, never
// persisted directly.
type AIService struct {
	client *openai.Client
}

// SuggestedTask is one AI-proposed task.
type SuggestedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTasksFromText extracts task suggestions from text using OpenAI.
func (s *AIService) SuggestTasksFromText(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a project planning assistant. Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of tasks in exactly this shape:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "priority": "one of: low, medium, high, urgent",
    "due_date": "ISO8601 timestamp, e.g. 2025-10-28T23:59:59Z, or null if no deadline is mentioned"
  }
]

Rules:
- Return an empty array [] if the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") into concrete timestamps
- Default priority to "medium" when the text gives no urgency signal
- Return only JSON, no surrounding prose`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	// Drop suggestions the model produced without a usable title.
	valid := tasks[:0]
	for _, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		valid = append(valid, t)
	}

	if len(valid) > constants.MaxAIGeneratedTasks {
		valid = valid[:constants.MaxAIGeneratedTasks]
	}

	return valid, nil
}
