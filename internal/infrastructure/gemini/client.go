package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(apiKey string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// GenerateIcebreakers suggests opening messages for a fresh mutual
// connection based on both users' interests.
func (c *Client) GenerateIcebreakers(ctx context.Context, user1Interests, user2Interests []string) ([]string, error) {
	prompt := fmt.Sprintf(`
		Generate 3 creative icebreaker messages for two students who just
		connected on a campus friend-finding app.
		User 1 Interests: %v
		User 2 Interests: %v

		Task: Create 3 distinct opening lines that User 1 could send to User 2.
		Focus on shared interests or interesting contrasts. Keep it friendly,
		not romantic.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, user1Interests, user2Interests)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	responseText := strings.TrimSpace(sb.String())
	// Clean up markdown code blocks if present
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")

	var icebreakers []string
	if err := json.Unmarshal([]byte(responseText), &icebreakers); err != nil {
		// Fallback if JSON parsing fails - just return raw text split by newlines
		lines := strings.Split(responseText, "\n")
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				icebreakers = append(icebreakers, line)
			}
		}
		if len(icebreakers) == 0 {
			return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
		}
	}

	return icebreakers, nil
}
