package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"arenax/internal/db"
	"arenax/internal/models"
)

// SummaryService 辩论定局后的文字总结。本地模板拼出报告，
// 配置了 LLM_BASE_URL 时再交给 OpenAI 兼容接口润色一遍，
// 润色失败就用原始报告，绝不影响定局流程。
type SummaryService struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
	enabled bool
}

var summaryService *SummaryService

func GetSummaryService() *SummaryService {
	if summaryService == nil {
		baseURL := os.Getenv("LLM_BASE_URL")
		summaryService = &SummaryService{
			baseURL: strings.TrimSuffix(baseURL, "/"),
			token:   os.Getenv("LLM_TOKEN"),
			model:   os.Getenv("LLM_MODEL"),
			client:  &http.Client{Timeout: 30 * time.Second},
			enabled: baseURL != "",
		}
	}
	return summaryService
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateAndStore 生成总结并写回 Debate.Summary
func (s *SummaryService) GenerateAndStore(debateID uint) error {
	var debate models.Debate
	if err := db.DB.First(&debate, debateID).Error; err != nil {
		return err
	}

	arguments, err := ListArgumentsWithVotes(debateID, 0)
	if err != nil {
		return err
	}

	var participants []models.Participant
	if err := db.DB.Where("debate_id = ?", debateID).Find(&participants).Error; err != nil {
		return err
	}

	report := FormatReport(&debate, arguments, participants)

	if s.enabled {
		if polished, err := s.Polish(debate.Title, report); err == nil && polished != "" {
			report = polished
		}
		// 润色失败静默回退到本地报告
	}

	return db.DB.Model(&models.Debate{}).
		Where("id = ?", debateID).
		Update("summary", report).Error
}

// FormatReport 本地模板报告：胜负、参与人数、两方净票前三的论点
func FormatReport(debate *models.Debate, arguments []models.Argument, participants []models.Participant) string {
	supportCount, opposeCount := 0, 0
	for _, p := range participants {
		if p.Side == models.SideSupport {
			supportCount++
		} else {
			opposeCount++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Debate Summary: %s\n\n", debate.Title)

	switch debate.Winner {
	case models.WinnerSupport:
		fmt.Fprintf(&b, "Outcome: the SUPPORT side prevailed, %d to %d on net votes.\n", debate.SupportVotes, debate.OpposeVotes)
	case models.WinnerOppose:
		fmt.Fprintf(&b, "Outcome: the OPPOSE side prevailed, %d to %d on net votes.\n", debate.OpposeVotes, debate.SupportVotes)
	default:
		fmt.Fprintf(&b, "Outcome: the debate ended in a tie at %d net votes each.\n", debate.SupportVotes)
	}

	fmt.Fprintf(&b, "Participation: %d debaters (%d support, %d oppose) posted %d arguments over %s.\n",
		supportCount+opposeCount, supportCount, opposeCount, len(arguments), debate.Duration)

	writeTop(&b, "Top supporting arguments", arguments, models.SideSupport)
	writeTop(&b, "Top opposing arguments", arguments, models.SideOppose)

	return b.String()
}

// writeTop 追加某一方净票数前 3 的论点
func writeTop(b *strings.Builder, heading string, arguments []models.Argument, side models.Side) {
	var picked []models.Argument
	for _, a := range arguments {
		if a.Side == side {
			picked = append(picked, a)
		}
	}
	if len(picked) == 0 {
		return
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].NetVotes > picked[j].NetVotes
	})
	if len(picked) > 3 {
		picked = picked[:3]
	}

	fmt.Fprintf(b, "\n%s:\n", heading)
	for i, a := range picked {
		content := a.Content
		if runes := []rune(content); len(runes) > 200 {
			content = string(runes[:200]) + "..."
		}
		fmt.Fprintf(b, "%d. (%+d) %s\n", i+1, a.NetVotes, content)
	}
}

// Polish 调用 OpenAI 兼容接口润色报告
func (s *SummaryService) Polish(title, report string) (string, error) {
	reqBody := ChatRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{Role: "system", Content: "You summarize finished online debates. Rewrite the given report as a short, neutral recap. Keep the outcome and vote counts accurate."},
			{Role: "user", Content: fmt.Sprintf("Debate: %s\n\n%s", title, report)},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm returned status %d", resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
