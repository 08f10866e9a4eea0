package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"arenax/internal/models"
)

func TestFormatReport(t *testing.T) {
	debate := &models.Debate{
		Title:        "Remote work is better than office work",
		Duration:     "24 Hours",
		Winner:       models.WinnerSupport,
		SupportVotes: 5,
		OpposeVotes:  2,
	}
	arguments := []models.Argument{
		{Side: models.SideSupport, Content: "No commute means more deep work.", NetVotes: 3},
		{Side: models.SideSupport, Content: "Hiring is no longer bound by geography.", NetVotes: 2},
		{Side: models.SideOppose, Content: "Juniors learn faster in a shared room.", NetVotes: 2},
	}
	participants := []models.Participant{
		{Side: models.SideSupport},
		{Side: models.SideSupport},
		{Side: models.SideOppose},
	}

	report := FormatReport(debate, arguments, participants)

	if !strings.Contains(report, "Remote work is better than office work") {
		t.Error("report is missing the debate title")
	}
	if !strings.Contains(report, "SUPPORT side prevailed, 5 to 2") {
		t.Errorf("report is missing the outcome line:\n%s", report)
	}
	if !strings.Contains(report, "3 debaters (2 support, 1 oppose) posted 3 arguments over 24 Hours") {
		t.Errorf("report is missing the participation line:\n%s", report)
	}
	if !strings.Contains(report, "Top supporting arguments") || !strings.Contains(report, "Top opposing arguments") {
		t.Errorf("report is missing the top-argument sections:\n%s", report)
	}
	// 净票最高的排在最前
	if strings.Index(report, "No commute") > strings.Index(report, "Hiring is no longer") {
		t.Errorf("supporting arguments are not sorted by net votes:\n%s", report)
	}
}

func TestFormatReportTie(t *testing.T) {
	debate := &models.Debate{
		Title:    "Tabs versus spaces",
		Duration: "1 Hour",
		Winner:   models.WinnerTie,
	}

	report := FormatReport(debate, nil, nil)
	if !strings.Contains(report, "ended in a tie") {
		t.Errorf("tie outcome missing:\n%s", report)
	}
	// 没有论点时不输出空的榜单段落
	if strings.Contains(report, "Top supporting arguments") {
		t.Errorf("empty side should not produce a top-argument section:\n%s", report)
	}
}

func TestPolish(t *testing.T) {
	// 模拟 OpenAI 兼容接口
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("Expected test-model, got %s", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Errorf("Expected 2 messages, got %d", len(req.Messages))
		}

		resp := ChatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}{})
		resp.Choices[0].Message.Content = "A polished recap."
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	os.Setenv("LLM_BASE_URL", server.URL)
	os.Setenv("LLM_TOKEN", "test-token")
	os.Setenv("LLM_MODEL", "test-model")

	// 重置单例以重新加载配置
	summaryService = nil
	s := GetSummaryService()

	polished, err := s.Polish("Tabs versus spaces", "raw report")
	if err != nil {
		t.Fatalf("Polish failed: %v", err)
	}
	if polished != "A polished recap." {
		t.Errorf("Expected polished recap, got %q", polished)
	}
}

func TestPolishServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	os.Setenv("LLM_BASE_URL", server.URL)
	summaryService = nil
	s := GetSummaryService()

	if _, err := s.Polish("t", "r"); err == nil {
		t.Error("expected an error on non-200 response")
	}
}
