package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bryanwahyu/healthcare-collab/internal/domain/ai"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
)

func f(v float64) *float64 { return &v }

func TestAnalysisUserPromptPlaceholders(t *testing.T) {
	out := AnalysisUserPrompt(analysis.PatientSnapshot{Name: "Jane Roe", Age: 54}, nil, nil)
	if !strings.Contains(out, NoVitals) {
		t.Fatalf("expected vitals placeholder, got:\n%s", out)
	}
	if !strings.Contains(out, NoLogs) {
		t.Fatalf("expected logs placeholder, got:\n%s", out)
	}
	if !strings.Contains(out, "- Name: Jane Roe") || !strings.Contains(out, "- Age: 54") {
		t.Fatalf("expected patient info, got:\n%s", out)
	}
	if !strings.Contains(out, "- Gender: Unknown") || !strings.Contains(out, "- Medical History: None reported") {
		t.Fatalf("expected defaults for missing demographics, got:\n%s", out)
	}
}

func TestFormatVitalsKeepsLastSeven(t *testing.T) {
	var vitals []analysis.VitalReading
	for i := 1; i <= 10; i++ {
		vitals = append(vitals, analysis.VitalReading{
			Date:      fmt.Sprintf("2025-01-%02d", i),
			HeartRate: f(70),
			SpO2:      f(98),
		})
	}
	out := FormatVitals(vitals)
	lines := strings.Split(out, "\n")
	if len(lines) != analysis.MaxVitals {
		t.Fatalf("expected %d lines, got %d", analysis.MaxVitals, len(lines))
	}
	if !strings.HasPrefix(lines[0], "- 2025-01-04:") || !strings.HasPrefix(lines[6], "- 2025-01-10:") {
		t.Fatalf("expected most recent readings, got:\n%s", out)
	}
	if !strings.Contains(lines[0], "HR 70 bpm, SpO2 98%, Sleep n/a/100") {
		t.Fatalf("unexpected vital line: %q", lines[0])
	}
}

func TestFormatLogsKeepsLastFive(t *testing.T) {
	var logs []analysis.HealthLogEntry
	for i := 1; i <= 8; i++ {
		logs = append(logs, analysis.HealthLogEntry{
			Date:          fmt.Sprintf("2025-02-%02d", i),
			BloodPressure: "120/80",
			Glucose:       f(105),
		})
	}
	out := FormatLogs(logs)
	lines := strings.Split(out, "\n")
	if len(lines) != analysis.MaxLogs {
		t.Fatalf("expected %d lines, got %d", analysis.MaxLogs, len(lines))
	}
	if lines[4] != "- 2025-02-08: BP 120/80, Glucose 105 mg/dL, Notes: None" {
		t.Fatalf("unexpected log line: %q", lines[4])
	}
}

func TestChatMessagesRoles(t *testing.T) {
	history := []ai.ChatTurn{
		{Speaker: "doctor", Content: "BP is trending up"},
		{Speaker: "ai", Content: "Consider ACE inhibitors"},
		{Speaker: "nurse", Content: "Patient reports dizziness"},
	}
	msgs := ChatMessages(history, "What about lifestyle?")
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	want := []string{ai.RoleSystem, ai.RoleUser, ai.RoleAssistant, ai.RoleUser, ai.RoleUser}
	for i, m := range msgs {
		if m.Role != want[i] {
			t.Fatalf("message %d: expected role %s, got %s", i, want[i], m.Role)
		}
	}
	if msgs[4].Content != "What about lifestyle?" {
		t.Fatalf("expected new message last, got %q", msgs[4].Content)
	}
}

func TestProposalUserPromptEmbedsJSON(t *testing.T) {
	out, err := ProposalUserPrompt(map[string]any{"age": 61}, map[string]any{"risk_level": "high"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"age": 61`) || !strings.Contains(out, `"risk_level": "high"`) {
		t.Fatalf("expected embedded JSON, got:\n%s", out)
	}
}
