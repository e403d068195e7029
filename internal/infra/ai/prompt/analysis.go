package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
)

// AnalysisSystemPrompt asks for one JSON object with the five report fields.
func AnalysisSystemPrompt() string {
	return `You are a medical AI assistant helping doctors analyze patient health data.
You provide evidence-based analysis, identify concerning patterns, and suggest treatment options.
Always cite medical guidelines when relevant. Be clear about confidence levels.
Format your response as JSON with these fields: findings, concerns, risk_level, recommendations, evidence.`
}

// AnalysisUserPrompt embeds the patient snapshot, the last 7 vital readings
// and the last 5 health logs.
func AnalysisUserPrompt(p analysis.PatientSnapshot, vitals []analysis.VitalReading, logs []analysis.HealthLogEntry) string {
	var b strings.Builder
	b.WriteString("Analyze this patient's health data and provide medical insights:\n\n")

	b.WriteString("PATIENT INFORMATION:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orDefault(p.Name, "Unknown"))
	age := "Unknown"
	if p.Age > 0 {
		age = fmt.Sprint(p.Age)
	}
	fmt.Fprintf(&b, "- Age: %s\n", age)
	fmt.Fprintf(&b, "- Gender: %s\n", orDefault(p.Gender, "Unknown"))
	fmt.Fprintf(&b, "- Medical History: %s\n", joinOr(p.ChronicConditions, "None reported"))
	fmt.Fprintf(&b, "- Current Medications: %s\n\n", joinOr(p.Medications, "None reported"))

	b.WriteString("RECENT VITAL SIGNS (from wearable device):\n")
	b.WriteString(FormatVitals(vitals))
	b.WriteString("\n\nRECENT HEALTH LOGS (patient reported):\n")
	b.WriteString(FormatLogs(logs))

	b.WriteString(`

Please provide:
1. Key findings from the data
2. Any concerning patterns or anomalies
3. Overall risk level (low/moderate/high/critical)
4. Evidence-based treatment recommendations
5. Relevant medical guidelines or studies

Format your response as JSON with fields: findings, concerns, risk_level, recommendations, evidence.`)
	return b.String()
}

// Placeholders for empty prompt sections.
const (
	NoVitals = "No recent vital signs data available"
	NoLogs   = "No recent health logs"
)

// FormatVitals renders at most analysis.MaxVitals readings, one per line.
func FormatVitals(vitals []analysis.VitalReading) string {
	if len(vitals) == 0 {
		return NoVitals
	}
	lines := make([]string, 0, analysis.MaxVitals)
	for _, v := range analysis.LastVitals(vitals, analysis.MaxVitals) {
		lines = append(lines, fmt.Sprintf("- %s: HR %s bpm, SpO2 %s%%, Sleep %s/100",
			v.Date, num(v.HeartRate), num(v.SpO2), num(v.SleepScore)))
	}
	return strings.Join(lines, "\n")
}

// FormatLogs renders at most analysis.MaxLogs entries, one per line.
func FormatLogs(logs []analysis.HealthLogEntry) string {
	if len(logs) == 0 {
		return NoLogs
	}
	lines := make([]string, 0, analysis.MaxLogs)
	for _, l := range analysis.LastLogs(logs, analysis.MaxLogs) {
		lines = append(lines, fmt.Sprintf("- %s: BP %s, Glucose %s mg/dL, Notes: %s",
			l.Date, orDefault(l.BloodPressure, "n/a"), num(l.Glucose), orDefault(l.Notes, "None")))
	}
	return strings.Join(lines, "\n")
}

func num(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%g", *v)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}
