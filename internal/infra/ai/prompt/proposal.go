package prompt

import (
	"encoding/json"
	"fmt"
)

func ProposalSystemPrompt() string {
	return `You are a medical AI providing treatment recommendations.
Base recommendations on current clinical guidelines. Include evidence citations.
Consider patient-specific factors like age, comorbidities, and current medications.`
}

// ProposalUserPrompt embeds the patient context and the prior analysis as
// indented JSON.
func ProposalUserPrompt(patientContext, priorAnalysis any) (string, error) {
	ctxJSON, err := json.MarshalIndent(patientContext, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal patient context: %w", err)
	}
	analysisJSON, err := json.MarshalIndent(priorAnalysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return fmt.Sprintf(`Based on this patient analysis, generate a detailed treatment proposal:

PATIENT CONTEXT:
%s

AI ANALYSIS:
%s

Provide a comprehensive treatment proposal including:
1. Primary medication recommendations with dosing
2. Supporting lifestyle modifications
3. Diagnostic tests if needed
4. Follow-up schedule
5. Patient education points
6. Potential risks and contraindications

Format as JSON with fields: medications, lifestyle_changes, diagnostic_tests,
follow_up_plan, patient_education, risks, rationale.`, ctxJSON, analysisJSON), nil
}
