package prompt

import "github.com/bryanwahyu/healthcare-collab/internal/domain/ai"

func ChatSystemPrompt() string {
	return `You are a medical AI collaborating with a doctor on patient care.
Engage in professional dialogue, consider the doctor's input seriously,
adjust your recommendations based on their feedback, and acknowledge when they
raise valid concerns or provide information you didn't have access to.
Maintain a collaborative, not confrontational, tone.`
}

// ChatMessages replays the history after the system prompt and appends the
// new message as the user.
func ChatMessages(history []ai.ChatTurn, message string) []ai.Message {
	msgs := make([]ai.Message, 0, len(history)+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: ChatSystemPrompt()})
	for _, t := range history {
		role := ai.RoleUser
		if t.Speaker == ai.SpeakerAI {
			role = ai.RoleAssistant
		}
		msgs = append(msgs, ai.Message{Role: role, Content: t.Content})
	}
	return append(msgs, ai.Message{Role: ai.RoleUser, Content: message})
}
