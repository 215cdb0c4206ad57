package insight

import (
	"fmt"
	"strings"

	"github.com/ayushhealth/ayushbot/internal/symptom"
)

const systemPrompt = `You are the health assistant of Ayush Health Bot. A symptom checker has just
suggested a likely condition for the user.

Guidelines:
- You are not a replacement for professional medical advice; say so briefly.
- For serious symptoms, always advise seeing a doctor and set see_doctor to true.
- Keep the summary concise and easily understandable. No medical jargon.
- Be supportive and empathetic.
- Follow-up questions are things the user might ask you next, at most three.`

// userMessage describes the finished session.
func userMessage(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", in.Name)
	fmt.Fprintf(&b, "Age: %d\n", in.Age)
	fmt.Fprintf(&b, "Gender: %s\n", in.Gender)
	fmt.Fprintf(&b, "Likely condition: %s\n", symptom.Label(in.Disease))
	if in.Description != "" {
		fmt.Fprintf(&b, "Condition notes: %s\n", in.Description)
	}
	fmt.Fprintf(&b, "Reported symptoms: %s\n", orNone(in.Accepted))
	fmt.Fprintf(&b, "Symptoms the user does not have: %s\n", orNone(in.Rejected))
	return b.String()
}

func orNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return symptom.JoinLabels(ids)
}
