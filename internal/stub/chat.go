package stub

import (
	"strings"

	"github.com/ayushhealth/ayushbot/internal/chatsvc"
)

type rule struct {
	keywords []string
	reply    string
	followUp string
}

// rules are checked in order; the first keyword hit wins.
var rules = []rule{
	{[]string{"hello", "hi", "namaste"}, "Hello! How can I help you with your health today?", "Would you like to check your symptoms?"},
	{[]string{"headache"}, "I see you're experiencing headaches. This could be due to stress, dehydration, or eye strain. Make sure you're drinking enough water and taking breaks from screens. If it persists, please consult a doctor.", "How long have you had the headache?"},
	{[]string{"appointment", "doctor"}, "I can help you book an appointment. You can do this from your dashboard by clicking on 'Consult Doctor'.", ""},
	{[]string{"symptom"}, "To check your symptoms, run the symptom checker: it will ask a few yes or no questions and suggest possible conditions.", ""},
	{[]string{"thank"}, "You're welcome! Is there anything else I can help you with?", ""},
}

const fallbackReply = "I'm here to help with your health questions. Could you provide more details about your concern?"

// Reply answers a chat message by keyword. A keyword matches a whole word
// or its plural.
func Reply(message string) chatsvc.Reply {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	for _, r := range rules {
		for _, kw := range r.keywords {
			for _, w := range words {
				if w == kw || w == kw+"s" {
					return chatsvc.Reply{Message: r.reply, FollowUp: r.followUp}
				}
			}
		}
	}
	return chatsvc.Reply{Message: fallbackReply}
}
