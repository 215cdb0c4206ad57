package wizard

import (
	"fmt"

	"github.com/ayushhealth/ayushbot/internal/symptom"
)

// Bot lines for each step.

// GreetingLines open the identity step.
func GreetingLines() []string {
	return []string{
		"Hello... Welcome to Ayush Health Bot.",
		"For personalized disease diagnosis and ayurvedic remedy recommendations, firstly please provide me your name, age, and gender.",
		" Thank you! 😊",
	}
}

// SeedPromptLines open the symptom step.
func SeedPromptLines(name string) []string {
	return []string{
		fmt.Sprintf("Great... %s", name),
		"Now, please provide me with the symptoms you are experiencing.",
		fmt.Sprintf("Pick %d different symptoms; start typing to filter the list. ⬇️", SeedSlots),
	}
}

// DuplicateSeedLine is shown when a seed slot repeats another one.
func DuplicateSeedLine(id string) string {
	return fmt.Sprintf("You have already selected %s symptom. Select another symptom. 🙏", symptom.Label(id))
}

// QuestionIntroLines open the question step.
func QuestionIntroLines() []string {
	return []string{
		"Perfect... Based on the your previous symptoms, now I will ask you a few more questions to better understand your condition.",
		"",
		"Note: Answer the following questions with 'YES' or 'NO'.",
	}
}

// QuestionLine asks about one candidate symptom.
func QuestionLine(id string) string {
	return fmt.Sprintf("Did you experience symptoms like %s?", symptom.Label(id))
}

// RethinkLine follows a "yes" while the service is asked again.
func RethinkLine(id string) string {
	return fmt.Sprintf("Hmm... let me rethink based on %s symptom.", symptom.Label(id))
}

// ConclusionLines announce the diagnosis at the end of the question step.
func ConclusionLines(accepted []string, disease string) []string {
	return []string{
		"Fine... I got enough information to diagnose your disease.",
		fmt.Sprintf("For symptoms like %s, you may have %s.", symptom.JoinLabels(accepted), symptom.Label(disease)),
		"Press Enter on 'Get Insights' to get Ayurvedic remedy recommendations.",
	}
}

// ExhaustedLine reports that the loop ran out of questions.
const ExhaustedLine = "No more questions to ask. Sorry, I am not able to diagnose your disease. 😔"

// RestartHint tells the user how to start over after a dead end.
const RestartHint = "Press r to start again."

// ResultLines open the results step, up to the Ayurvedic remedies intro.
func ResultLines(name, disease, description string) []string {
	return []string{
		fmt.Sprintf("Hey, %s! Based on diagnosis, you may have %s.", name, symptom.Label(disease)),
		"",
		fmt.Sprintf("Medical condition: %s", description),
		"",
	}
}
