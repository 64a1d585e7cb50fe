package agent

import "fmt"

const (
	systemResearchAssistant = "You are an AI research assistant."
	systemReviewer          = "You are an AI reviewer."
	systemRefiner           = "You are an AI refiner."
)

func draftPrompt(researchData string) string {
	return fmt.Sprintf(`Based on the following research data, draft a comprehensive and well-structured response:
%s

Please ensure the response is:
- Clear and concise
- Well-organized with headings and bullet points where appropriate
- Supported by evidence from the research data
- Free of jargon and accessible to a general audience
`, researchData)
}

func reviewPrompt(answer string) string {
	return fmt.Sprintf(`Review the following drafted answer and provide feedback for improvement:
%s

Please consider:
- Clarity and coherence
- Accuracy of information
- Logical flow and structure
- Grammar and readability
`, answer)
}

func refinePrompt(answer, feedback string) string {
	return fmt.Sprintf(`Refine the following answer based on the feedback provided:
%s

Feedback:
%s

Please ensure the refined answer addresses all points in the feedback.
`, answer, feedback)
}
