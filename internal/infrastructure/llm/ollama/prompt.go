package ollama

import "fmt"

func buildExtractionPrompt(question, window string) string {
	const maxWindow = 24000
	if len(window) > maxWindow {
		window = window[:maxWindow]
	}

	return fmt.Sprintf(`You extract answer passages from documents.
Given a question and a context, return the exact contiguous passage from the context that answers the question.
Return only the passage, verbatim, with no commentary and no markdown.
If the context does not contain the answer, return an empty string.

Question:
%s

Context:
%s
`, question, window)
}
