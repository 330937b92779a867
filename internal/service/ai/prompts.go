package ai

import "fmt"

// Sampling temperatures per stage. Summaries and follow-ups run hot on
// purpose to avoid terse, repetitive answers; citation formatting runs cold
// for determinism.
const (
	SummaryTemperature    float32 = 1.2
	ExtractionTemperature float32 = 0.7
	CitationTemperature   float32 = 0.2
)

const (
	// SummaryPersona fixes the assistant persona for every session. The
	// no-asterisk constraint keeps markdown bullets out of the summary.
	SummaryPersona = "You're a helpful assistant that reads documents and generates one paragraph summary. You don't use *."

	// SummarizeInstruction is the fixed third turn of every new session.
	SummarizeInstruction = "Summarize this document."

	// FollowupLengthCap is appended after every user follow-up so answers
	// stay terse regardless of how the question is phrased.
	FollowupLengthCap = "Please answer in 2-3 lines maximum."

	// AcademicPersona frames the statement-extraction request.
	AcademicPersona = "You are an academic writing assistant."

	// CitationPersona frames the APA-formatting request.
	CitationPersona = "You are a citation formatting assistant."
)

// DocumentPrompt embeds the extracted document text in a user turn.
func DocumentPrompt(documentText string) string {
	return fmt.Sprintf("Here's the text from the document:\n\n%s", documentText)
}

// ExtractionPrompt asks for up to ten citation-worthy statements as a JSON
// array of strings, excluding code and formatting lines.
func ExtractionPrompt(documentText string) string {
	return fmt.Sprintf("From the following text, extract up to 10 statements that would require a citation in an academic paper. "+
		"Only include factual claims, statistics, research findings, or historical events. "+
		"Do NOT include code, formatting, or non-informational lines. "+
		"Return only the statements as a JSON array of strings.\n\n%s", documentText)
}

// CitationPrompt asks for an APA citation for one resolved source.
func CitationPrompt(title, link, publisher, accessDate string) string {
	return fmt.Sprintf("Generate an APA citation for the following source.\nTitle: %q\nURL: %q\nPublisher: %q\nDate Accessed: %s",
		title, link, publisher, accessDate)
}
