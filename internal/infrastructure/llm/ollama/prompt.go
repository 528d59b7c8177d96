package ollama

func buildSummaryPrompt(text string) string {
	return "Write a concise, informative summary (at most 150 words) of the following scientific document:\n\n" +
		text +
		"\n\nSummary:"
}
