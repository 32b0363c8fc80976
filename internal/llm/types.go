package llm

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Response is the raw model reply before it is parsed as an analysis.
type Response struct {
	Content string
	Usage   Usage
}
