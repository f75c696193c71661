package topics

// Renderer formats topic content for terminal display.
type Renderer interface {
	// Render takes raw content and its format (file extension) and
	// returns the text to print.
	Render(content string, format string) string
}

// PlainRenderer returns content unchanged. It is the fallback for
// non-terminal output.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
