package embeddings

// Chunk splits text into pieces of at most size runes.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = 1000
	}
	runes := []rune(text)
	var chunks []string
	for len(runes) > size {
		chunks = append(chunks, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
