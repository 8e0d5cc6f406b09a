package driven

// Tokenizer maps text to model tokens and back.
// Decode(Encode(s)) must reproduce s.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
	Name() string
}
