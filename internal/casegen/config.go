package casegen

// Config controls the behavior of the Generator.
type Config struct {
	// QuestionCount is the number of questions per practical case.
	QuestionCount int

	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness. Kept low so cases stay
	// legally precise.
	Temperature float64
}

// DefaultConfig returns a Config with the standard case shape.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 5,
		MaxTokens:     8192,
		Temperature:   0.4,
	}
}
