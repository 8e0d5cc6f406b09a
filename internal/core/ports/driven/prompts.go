package driven

// PromptStore provides access to per-domain system prompts.
type PromptStore interface {
	// Load returns the prompt for the given name. A prompt that does not
	// exist is returned as an empty string without error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}
