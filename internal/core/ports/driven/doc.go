// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Turns text into vectors
//   - LLMService: Generates answers from retrieved context
//   - VectorStore: Holds one collection of vectors per domain
//   - Tokenizer: Encodes text to tokens for the chunker
//   - PostProcessor: Splits normalised text into unit texts
//   - PageExtractor: Reads pages of text out of a PDF
//   - SourceLoader: Reads raw domain sources from disk
//   - OrderStore: Order records for eligibility lookups
//   - PromptStore: Per-domain system prompts
//   - ConfigStore: Application configuration
//   - AIConfigValidator: Connectivity checks for AI providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
