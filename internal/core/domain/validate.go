package domain

import "fmt"

func validateSettings(s AppSettings) error {
	for _, d := range AllDomains() {
		if s.Sources.Path(d) == "" {
			return fmt.Errorf("%w: sources.%s is not set", ErrConfiguration, d)
		}
	}
	if !s.Sources.PDFBackend.IsValid() {
		return fmt.Errorf("%w: unknown pdf backend %q", ErrConfiguration, s.Sources.PDFBackend)
	}
	if s.Sources.PDFBackend == PDFBackendUniPDF && s.Sources.UniPDFLicenseKey == "" {
		return fmt.Errorf("%w: sources.unipdf_license_key is required for the unipdf backend", ErrConfiguration)
	}
	if s.Chunker.MaxTokens < 1 {
		return fmt.Errorf("%w: chunker.max_tokens must be positive", ErrConfiguration)
	}
	if s.Retrieval.TopK < 1 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", ErrConfiguration)
	}
	if !s.Retrieval.ResponseMode.IsValid() {
		return fmt.Errorf("%w: unknown response mode %q", ErrConfiguration, s.Retrieval.ResponseMode)
	}
	if !s.Orders.Store.IsValid() {
		return fmt.Errorf("%w: unknown order store %q", ErrConfiguration, s.Orders.Store)
	}
	if !s.Orders.Strictness.IsValid() {
		return fmt.Errorf("%w: unknown strictness %q", ErrConfiguration, s.Orders.Strictness)
	}
	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not fully configured", ErrConfiguration, s.Embedding.Provider)
	}
	if !s.LLM.IsConfigured() {
		return fmt.Errorf("%w: llm provider %q is not fully configured", ErrConfiguration, s.LLM.Provider)
	}
	if !s.VectorStore.Backend.IsValid() {
		return fmt.Errorf("%w: unknown vector backend %q", ErrConfiguration, s.VectorStore.Backend)
	}
	if s.VectorStore.Backend == VectorBackendQdrant && s.VectorStore.QdrantURL == "" {
		return fmt.Errorf("%w: vector_store.qdrant.url is not set", ErrConfiguration)
	}
	return nil
}

func validateRecordSettings(s AppSettings) error {
	if !s.Sources.HasOrderRecords() {
		return fmt.Errorf("%w: sources.order_records is not set", ErrConfiguration)
	}
	if !s.Orders.Store.IsValid() {
		return fmt.Errorf("%w: unknown order store %q", ErrConfiguration, s.Orders.Store)
	}
	if !s.Orders.Strictness.IsValid() {
		return fmt.Errorf("%w: unknown strictness %q", ErrConfiguration, s.Orders.Strictness)
	}
	return nil
}
