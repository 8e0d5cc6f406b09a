package sources

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// readPairs reads a JSON array of {"question", "answer"} objects.
func readPairs(path string) (domain.KeyValuePairs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.KeyValuePairs{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}

	var pairs []domain.QAPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return domain.KeyValuePairs{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	return domain.KeyValuePairs{URI: path, Pairs: pairs}, nil
}
