package domain

// SourceKind names a Source variant.
type SourceKind string

// Source variants.
const (
	SourceKindTextPages     SourceKind = "text_pages"
	SourceKindTabularRows   SourceKind = "tabular_rows"
	SourceKindKeyValuePairs SourceKind = "key_value_pairs"
)

// Source is raw input for one domain. The set of variants is closed:
// TextPages, TabularRows and KeyValuePairs.
type Source interface {
	Kind() SourceKind
	sealed()
}

// TextPages is a paginated document such as a policy PDF.
type TextPages struct {
	// URI identifies where the pages were read from.
	URI   string
	Pages []string
}

// TabularRows is a header plus rows of cells, e.g. an orders spreadsheet.
type TabularRows struct {
	URI     string
	Columns []string
	Rows    [][]string
}

// QAPair is one question with its answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// KeyValuePairs is an ordered list of question/answer entries.
type KeyValuePairs struct {
	URI   string
	Pairs []QAPair
}

// Kind implements Source.
func (TextPages) Kind() SourceKind { return SourceKindTextPages }

// Kind implements Source.
func (TabularRows) Kind() SourceKind { return SourceKindTabularRows }

// Kind implements Source.
func (KeyValuePairs) Kind() SourceKind { return SourceKindKeyValuePairs }

func (TextPages) sealed()     {}
func (TabularRows) sealed()   {}
func (KeyValuePairs) sealed() {}
