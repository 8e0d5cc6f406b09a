// Package sources reads the files configured for each domain and returns
// them as domain.Source values. The variant is chosen by file extension:
//
//	.pdf .txt .md   TextPages
//	.csv .xlsx      TabularRows
//	.json           KeyValuePairs
package sources
