// Package pdf extracts per-page text from PDF files.
//
// Two extractors are available:
//   - Pdftotext shells out to poppler's pdftotext, which must be on PATH
//   - UniPDF parses the file in-process with unipdf and needs a UniDoc key
package pdf
