package dataprocessing

import (
	"strings"

	"newsprep/pkg/contracts/domain"
)

// standardizeName lowercases a column name and replaces spaces with
// underscores.
func standardizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// StandardizeColumnNames returns a dataset whose column names are all
// lowercase with underscores instead of spaces. The operation is
// idempotent. When two distinct names standardize to the same name the
// collision resolves last-write-wins (the later column's values survive).
func (p *Preprocessor) StandardizeColumnNames(ds *domain.Dataset) *domain.Dataset {
	return ds.RenameColumns(standardizeName)
}
