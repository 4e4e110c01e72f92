// Package exporter provides CSV output for cleaned news datasets.
//
// CSVWriter writes generic record tables and whole datasets, with an
// optional UTF-8 BOM for Excel compatibility. Output paths are created
// on demand.
package exporter
