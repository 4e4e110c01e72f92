// Package dataprocessing cleans raw financial news datasets for
// downstream analysis.
//
// # Architecture
//
// The package is organized around two components:
//
// 1. Preprocessor: the cleaning pipeline. It standardizes column names,
// parses the date column to timezone-naive timestamps, drops rows with
// missing critical fields and derives the headline_length column.
// 2. Analyzer: post-cleaning diagnostics. It reports the headline-length
// distribution, the most active publishers and article counts per day.
//
// # Usage
//
// Run the full pipeline over a loaded dataset:
//
//	preprocessor := dataprocessing.NewPreprocessor(logger, dataprocessing.DefaultPreprocessorConfig())
//	cleaned, err := preprocessor.Preprocess(ctx, ds)
//	if err != nil {
//	    return err
//	}
//
// Individual steps are available for callers that need only part of the
// pipeline:
//
//	ds = preprocessor.StandardizeColumnNames(ds)
//	ds, err = preprocessor.ParseDates(ctx, ds, "date", dataprocessing.ParseCoerce)
//	ds = preprocessor.DropIncomplete(ctx, ds, nil)
//
// # Error Handling
//
// Step failures abort the whole operation; Preprocess re-logs them and
// returns them with their error kind unchanged so callers can
// discriminate with the errors package. The caller's dataset is never
// mutated; the pipeline operates on a defensive copy.
package dataprocessing
