// Package errors provides structured error handling for the histogram engine.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Axis errors
	CodeInvalidAxisDefinition Code = "INVALID_AXIS_DEFINITION"

	// Histogram errors
	CodeBinningMismatch   Code = "BINNING_MISMATCH"
	CodeIndexOutOfRange   Code = "INDEX_OUT_OF_RANGE"
	CodeDimensionMismatch Code = "DIMENSION_MISMATCH"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeCorruptRecord Code = "CORRUPT_RECORD"

	// Definition file errors
	CodeSpecFileInvalid   Code = "SPEC_FILE_INVALID"
	CodeSpecFileDuplicate Code = "SPEC_FILE_DUPLICATE_NAME"
)
