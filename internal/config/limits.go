package config

const (
	// MaxCabinetLabelLength is the maximum length for cabinet labels.
	// Matches the VARCHAR(128) label column.
	MaxCabinetLabelLength = 128

	// MaxSearchQueryLength bounds the cabinet label search term
	MaxSearchQueryLength = 128

	// DefaultEventLimit is the number of events returned when no limit is given
	DefaultEventLimit = 50

	// MaxEventLimit caps the limit query parameter of event listings
	MaxEventLimit = 500
)
