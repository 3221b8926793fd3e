package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cabinets/internal/config"
	"cabinets/internal/domain"
)

// Form messages shown to the caller next to the offending field
const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. %s is not one of the available choices."
)

var labelRules = []validation.Rule{
	validation.Required.Error(msgRequired),
	validation.RuneLength(1, config.MaxCabinetLabelLength).
		Error(fmt.Sprintf("Ensure this value has at most %d characters.", config.MaxCabinetLabelLength)),
}

// validateLabel trims and validates a cabinet label
func validateLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if err := validation.Validate(label, labelRules...); err != nil {
		return "", fieldError("label", err)
	}
	return label, nil
}

// fieldError converts an ozzo-validation error into a domain.ValidationError.
// For validation.Errors the first field (alphabetically) is reported.
func fieldError(field string, err error) error {
	var errs validation.Errors
	if errors.As(err, &errs) {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if errs[k] != nil {
				return &domain.ValidationError{Field: k, Message: errs[k].Error()}
			}
		}
	}
	return &domain.ValidationError{Field: field, Message: err.Error()}
}

// invalidChoice reports a selection the caller cannot act on
func invalidChoice(field, id string) error {
	return &domain.ValidationError{Field: field, Message: fmt.Sprintf(msgInvalidChoice, id)}
}

// required reports a missing form field
func required(field string) error {
	return &domain.ValidationError{Field: field, Message: msgRequired}
}

// normalizeIDs trims, drops empty values and de-duplicates while keeping order
func normalizeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// normalizeParent maps an empty parent ID to nil (root)
func normalizeParent(parentID *string) *string {
	if parentID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*parentID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
