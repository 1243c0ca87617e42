package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amonks/tix/internal/validation"
)

type outputFormat string

const (
	formatTable   outputFormat = "table"
	formatCompact outputFormat = "compact"
	formatJSON    outputFormat = "json"
)

var errInvalidFormat = errors.New("invalid output format")

func outputFormats() []outputFormat {
	return []outputFormat{formatTable, formatCompact, formatJSON}
}

func outputFormatNames() []string {
	return names(outputFormats())
}

func parseOutputFormat(value string) error {
	_, err := toOutputFormat(value)
	return err
}

func toOutputFormat(value string) (outputFormat, error) {
	normalized := outputFormat(strings.ToLower(strings.TrimSpace(value)))
	for _, format := range outputFormats() {
		if normalized == format {
			return format, nil
		}
	}
	return "", validation.FormatInvalidValueError(errInvalidFormat, outputFormat(value), outputFormats())
}

// resolveOutputFormat picks --format, then the configured format, then table.
func resolveOutputFormat(flagValue, configValue string) (outputFormat, error) {
	if flagValue != "" {
		return toOutputFormat(flagValue)
	}
	if configValue != "" {
		format, err := toOutputFormat(configValue)
		if err != nil {
			return "", fmt.Errorf("config output.format: %w", err)
		}
		return format, nil
	}
	return formatTable, nil
}

func (a *app) format() (outputFormat, error) {
	return resolveOutputFormat(globalFormat, a.cfg.Output.Format)
}

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
