// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"errors"
	"fmt"
	"strings"
)

const (
	NoOp ExporterType = iota
	GRPC
	HTTP
)

var (
	errUnknownExporterType = errors.New("unknown exporter type")
	errInvalidFormat       = errors.New("invalid format")

	exporterTypes = map[string]ExporterType{
		"":         NoOp,
		"null":     NoOp,
		"disabled": NoOp,
		"noop":     NoOp,
		"grpc":     GRPC,
		"http":     HTTP,
	}
)

func ExporterTypeFromString(exporterTypeStr string) (ExporterType, error) {
	exporterType, ok := exporterTypes[strings.ToLower(exporterTypeStr)]
	if !ok {
		return NoOp, fmt.Errorf("%w: %q", errUnknownExporterType, exporterTypeStr)
	}
	return exporterType, nil
}

type ExporterType byte

func (t ExporterType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *ExporterType) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errInvalidFormat
	}
	return t.UnmarshalText([]byte(s[1 : len(s)-1]))
}

// UnmarshalText lets config flags and files name the exporter directly.
func (t *ExporterType) UnmarshalText(b []byte) error {
	exporterType, err := ExporterTypeFromString(string(b))
	if err != nil {
		return err
	}
	*t = exporterType
	return nil
}

func (t ExporterType) String() string {
	switch t {
	case NoOp:
		return ""
	case GRPC:
		return "grpc"
	case HTTP:
		return "http"
	default:
		return "unknown"
	}
}
