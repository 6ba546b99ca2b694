// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExporterTypeFromString(t *testing.T) {
	tests := []struct {
		input       string
		expected    ExporterType
		expectedErr error
	}{
		{input: "", expected: NoOp},
		{input: "null", expected: NoOp},
		{input: "GRPC", expected: GRPC},
		{input: "http", expected: HTTP},
		{input: "zipkin", expectedErr: errUnknownExporterType},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			require := require.New(t)

			exporterType, err := ExporterTypeFromString(test.input)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expected, exporterType)
		})
	}
}

func TestExporterTypeJSON(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(GRPC)
	require.NoError(err)
	require.Equal(`"grpc"`, string(b))

	var exporterType ExporterType
	require.NoError(json.Unmarshal([]byte(`"http"`), &exporterType))
	require.Equal(HTTP, exporterType)

	err = json.Unmarshal([]byte(`5`), &exporterType)
	require.ErrorIs(err, errInvalidFormat)
}

func TestNewNoop(t *testing.T) {
	require := require.New(t)

	tracer, err := New(Config{})
	require.NoError(err)
	require.Equal(Noop, tracer)

	_, span := tracer.Start(context.Background(), "switchNetwork")
	span.End()
	require.False(span.SpanContext().IsValid())
	require.NoError(tracer.Close())
}
