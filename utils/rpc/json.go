// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/rpc/v2/json2"
)

var ErrStatusCode = errors.New("unexpected status code")

// CleanlyCloseBody reads [body] to the end before closing it, so that the
// connection can be reused.
func CleanlyCloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// SendJSONRequest calls [method] with [params] over JSON-RPC 2.0 and decodes
// the result into [reply].
func SendJSONRequest(
	ctx context.Context,
	uri *url.URL,
	method string,
	params interface{},
	reply interface{},
	options ...Option,
) error {
	body, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}
	return send(ctx, http.MethodPost, uri, bytes.NewReader(body), options, func(r io.Reader) error {
		if err := json2.DecodeClientResponse(r, reply); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", method, err)
		}
		return nil
	})
}

// SendGetRequest fetches [uri] and hands the response body to [decode].
func SendGetRequest(
	ctx context.Context,
	uri *url.URL,
	decode func(io.Reader) error,
	options ...Option,
) error {
	return send(ctx, http.MethodGet, uri, http.NoBody, options, decode)
}

// send merges the query params of [options] into those of [uri]. Responses
// outside of 2xx fail with ErrStatusCode.
func send(
	ctx context.Context,
	method string,
	uri *url.URL,
	body io.Reader,
	options []Option,
	decode func(io.Reader) error,
) error {
	ops := NewOptions(options)
	target := *uri
	query := target.Query()
	for key, values := range ops.QueryParams() {
		query[key] = values
	}
	target.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header = ops.Headers()
	if method == http.MethodPost {
		request.Header.Set("Content-Type", "application/json")
	}

	//nolint:bodyclose // body is closed via CleanlyCloseBody
	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to issue request to %s: %w", target.Redacted(), err)
	}
	defer CleanlyCloseBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w %d from %s", ErrStatusCode, resp.StatusCode, target.Redacted())
	}
	return decode(resp.Body)
}
