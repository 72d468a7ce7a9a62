// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package execute sends code segments to a remote execution endpoint.
//
// The endpoint accepts a JSON Request and answers with a JSON Result:
//
//	POST {endpoint}
//	{"code": "print(1)", "language": "python", "execution_id": "..."}
//
//	200 OK
//	{"success": true, "result": "1\n"}
//
// Only complete code segments can be run; FromSegment rejects everything
// else with ErrNotRunnable.
//
// Example:
//
//	client := execute.NewHTTPClient(&execute.ClientConfig{Endpoint: url})
//	req, err := execute.FromSegment(seg)
//	if err != nil {
//	    return err
//	}
//	res, err := client.Execute(ctx, req)
package execute
