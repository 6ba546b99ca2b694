// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package version

import "fmt"

// GitCommit is set by the build script
var GitCommit string

// String returns the client name and version, with the commit if known.
func String() string {
	format := "%s/%s"
	args := []interface{}{
		Client,
		Current,
	}
	if GitCommit != "" {
		format += " [commit=%s]"
		args = append(args, GitCommit)
	}
	return fmt.Sprintf(format, args...)
}
