// Package buildinfo holds values stamped at link time with -ldflags -X.
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
