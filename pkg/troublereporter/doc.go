// Package troublereporter is documented alongside its implementation in
// reporter.go; see that file's package comment.
package troublereporter
