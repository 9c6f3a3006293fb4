// Package importer is documented alongside its implementation in
// importer.go; see that file's package comment.
package importer
