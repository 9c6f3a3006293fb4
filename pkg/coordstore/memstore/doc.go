// Package memstore is documented alongside its implementation in
// memstore.go; see that file's package comment.
package memstore
