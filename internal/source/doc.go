// Package source opens a dataset by location. A location is a local path,
// an http(s) URL or an s3://bucket/key reference; Compound dispatches on the
// scheme to the matching opener.
package source
