// Package session maintains the per-instance session state: the cookie jar,
// the server-rotated tokens, and the identifiers derived from the instance
// seed. Sessions serialize to a small JSON document for cold-start restore.
package session
