// Package fsattr looks up the filesystem attributes used to classify playlist entries:
// display name, content type, file type, modification time and the freedesktop.org
// thumbnail of a file.
//
// Lookups are memoized for a configurable TTL.
package fsattr
