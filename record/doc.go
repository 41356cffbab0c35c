// Package record marshals validated record structs to and from their wire
// bytes. It layers field validation over the schema package's layouts, so
// a marshalled record is guaranteed to satisfy its declared constraints
// and a failed validation names every offending field at once.
package record
