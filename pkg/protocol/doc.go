// Package protocol implements the binary encoding of host mutation batches
// streamed by the preview server.
//
// Integers are unsigned varints and strings are varint length-prefixed
// UTF-8. A frame starts with a version byte so clients can reject formats
// they do not understand. Decoding bounds every length and count by the
// remaining input and by fixed allocation limits.
package protocol
