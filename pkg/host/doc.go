// Package host defines the contract between the engine and a live host tree.
//
// The engine never touches host nodes directly. It creates, mutates, moves and
// removes them through an Adapter, which makes the engine independent of the
// concrete tree: a browser DOM bridge, a terminal UI, or the in-memory tree in
// package memhost.
//
// # Optional capabilities
//
// Adapters may also implement SelectionKeeper, to preserve focus and text
// selection across value patches, and PropertyReader, to let the patcher skip
// property writes whose live value is already current.
package host
