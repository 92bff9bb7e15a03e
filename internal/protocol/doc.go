// Package protocol owns the scalp wire contract.
//
// Ownership boundary:
// - fixed 11-byte envelope layout and status bitfield
// - field access by name and by index
// - command registry and id assignment
// - typed message construction, decode and rendering
package protocol
