// Package spec implements the declarative specification of a CAN bus.
//
// # Specification Hierarchy
//
//	Bus > Message > Signal > Enumeration
//
// A Bus names the messages that may appear on it. Messages are held in a
// plural.Unique collection keyed by both name and identifier, so neither can
// repeat within a bus. A Message describes the payload layout of one frame
// identifier as a set of Signals; a Signal may label raw values with
// Enumerations.
//
// # Decoding
//
// Bus.Unpack probes a frame against every message. A message that does not
// match the frame returns nil fields and is omitted from the result; several
// definitions may be probed against one frame and at most one is expected to
// match.
//
// # Filtered Views
//
// FilteredBus narrows a Bus to a set of interesting messages named by id or
// name. It holds a reference to the bus, never a copy, and recomputes the
// visible messages on every access. Both Bus and FilteredBus satisfy View.
//
// # Construction Input
//
// NewBus accepts its messages as a MessageSource:
//   - FromCollection: an existing collection, copied
//   - FromList: already-built messages, added in order
//   - FromMapping: name -> message or constructor fields, built in order
package spec
