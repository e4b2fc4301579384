// Package kernel holds the value objects shared by the order, session and user
// aggregates:
//   - ID: an opaque non-empty identifier (seeded ids such as "ord-1" or generated UUIDs)
//   - Location: a timestamped latitude/longitude sample
//
// Both are immutable and only valid when built by their constructors.
package kernel
