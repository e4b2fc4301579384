// Package services provides domain services that operate on values from several
// aggregates or that need collaborators (such as a random source) no single aggregate
// should own.
//
// The package includes:
//   - RandomWalk: fabricates the next GPS sample of a simulated delivery partner
package services
