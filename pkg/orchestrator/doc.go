// Package orchestrator wires wizard definitions to engines: it resolves a
// definition by id, attaches the shared draft store and the submitter
// registered for that wizard, and hands back a ready engine.
package orchestrator
