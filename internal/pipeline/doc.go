// Package pipeline binds each report mode to exactly one extractor and runs it.
//
// A Pipeline is a registry of modes. Run looks the requested mode up,
// rejects an unknown name before anything is fetched, executes the
// extractor and hands the resulting table to the sink. A mode that yields
// no table (its entry page was unreachable, or it only saves a file)
// renders nothing.
package pipeline
