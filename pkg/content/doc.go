// Package content implements the content-quality heuristics behind the
// coverage snapshot: word counting, content signatures, thin-content and
// cannibalization detection, and per-persona coverage scoring.
//
// All functions are pure. Callers fill ContentUnit text fields and pass the
// units through Prepare before running detectors, or call Analyze to do
// everything at once.
package content
