// Package esa builds the enforcement snapshot of a governed repository: it
// fetches the commit, tree, enforcement registry and governance workflow from
// GitHub, classifies registry entries, derives CI gates and invariant
// coverage, and summarizes the result.
package esa
