// Package persistence stores device table snapshots as JSON files.
//
// A snapshot records the devices a camera manager knew about when it
// stopped (node paths, drivers, fingerprints, entities). It is purely
// diagnostic: nothing is restored from it at startup, but operators and
// the lumen-log tooling can compare runs or inspect what a machine
// exposed at a given time.
package persistence
