// SPDX-License-Identifier: MPL-2.0

// Package locate finds the EnviREAment test runner and demo scripts for a
// workspace.
//
// Each target is looked up through an ordered list of candidates and the first
// one that yields an existing file wins:
//
//  1. the workspace itself (e.g. <root>/enhanced_test_runner.lua)
//  2. the npm installation (<root>/node_modules/envireament/...)
//  3. the Python package, asked for its install location by a short-lived
//     interpreter probe bounded by a timeout
//
// Nothing is cached; every Resolve call probes the filesystem again. A miss is
// a normal result, never an error, and a failing probe is folded into a miss.
package locate
