// Package abi provides internal utilities for the canonical encoder.
//
// It converts loosely-typed document values (numbers that may arrive as
// float64, json.Number, *big.Int or numeric strings; sequences; keyed
// objects) into the exact Go values the binary writer needs.
//
// # Contents
//
//   - coerce.go: number, byte, float and boolean coercion with integrality checks
//   - helpers.go: document-kind names, sequence and object access
//
// This package is internal to the transcoder.
package abi
