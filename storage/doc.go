// Package storage implements the main storage processor: arrays of 36-bit
// words addressed by processor UPI, segment, and offset.
//
// Every word is an atomic cell. Reads and writes are word-at-a-time, and
// CompareAndSwap provides the single indivisible read-modify-write used by
// the test-and-set class of instructions.
package storage
