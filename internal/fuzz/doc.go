// Package fuzztests houses Go fuzz harnesses that exercise the SAG
// conversion pipeline (parser -> generator). Its goal is to smoke test
// robustness: no panics on arbitrary input, structural invariants on
// every accepted file, and deterministic script output.
package fuzztests
