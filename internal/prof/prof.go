// Package prof wires the runtime profilers behind CLI flags.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session owns the profilers enabled for one command invocation.
// The zero value is a no-op session.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	memPath   string
}

// StartCPU enables CPU profiling and writes samples to path.
func (s *Session) StartCPU(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	s.cpuFile = f
	return nil
}

// StartTrace enables the runtime execution tracer, writing to path.
func (s *Session) StartTrace(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return err
	}
	s.traceFile = f
	return nil
}

// CaptureMemOnStop arranges for a heap profile to be written to path
// when the session stops.
func (s *Session) CaptureMemOnStop(path string) {
	s.memPath = path
}

// Stop ends the active profilers in reverse start order and captures
// the heap profile if one was requested. Safe to call more than once.
func (s *Session) Stop() error {
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
	if s.memPath != "" {
		path := s.memPath
		s.memPath = ""
		return writeMem(path)
	}
	return nil
}

// writeMem captures a heap profile to path after forcing a collection,
// so the profile reflects live objects rather than garbage.
func writeMem(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close heap profile: %w", err)
	}
	return nil
}
