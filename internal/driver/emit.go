package driver

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"time"

	"sagld/internal/layout"
)

// EmitResult reports what the emit path did.
type EmitResult struct {
	OutputPath string
	Script     string
	Fallback   bool  // fallback layout written because conversion failed
	Skipped    bool  // output already current, write skipped
	ConvertErr error // why the fallback was used
	Timings    Timings
}

// Emit converts sagPath and writes the script to outputPath. A
// conversion failure is not an error: the fallback layout is written
// instead and the cause lands in EmitResult.ConvertErr. When cache
// says the output is already current, the file is left untouched so
// its mtime does not trigger downstream rebuilds.
func Emit(sagPath, outputPath string, cfg *layout.Config, toolVersion string, cache *EmitCache) (*EmitResult, error) {
	res := &EmitResult{OutputPath: outputPath}

	conv, err := ConvertFile(sagPath, cfg)
	if conv != nil {
		res.Timings = conv.Timings
	}
	if err != nil {
		res.Fallback = true
		res.ConvertErr = err
		res.Script = Fallback()
	} else {
		res.Script = conv.Script
	}

	scriptHash := sha256.Sum256([]byte(res.Script))

	if !res.Fallback {
		var cached EmitPayload
		if ok, _ := cache.Get(conv.File.Hash, &cached); ok && cacheEntryCurrent(&cached, cfg.Name, toolVersion, outputPath, scriptHash) {
			res.Skipped = true
			return res, nil
		}
		// Cache miss can still mean an up-to-date file, e.g. after the
		// cache was dropped. Fall back to comparing content.
		if existing, readErr := os.ReadFile(outputPath); readErr == nil && string(existing) == res.Script {
			res.Skipped = true
			recordEmit(cache, conv.File.Hash, cfg.Name, toolVersion, outputPath, scriptHash)
			return res, nil
		}
	}

	start := time.Now()
	if err := writeFileAtomic(outputPath, []byte(res.Script)); err != nil {
		return res, err
	}
	res.Timings.Set(StageWrite, time.Since(start))

	if !res.Fallback {
		recordEmit(cache, conv.File.Hash, cfg.Name, toolVersion, outputPath, scriptHash)
	}
	return res, nil
}

// cacheEntryCurrent reports whether a cached emit still describes both
// the script we would write and the file on disk. The disk check is a
// stat, not a read.
func cacheEntryCurrent(cached *EmitPayload, layoutName, toolVersion, outputPath string, scriptHash [32]byte) bool {
	if cached.Schema != emitCacheSchemaVersion ||
		cached.Layout != layoutName ||
		cached.ToolVersion != toolVersion ||
		cached.OutputPath != outputPath ||
		cached.OutputHash != scriptHash {
		return false
	}
	info, err := os.Stat(outputPath)
	if err != nil {
		return false
	}
	return info.Size() == cached.OutputSize && info.ModTime().Equal(cached.OutputModTime)
}

// recordEmit stores the emit outcome. Cache failures are deliberately
// ignored: the next emit just does a little more work.
func recordEmit(cache *EmitCache, sourceHash [32]byte, layoutName, toolVersion, outputPath string, scriptHash [32]byte) {
	info, err := os.Stat(outputPath)
	if err != nil {
		return
	}
	payload := &EmitPayload{
		Schema:        emitCacheSchemaVersion,
		Layout:        layoutName,
		ToolVersion:   toolVersion,
		SourceHash:    sourceHash,
		OutputHash:    scriptHash,
		OutputPath:    outputPath,
		OutputSize:    info.Size(),
		OutputModTime: info.ModTime(),
	}
	_ = cache.Put(sourceHash, payload)
}

// writeFileAtomic writes via a temp file and rename so a crash cannot
// leave a half-written linker script for the build to pick up.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}
