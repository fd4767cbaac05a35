package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new sagld project",
	Long: `Initialize a new sagld project by creating a project manifest (sagld.toml)
and a starter memory layout (memory.sag). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit creates sagld.toml and memory.sag at the target path, creating the
// directory when needed and refusing to overwrite an existing manifest.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := filepath.Base(target)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "sagld-project"
	}

	manifestPath := filepath.Join(target, "sagld.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	sagPath := filepath.Join(target, "memory.sag")
	createdSag := false
	if _, err := os.Stat(sagPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(sagPath, []byte(defaultMemorySag()), 0o600); err != nil {
			return fmt.Errorf("failed to write memory.sag: %w", err)
		}
		createdSag = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized sagld project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - sagld.toml\n")
	if createdSag {
		fmt.Fprintf(os.Stdout, "  - memory.sag\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - memory.sag (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a minimal TOML manifest pointing the emit
// command at the starter layout.
func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# sagld project manifest
[package]
name = "%s"
version = "0.1.0"

[memory]
sag = "memory.sag"
layout = "ddr"
output = "memory.x"
`, name)
}

// defaultMemorySag returns a starter boot image layout: a bootloader block
// at the flash base, code copied into RAM, and initialized data with a
// stack pointer.
func defaultMemorySag() string {
	return `; Boot image memory layout for AE350 DDR mode
USER_SECTIONS .bootloader

HEAD 0x80000000
{
    BOOTLOADER 0x80000000
    {
        ADDR __boot_start
        * KEEP ( .bootloader )
    }
}

EXEC +0 ALIGN 4096
{
    CODE 0x00000000
    {
        * ( +RO )
        LOADADDR __text_lma
    }
}

DATA +0 ALIGN 16
{
    SYSMEM 0x00100000
    {
        * ( +RW )
        STACK = 0x07F00000
    }
}
`
}
