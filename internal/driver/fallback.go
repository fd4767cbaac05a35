package driver

const fallbackScript = `
/* Fallback memory layout for AE350 DDR mode */
MEMORY
{
    FLASH (rx)  : ORIGIN = 0x80000000, LENGTH = 256M
    RAM (rwx)   : ORIGIN = 0x00000000, LENGTH = 128M
}

REGION_ALIAS("REGION_TEXT", FLASH);
REGION_ALIAS("REGION_RODATA", FLASH);
REGION_ALIAS("REGION_DATA", RAM);
REGION_ALIAS("REGION_BSS", RAM);
REGION_ALIAS("REGION_HEAP", RAM);
REGION_ALIAS("REGION_STACK", RAM);

_stack_start = ORIGIN(RAM) + LENGTH(RAM);
`

// Fallback returns a minimal AE350 DDR memory layout. The emit path
// writes it when the configured layout cannot be converted, so a
// broken .sag file degrades the link instead of breaking the build.
func Fallback() string {
	return fallbackScript
}
