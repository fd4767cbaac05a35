package layout

const (
	kib = 1024
	mib = 1024 * kib
)

// AE350DDR is the default map for the AE350 platform booting from flash
// into external DDR.
func AE350DDR() *Config {
	return &Config{
		Name: "AE350 DDR",
		Regions: map[string]Region{
			"FLASH": {Origin: 0x80000000, Length: 256 * mib, Attrs: "rx"},
			"DDR":   {Origin: 0x00000000, Length: 128 * mib, Attrs: "rwx"},
		},
	}
}

// AE350ILM is the map for running out of the core's instruction local
// memory instead of DDR.
func AE350ILM() *Config {
	return &Config{
		Name: "AE350 ILM",
		Regions: map[string]Region{
			"FLASH": {Origin: 0x80000000, Length: 256 * mib, Attrs: "rx"},
			"ILM":   {Origin: 0xA0000000, Length: 2 * mib, Attrs: "rwx"},
		},
	}
}

// Preset returns the built-in memory map registered under key.
func Preset(key string) (*Config, bool) {
	switch key {
	case "ddr":
		return AE350DDR(), true
	case "ilm":
		return AE350ILM(), true
	default:
		return nil, false
	}
}

// PresetKeys lists the keys accepted by Preset, in display order.
func PresetKeys() []string {
	return []string{"ddr", "ilm"}
}
