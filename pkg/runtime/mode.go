package runtime

// Mode selects PROD/DEV admission strictness.
type Mode string

const (
	// ModeProd requires every boot check and contract to be green; any
	// defect aborts the run.
	ModeProd Mode = "prod"
	// ModeDev downgrades non-mandatory failures to warnings and continues
	// with the affected unit (contract, signal, boot check) marked unusable.
	ModeDev Mode = "dev"
)

// IsValid reports whether m is one of the closed enumeration values.
func (m Mode) IsValid() bool {
	return m == ModeProd || m == ModeDev
}

// ParseMode parses the MODE environment variable / CLI flag value,
// defaulting to ModeProd when empty.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeDev:
		return ModeDev
	default:
		return ModeProd
	}
}
