package document

// EditConfig holds the tunables of offsite editing. Radii and sizes are in
// normalized image units.
type EditConfig struct {
	EndpointHitRadius float64
	TextHitRadius     float64
	HandleHitRadius   float64
	LineHitRadius     float64

	MinFrameSize     float64
	MaxFrameSize     float64
	DefaultFrameSize float64

	// PerspectiveFrameFraction sizes a new wall frame relative to the wall's projected extent
	PerspectiveFrameFraction float64
	// FallbackMetersPerPixel is used when no AR measurement gives a scale
	FallbackMetersPerPixel float64

	FrameColor string
	TextColor  string
}

// DefaultEditConfig returns the standard editing tunables
func DefaultEditConfig() EditConfig {
	return EditConfig{
		EndpointHitRadius:        0.03,
		TextHitRadius:            0.05,
		HandleHitRadius:          0.03,
		LineHitRadius:            0.05,
		MinFrameSize:             0.05,
		MaxFrameSize:             0.9,
		DefaultFrameSize:         0.2,
		PerspectiveFrameFraction: 0.25,
		FallbackMetersPerPixel:   0.002,
		FrameColor:               "#FFCC00",
		TextColor:                "#FFFFFF",
	}
}
