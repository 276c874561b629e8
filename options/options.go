package options

type DemoOptions struct {
	Help       *bool
	Width      *int
	Height     *int
	Fullscreen *bool
	ImageDir   *string
	Message    *string
	FontSize   *float64
	// Seed for effect/texture selection; 0 picks a random seed.
	Seed     *uint64
	CycleMs  *float64
	JitterMs *float64
	// Interval is the number of frames between banner redraws.
	Interval *int

	// Recording options
	Record     *bool
	Duration   *float64
	FPS        *int
	OutputFile *string
	Codec      *string
	FFMPEGPath *string

	// Soundtrack options
	MusicFile  *string
	SampleRate *int
}
