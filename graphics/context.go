package graphics

// Context defines the interface for the window that owns the OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	// Time returns seconds since the context was initialized.
	Time() float64
}
