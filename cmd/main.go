package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	audio "github.com/richinsley/goshaderdemo/audio"
	"github.com/richinsley/goshaderdemo/glfwcontext"
	options "github.com/richinsley/goshaderdemo/options"
	renderer "github.com/richinsley/goshaderdemo/renderer"
)

func runDemo(options *options.DemoOptions) error {
	record := *options.Record

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	// If recording, the window is hidden.
	ctx, err := glfwcontext.New(options, !record)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	r, err := renderer.NewRenderer(ctx, options, record)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	if err := r.InitScene(options); err != nil {
		return fmt.Errorf("failed to initialize scene: %w", err)
	}

	if record {
		log.Println("Starting offscreen render loop...")
		if err := r.RunOffscreen(options); err != nil {
			return fmt.Errorf("offscreen rendering failed: %w", err)
		}
		log.Printf("Successfully rendered to %s", *options.OutputFile)
		return nil
	}

	ctx.RegisterKeyCallback(glfw.KeyN, r.ForceRotation)

	if *options.MusicFile != "" {
		soundtrack, err := audio.NewSoundtrack(options)
		if err != nil {
			return err
		}
		if err := soundtrack.Start(); err != nil {
			log.Printf("Warning: soundtrack disabled: %v", err)
		} else {
			defer soundtrack.Stop()
			r.SetLevelSource(soundtrack)
		}
	}

	log.Println("Starting interactive render loop...")
	r.Run()
	return nil
}

func init() {
	runtime.LockOSThread()
}

func main() {
	options := &options.DemoOptions{
		Help:       flag.Bool("help", false, "Show help message"),
		Width:      flag.Int("width", 1280, "Width of the window or recording"),
		Height:     flag.Int("height", 720, "Height of the window or recording"),
		Fullscreen: flag.Bool("fullscreen", false, "Open the window fullscreen on the primary monitor"),
		ImageDir:   flag.String("images", "images", "Directory of pictures to run the effects over"),
		Message:    flag.String("message", renderer.DefaultMessage, "Scrolling banner text"),
		FontSize:   flag.Float64("fontsize", 40, "Banner font size in pixels"),
		Seed:       flag.Uint64("seed", 0, "Seed for effect and picture selection (0 = random)"),
		CycleMs:    flag.Float64("cycle", 7000, "Milliseconds each effect and picture stay on screen"),
		JitterMs:   flag.Float64("jitter", 1000, "Maximum random offset added to the effect time, in milliseconds"),
		Interval:   flag.Int("interval", 3, "Frames between banner redraws"),

		// Recording flags
		Record:     flag.Bool("record", false, "Render offscreen and encode to a file"),
		Duration:   flag.Float64("duration", 30.0, "Duration to record in seconds"),
		FPS:        flag.Int("fps", 60, "Frames per second for recording"),
		OutputFile: flag.String("output", "output.mp4", "Output file name for recording"),
		Codec:      flag.String("codec", "h264", "Video codec for recording (h264, hevc)"),
		FFMPEGPath: flag.String("ffmpeg", "", "Path to ffmpeg executable"),

		// Soundtrack flags
		MusicFile:  flag.String("music", "", "Audio file to play (and mux when recording)"),
		SampleRate: flag.Int("samplerate", 44100, "Soundtrack playback sample rate"),
	}
	flag.Parse()

	if *options.Help {
		fmt.Println("Shader Demo Viewer/Recorder")
		flag.PrintDefaults()
		return
	}

	if err := runDemo(options); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
