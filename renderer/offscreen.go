package renderer

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	options "github.com/richinsley/goshaderdemo/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is a single rendered frame's RGBA pixels, bottom row first.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// numBuffers bounds how many frames may wait for the encoder.
const numBuffers = 3

// OffscreenRenderer is an RGBA8 framebuffer the scene is drawn into when
// recording.
type OffscreenRenderer struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
}

func NewOffscreenRenderer(width, height int) (*OffscreenRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}
	or := &OffscreenRenderer{width: width, height: height}

	gl.GenFramebuffers(1, &or.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	gl.GenTextures(1, &or.textureID)
	gl.BindTexture(gl.TEXTURE_2D, or.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, or.textureID, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		or.Destroy()
		return nil, fmt.Errorf("offscreen fbo is not complete")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return or, nil
}

// Bind directs drawing into the offscreen framebuffer.
func (or *OffscreenRenderer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	gl.Viewport(0, 0, int32(or.width), int32(or.height))
}

// ReadPixels returns the framebuffer contents as tightly packed RGBA.
func (or *OffscreenRenderer) ReadPixels() []byte {
	pixels := make([]byte, or.width*or.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, or.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(or.width), int32(or.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels
}

func (or *OffscreenRenderer) Destroy() {
	if or.fbo != 0 {
		gl.DeleteFramebuffers(1, &or.fbo)
		or.fbo = 0
	}
	if or.textureID != 0 {
		gl.DeleteTextures(1, &or.textureID)
		or.textureID = 0
	}
}

// getArgs builds the FFmpeg arguments for encoding raw RGBA frames of the
// given size.
func getArgs(options *options.DemoOptions, width, height int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": strconv.Itoa(*options.FPS),
	}

	outputArgs = ffmpeg.KwArgs{
		// GL rows arrive bottom-up.
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"t":       strconv.FormatFloat(*options.Duration, 'f', -1, 64),
	}

	codec := ""
	if options.Codec != nil {
		codec = *options.Codec
	}
	switch codec {
	case "hevc":
		outputArgs["c:v"] = "libx265"
		if strings.EqualFold(filepath.Ext(*options.OutputFile), ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	default:
		outputArgs["c:v"] = "libx264"
	}
	outputArgs["b:v"] = "12M"

	if options.MusicFile != nil && *options.MusicFile != "" {
		outputArgs["c:a"] = "aac"
		outputArgs["b:a"] = "192k"
	}
	return
}

// buildEncoder assembles the FFmpeg command reading frames from r and,
// when a music file is set, muxing it in as the audio track.
func buildEncoder(options *options.DemoOptions, width, height int, r io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := getArgs(options, width, height)
	video := ffmpeg.Input("pipe:", inputArgs)

	var ffmpegCmd *ffmpeg.Stream
	if options.MusicFile != nil && *options.MusicFile != "" {
		music := ffmpeg.Input(*options.MusicFile, ffmpeg.KwArgs{"stream_loop": "-1"})
		ffmpegCmd = ffmpeg.Output([]*ffmpeg.Stream{video, music.Audio()}, *options.OutputFile, outputArgs)
	} else {
		ffmpegCmd = video.Output(*options.OutputFile, outputArgs)
	}
	ffmpegCmd = ffmpegCmd.OverWriteOutput().WithInput(r).ErrorToStdOut()

	if options.FFMPEGPath != nil && *options.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*options.FFMPEGPath)
	}
	return ffmpegCmd
}

// runEncoder is the consumer. It feeds frames from frameChan to FFmpeg until
// the channel closes.
func runEncoder(options *options.DemoOptions, width, height int, frameChan <-chan *Frame, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := buildEncoder(options, width, height, pipeReader)

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock any pending write if FFmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	for frame := range frameChan {
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to FFmpeg: %v", frame.PTS, err)
			// Drain so the producer never blocks.
			for range frameChan {
			}
			break
		}
	}
	pipeWriter.Close()
	doneChan <- <-errc
}

// RunOffscreen renders Duration seconds at FPS into the offscreen target and
// encodes them to OutputFile.
func (r *Renderer) RunOffscreen(options *options.DemoOptions) error {
	if r.offscreenRenderer == nil {
		return fmt.Errorf("renderer was not created in record mode")
	}
	if *options.FPS <= 0 || *options.Duration <= 0 {
		return fmt.Errorf("record mode requires a positive duration and frame rate")
	}
	log.Println("Starting in record mode...")

	frameChan := make(chan *Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)
	go runEncoder(options, r.width, r.height, frameChan, encoderDoneChan)

	totalFrames := int(*options.Duration * float64(*options.FPS))
	clock := newFixedClock(*options.FPS)

	for i := 0; i < totalFrames; i++ {
		r.offscreenRenderer.Bind()
		r.scene.Step(clock.tick())
		frameChan <- &Frame{Pixels: r.offscreenRenderer.ReadPixels(), PTS: int64(i)}

		if i%(*options.FPS) == 0 {
			log.Printf("Recorded %d/%d frames", i, totalFrames)
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	close(frameChan)
	return <-encoderDoneChan
}
