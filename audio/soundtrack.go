package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os/exec"
	"strconv"
	"sync"

	"github.com/gordonklaus/portaudio"
	options "github.com/richinsley/goshaderdemo/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	soundtrackChannels = 2
	framesPerBuffer    = 1024
	analyzerSize       = 2048
	analyzerSmoothing  = 0.8
)

// Soundtrack decodes a music file with FFmpeg, loops it through the default
// PortAudio output device and analyzes what is played.
type Soundtrack struct {
	path       string
	ffmpegPath string
	sampleRate int
	channels   int

	cmd      *exec.Cmd
	stream   *portaudio.Stream
	chunks   chan []float32
	done     chan struct{}
	stopOnce sync.Once
	pending  []float32
	analyzer *Analyzer
}

// NewSoundtrack prepares playback of the file named by options.MusicFile.
func NewSoundtrack(options *options.DemoOptions) (*Soundtrack, error) {
	if options.MusicFile == nil || *options.MusicFile == "" {
		return nil, fmt.Errorf("no music file specified")
	}
	s := &Soundtrack{
		path:       *options.MusicFile,
		sampleRate: 44100,
		channels:   soundtrackChannels,
		chunks:     make(chan []float32, 16),
		done:       make(chan struct{}),
		analyzer:   NewAnalyzer(analyzerSize, analyzerSmoothing),
	}
	if options.SampleRate != nil && *options.SampleRate > 0 {
		s.sampleRate = *options.SampleRate
	}
	if options.FFMPEGPath != nil {
		s.ffmpegPath = *options.FFMPEGPath
	}
	return s, nil
}

// Level returns the current loudness of the playing audio, 0..1.
func (s *Soundtrack) Level() float32 {
	return s.analyzer.Level()
}

// Start launches the decoder and opens the output stream.
func (s *Soundtrack) Start() error {
	pipeReader, pipeWriter := io.Pipe()

	ffmpegCmd := ffmpeg.Input(s.path, ffmpeg.KwArgs{
		"stream_loop": "-1",
		"loglevel":    "error",
	}).Output("pipe:", ffmpeg.KwArgs{
		"f":  "f32le",
		"ac": strconv.Itoa(s.channels),
		"ar": strconv.Itoa(s.sampleRate),
	}).WithOutput(pipeWriter).ErrorToStdOut()

	if s.ffmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(s.ffmpegPath)
	}
	s.cmd = ffmpegCmd.Compile()

	go func() {
		if err := s.cmd.Run(); err != nil {
			log.Printf("FFmpeg soundtrack decoder finished with error: %v", err)
		}
		pipeWriter.Close()
	}()
	go s.readSamples(pipeReader)

	if err := portaudio.Initialize(); err != nil {
		s.stopDecoder()
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, s.channels, float64(s.sampleRate), framesPerBuffer, s.process)
	if err != nil {
		s.stopDecoder()
		portaudio.Terminate()
		return fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		s.stopDecoder()
		portaudio.Terminate()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}
	s.stream = stream
	log.Printf("Playing soundtrack %s at %d Hz", s.path, s.sampleRate)
	return nil
}

// readSamples converts the decoder's f32le output into sample chunks.
func (s *Soundtrack) readSamples(r io.Reader) {
	defer close(s.chunks)
	buf := make([]byte, framesPerBuffer*s.channels*4)
	for {
		n, err := io.ReadFull(r, buf)
		if n >= 4 {
			select {
			case s.chunks <- decodeF32LE(buf[:n-n%4]):
			case <-s.done:
				return
			}
		}
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF && err != io.ErrClosedPipe {
				log.Printf("Soundtrack read error: %v", err)
			}
			return
		}
	}
}

// process is the PortAudio callback. It fills out from the decoded chunks,
// padding with silence on underrun.
func (s *Soundtrack) process(out []float32) {
	n := 0
fill:
	for n < len(out) {
		if len(s.pending) == 0 {
			select {
			case chunk, ok := <-s.chunks:
				if !ok {
					break fill
				}
				s.pending = chunk
			default:
				break fill
			}
		}
		c := copy(out[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	clear(out[n:])
	s.analyzer.Push(out, s.channels)
}

func (s *Soundtrack) stopDecoder() {
	s.stopOnce.Do(func() { close(s.done) })
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
}

// Stop ends playback and the decoder.
func (s *Soundtrack) Stop() error {
	s.stopDecoder()
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		log.Printf("Failed to stop audio stream: %v", err)
	}
	err := s.stream.Close()
	s.stream = nil
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}
	return err
}

func decodeF32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
