// ABOUTME: Entry point for the Outpour demo player
// ABOUTME: Feeds decoded PCM through the playback engine with a TUI
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hajimehoshi/go-mp3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/outpour-audio/outpour-go/internal/config"
	"github.com/outpour-audio/outpour-go/internal/logging"
	"github.com/outpour-audio/outpour-go/internal/ui"
	"github.com/outpour-audio/outpour-go/internal/version"
	"github.com/outpour-audio/outpour-go/pkg/engine"
	"github.com/outpour-audio/outpour-go/pkg/mixer"
	"github.com/outpour-audio/outpour-go/pkg/pcm"
	"github.com/outpour-audio/outpour-go/pkg/sink"
)

var (
	configPath  = flag.String("config", "", "Configuration file path")
	input       = flag.String("input", "", "Input file: .mp3 or raw S16LE PCM")
	backend     = flag.String("backend", "", "Sink backend: oto, malgo, portaudio, null")
	bufferMs    = flag.Int("buffer-ms", 0, "Target buffer duration in milliseconds")
	rate        = flag.Int("rate", 44100, "Sample rate for raw PCM input")
	channels    = flag.Int("channels", 2, "Channel count for raw PCM input")
	volume      = flag.Int("volume", 100, "Initial volume (0-100)")
	logFile     = flag.String("log-file", "outpour-player.log", "Log file path (TUI mode)")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, log to stderr instead")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s)\n", version.Product, version.Version, version.Manufacturer)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Audio.Backend = *backend
	}
	if *bufferMs > 0 {
		cfg.Audio.BufferMs = *bufferMs
	}

	useTUI := !*noTUI

	var log zerolog.Logger
	if useTUI {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		log = logging.NewWriter(f, cfg.Debug)
	} else {
		log = logging.NewConsole(cfg.Debug)
	}

	if *input == "" {
		log.Fatal().Msg("no input file (use -input)")
	}

	var metrics *engine.Metrics
	if cfg.Metrics.Addr != "" {
		metrics = engine.NewMetrics(prometheus.DefaultRegisterer)
		go serveMetrics(cfg.Metrics.Addr, log)
	}

	snk, gain, err := newSink(cfg.Audio.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("sink setup failed")
	}

	var elem mixer.Element
	if cfg.Audio.MixerElement != "" {
		elem = mixer.NewSoftElement(cfg.Audio.MixerElement, gain)
	}
	bridge := mixer.NewBridge(elem, log)
	bridge.SetVolume(*volume, *volume)

	reader, spec, track, err := openInput(*input)
	if err != nil {
		log.Fatal().Err(err).Msg("input setup failed")
	}

	session := engine.NewSession(snk, engine.Options{
		BufferMs:             cfg.Audio.BufferMs,
		Device:               cfg.Audio.Device,
		DelayChunkMs:         cfg.Audio.Workarounds.DelayChunkMs,
		DisableHardwareDrain: cfg.Audio.Workarounds.DisableHWDrain,
		DisableHardwareDrop:  cfg.Audio.Workarounds.DisableHWDrop,
		Metrics:              metrics,
		Logger:               log,
	})

	if err := session.Open(spec); err != nil {
		log.Fatal().Err(err).Stringer("spec", spec).Msg("open failed")
	}

	log.Info().Str("track", track).Stringer("spec", spec).
		Str("backend", cfg.Audio.Backend).Msg("playback starting")

	// stopping closes before session teardown so the helper goroutines
	// stop touching the session first.
	stopping := make(chan struct{})

	// TUI setup
	var tuiProg *tea.Program
	controls := ui.NewControls()
	if useTUI {
		tuiProg, err = ui.Run(controls)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start TUI")
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Error().Err(err).Msg("TUI exited")
			}
		}()
		go statusLoop(session, tuiProg, track, spec, stopping)
	}

	done := make(chan error, 1)
	go feed(session, reader, done)

	go handleControls(session, bridge, controls, stopping)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("playback failed")
		} else {
			log.Info().Msg("playback finished")
		}
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-controls.Quit:
		log.Info().Msg("quit from TUI")
	}

	close(stopping)
	if tuiProg != nil {
		tuiProg.Quit()
	}
	if err := session.Close(); err != nil {
		log.Error().Err(err).Msg("error closing session")
	}
	log.Info().Msg("player stopped")
}

// newSink creates the configured backend and, where the backend has a
// software gain control, returns a hook for the mixer bridge.
func newSink(backend string) (sink.Sink, func(float64), error) {
	switch strings.ToLower(backend) {
	case "", "oto":
		o := sink.NewOto()
		return o, o.SetGain, nil
	case "malgo":
		return sink.NewMalgo(), nil, nil
	case "portaudio":
		return sink.NewPortAudio(), nil, nil
	case "null":
		return &sink.Null{Realtime: true}, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", backend)
}

// openInput opens an mp3 or raw S16LE file and reports its PCM spec.
func openInput(path string) (io.Reader, pcm.Spec, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pcm.Spec{}, "", err
	}

	track := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		decoder, err := mp3.NewDecoder(f)
		if err != nil {
			return nil, pcm.Spec{}, "", fmt.Errorf("mp3 decode: %w", err)
		}
		// go-mp3 always outputs 16-bit stereo.
		spec := pcm.Spec{Format: pcm.FormatS16LE, Rate: decoder.SampleRate(), Channels: 2}
		return decoder, spec, track, nil
	}

	spec := pcm.Spec{Format: pcm.FormatS16LE, Rate: *rate, Channels: *channels}
	return f, spec, track, nil
}

// feed streams the input into the session and drains at end of file.
func feed(session *engine.Session, r io.Reader, done chan<- error) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := session.Write(buf[:n]); werr != nil {
				done <- werr
				return
			}
		}
		if err == io.EOF {
			done <- session.Drain()
			return
		}
		if err != nil {
			done <- err
			return
		}
	}
}

// handleControls forwards TUI volume and transport requests. Volume
// changes may arrive concurrently with transport operations; the mixer
// bridge and session are safe for that.
func handleControls(session *engine.Session, bridge *mixer.Bridge, controls *ui.Controls, stopping <-chan struct{}) {
	for {
		select {
		case v := <-controls.Volume:
			bridge.SetVolume(v.Left, v.Right)
		case t := <-controls.Transport:
			session.Pause(t.Pause)
		case <-stopping:
			return
		}
	}
}

// statusLoop polls the session clock for the TUI, exercising the
// time-reporting API from a second goroutine as a UI would.
func statusLoop(session *engine.Session, prog *tea.Program, track string, spec pcm.Spec, stopping <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			buffered, capacity := session.Buffered()
			prog.Send(ui.StatusMsg{
				Track:     track,
				Format:    spec.String(),
				State:     session.State().String(),
				OutputMs:  session.OutputTime(),
				WrittenMs: session.WrittenTime(),
				Buffered:  buffered,
				Capacity:  capacity,
			})
		case <-stopping:
			return
		}
	}
}

func serveMetrics(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
	}
}
