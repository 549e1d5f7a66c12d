package extract

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/pkg/errors"

	"github.com/ostier/recap/log"
	"github.com/ostier/recap/subproc"
)

var whisperLog = log.NewLogger("extract.whisper")

// whisper.cpp expects raw PCM samples: f32, 16 kHz, mono.
const (
	whisperSampleRate = 16000
	whisperChannels   = 1
)

// WhisperExtractor transcribes audio and video content with a local
// whisper model. Decoding to the model's required sample format is
// delegated to ffmpeg; inference runs in-process through the whisper.cpp
// bindings. This is the one backend expected to take non-trivial time, so
// it reports progress through the optional callback.
type WhisperExtractor struct {
	// ModelPath is the ggml model file, normally from WHISPER_MODEL_PATH.
	ModelPath string
	// Progress receives percentage updates (0-100) during inference.
	Progress func(pct int)
}

func (e *WhisperExtractor) Extract(ctx context.Context, src Source, workdir string) (string, error) {
	if strings.TrimSpace(e.ModelPath) == "" {
		return "", errors.Wrap(ErrModelMissing, "set WHISPER_MODEL_PATH to a ggml model file (see the download-whisper command)")
	}
	if _, err := os.Stat(e.ModelPath); err != nil {
		return "", errors.Wrapf(ErrModelMissing, "model file %q is not readable", e.ModelPath)
	}

	staged := filepath.Join(workdir, stagedName("audio", src.Ext))
	if err := os.WriteFile(staged, src.Data, 0o600); err != nil {
		return "", errors.Wrap(err, "failed to stage audio content")
	}

	samples, err := decodeSamples(ctx, staged)
	if err != nil {
		return "", err
	}

	text, err := e.transcribe(ctx, samples)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.Wrap(ErrInference, "transcription produced empty output")
	}
	return text, nil
}

// decodeSamples normalizes any audio/video input to f32/16kHz/mono PCM via
// ffmpeg, the same front-end the upstream whisper.cpp examples use.
func decodeSamples(ctx context.Context, path string) ([]float32, error) {
	cmd := subproc.NewCommand("ffmpeg").
		Args("-nostdin", "-hide_banner", "-loglevel", "error").
		Args("-i", path).
		Args("-f", "f32le", "-ac", "1", "-ar", "16000").
		Arg("pipe:1")
	whisperLog.Debug().Str("cmd", cmd.String()).Msg("decoding audio")

	raw, err := cmd.Run(ctx)
	if err != nil {
		if errors.Is(err, subproc.ErrToolMissing) {
			return nil, errors.Wrap(err, "install ffmpeg to transcribe audio/video content")
		}
		var exitErr *subproc.ExitError
		if errors.As(err, &exitErr) {
			return nil, errors.Wrap(ErrInference, exitErr.Error())
		}
		return nil, err
	}

	if len(raw) < 4 {
		return nil, errors.Wrap(ErrInference, "decoded audio is empty")
	}

	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return samples, nil
}

func (e *WhisperExtractor) transcribe(ctx context.Context, samples []float32) (string, error) {
	model, err := whisper.New(e.ModelPath)
	if err != nil {
		return "", errors.Wrapf(ErrModelMissing, "failed to load model %q: %v", e.ModelPath, err)
	}
	defer model.Close()

	wctx, err := model.NewContext()
	if err != nil {
		return "", errors.Wrap(ErrInference, err.Error())
	}
	wctx.SetThreads(uint(runtime.NumCPU()))

	var builder strings.Builder
	segmentCB := func(segment whisper.Segment) {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			return
		}
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(text)
	}

	progressCB := func(pct int) {
		whisperLog.Debug().Int("pct", pct).Msg("transcription progress")
		if e.Progress != nil {
			e.Progress(pct)
		}
	}

	// Abort inference between encoder passes when the run is cancelled.
	encoderBeginCB := func() bool {
		return ctx.Err() == nil
	}

	if err := wctx.Process(samples, encoderBeginCB, segmentCB, progressCB); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.Wrap(ErrInference, err.Error())
	}

	return strings.TrimSpace(builder.String()), nil
}
