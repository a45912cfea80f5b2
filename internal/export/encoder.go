package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"

	"frameweave/internal/config"
)

// encodeSession wraps a single ffmpeg process fed raw RGBA frames over
// stdin. One session encodes the whole timeline; no intermediate segment
// files touch the disk.
type encodeSession struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logBuf bytes.Buffer
}

func buildFFmpegArgs(width, height int, params config.ExportParams, output string) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", params.VideoEncoder,
	}

	switch params.VideoEncoder {
	case "h264_videotoolbox":
		// VideoToolbox quality flags are spotty across versions; use bitrate
		bitrate := params.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	args = append(args, output)
	return args
}

func startFFmpeg(ctx context.Context, width, height int, params config.ExportParams, output string) (*encodeSession, error) {
	s := &encodeSession{}
	s.cmd = exec.CommandContext(ctx, "ffmpeg", buildFFmpegArgs(width, height, params, output)...)
	s.cmd.Stdout = &s.logBuf
	s.cmd.Stderr = &s.logBuf

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	s.stdin = stdin

	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}
	return s, nil
}

func (s *encodeSession) WriteFrame(img *image.RGBA) error {
	_, err := s.stdin.Write(img.Pix)
	return err
}

func (s *encodeSession) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %v\nlog: %s", err, s.logBuf.String())
	}
	return nil
}
