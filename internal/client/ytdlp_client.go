package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed-app/backend/internal/lib"
)

// VideoInfo is the cleaned-up result of a metadata probe.
type VideoInfo struct {
	Title   string        `json:"title,omitempty"`
	Formats []VideoFormat `json:"formats"`
}

type VideoFormat struct {
	ID            string   `json:"formatId,omitempty"`
	Extension     string   `json:"extension,omitempty"`
	Resolution    string   `json:"resolution,omitempty"`
	FPS           *float64 `json:"fps,omitempty"`
	FilesizeBytes *int64   `json:"filesizeBytes,omitempty"`
	BitrateKbps   *float64 `json:"bitrateKbps,omitempty"`
	VideoCodec    string   `json:"videoCodec,omitempty"`
	AudioCodec    string   `json:"audioCodec,omitempty"`
	DirectURL     string   `json:"directUrl,omitempty"`
	Note          string   `json:"note,omitempty"`
	Height        *int     `json:"height,omitempty"`
	Width         *int     `json:"width,omitempty"`
	Protocol      string   `json:"protocol,omitempty"`
}

// OutputParseError reports tool output that could not be decoded. RawOutput
// is echoed to the caller as a debugging aid; this is the one place raw
// upstream output crosses the boundary.
type OutputParseError struct {
	RawOutput string
	Reason    error
}

func (e *OutputParseError) Error() string {
	return fmt.Sprintf("parsing yt-dlp output: %v", e.Reason)
}

func (e *OutputParseError) Unwrap() error {
	return lib.ErrUpstream
}

// YtDlpClient probes video URLs by shelling out to yt-dlp. Every probe runs
// under a bounded timeout; on expiry the process is killed, never orphaned.
type YtDlpClient struct {
	binary  string
	timeout time.Duration
	log     *zap.Logger
}

func NewYtDlpClient(binary string, timeout time.Duration, log *zap.Logger) *YtDlpClient {
	if binary == "" {
		binary = "yt-dlp"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &YtDlpClient{
		binary:  binary,
		timeout: timeout,
		log:     log,
	}
}

// Inspect runs `yt-dlp -j` for the URL and decodes the metadata dump.
func (c *YtDlpClient) Inspect(ctx context.Context, videoURL string) (*VideoInfo, error) {
	if strings.TrimSpace(videoURL) == "" {
		return nil, fmt.Errorf("%w: video URL cannot be empty", lib.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary,
		"-j",
		"--no-warnings",
		"--no-check-certificate",
		videoURL,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// The tool runs in its own process group and cancellation kills the whole
	// group: yt-dlp spawns helpers (ffmpeg, external downloaders) that would
	// outlive a kill of the direct child and keep the output pipes open.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	// Wait must not hang on a pipe some orphan still holds after the kill.
	cmd.WaitDelay = time.Second

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %v", lib.ErrUpstream, c.binary, err)
	}

	err := cmd.Wait()
	if ctx.Err() == context.DeadlineExceeded {
		c.log.Error("video probe timed out",
			zap.String("url", videoURL),
			zap.Duration("timeout", c.timeout))
		return nil, fmt.Errorf("%w: %s timed out after %s", lib.ErrUpstream, c.binary, c.timeout)
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "unknown error"
		}
		c.log.Error("video probe failed",
			zap.String("url", videoURL),
			zap.String("stderr", detail))
		return nil, fmt.Errorf("%w: %s: %s", lib.ErrUpstream, c.binary, detail)
	}

	return decodeProbeOutput(stdout.Bytes())
}

// metadataSchema is the minimal shape Inspect relies on; anything else in the
// dump is ignored.
const metadataSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"formats": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

// probeDump mirrors the field names of the yt-dlp JSON dump.
type probeDump struct {
	Title   string      `json:"title"`
	Formats []probeItem `json:"formats"`
}

type probeItem struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Resolution     string   `json:"resolution"`
	FPS            *float64 `json:"fps"`
	Filesize       *int64   `json:"filesize"`
	FilesizeApprox *int64   `json:"filesize_approx"`
	TBR            *float64 `json:"tbr"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	URL            string   `json:"url"`
	FormatNote     string   `json:"format_note"`
	Height         *int     `json:"height"`
	Width          *int     `json:"width"`
	Protocol       string   `json:"protocol"`
}

func decodeProbeOutput(raw []byte) (*VideoInfo, error) {
	trimmed := bytes.TrimSpace(raw)

	keyErrors, err := lib.ValidateJSON(trimmed, metadataSchema)
	if err != nil {
		return nil, &OutputParseError{RawOutput: string(trimmed), Reason: err}
	}
	if len(keyErrors) > 0 {
		return nil, &OutputParseError{
			RawOutput: string(trimmed),
			Reason:    fmt.Errorf("schema violation: %s", keyErrors[0].Message),
		}
	}

	var dump probeDump
	if err := json.Unmarshal(trimmed, &dump); err != nil {
		return nil, &OutputParseError{RawOutput: string(trimmed), Reason: err}
	}

	info := &VideoInfo{
		Title:   dump.Title,
		Formats: make([]VideoFormat, 0, len(dump.Formats)),
	}
	for _, item := range dump.Formats {
		filesize := item.Filesize
		if filesize == nil {
			filesize = item.FilesizeApprox
		}
		info.Formats = append(info.Formats, VideoFormat{
			ID:            item.FormatID,
			Extension:     item.Ext,
			Resolution:    item.Resolution,
			FPS:           item.FPS,
			FilesizeBytes: filesize,
			BitrateKbps:   item.TBR,
			VideoCodec:    item.VCodec,
			AudioCodec:    item.ACodec,
			DirectURL:     item.URL,
			Note:          item.FormatNote,
			Height:        item.Height,
			Width:         item.Width,
			Protocol:      item.Protocol,
		})
	}
	return info, nil
}
