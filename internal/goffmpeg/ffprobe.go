package goffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wader/subcat/internal/goffmpeg/internal/execextra"
	"github.com/wader/subcat/internal/goffmpeg/internal/kvargs"
	"github.com/wader/subcat/internal/goffmpeg/internal/linebuffer"
)

// FFprobePath to ffprobe binary. Will be used as name to cmd.Command.
var FFprobePath = "ffprobe"

// FFProbeResult ffprobe result
type FFProbeResult struct {
	Format  FFProbeFormat   `json:"format"`
	Streams []FFProbeStream `json:"streams"`
}

const (
	SideDataDisplayMatrix = "Display Matrix"
)

type SideData struct {
	SideDataType string `json:"side_data_type"`
	Rotation     int    `json:"rotation"` // counter clockwise rotation
}

// FFProbeStream ffprobe stream result, only fields used for frame grabbing
type FFProbeStream struct {
	Index        uint              `json:"index"`
	CodecName    string            `json:"codec_name"`
	CodecType    string            `json:"codec_type"`
	PixFmt       string            `json:"pix_fmt"`
	Width        uint              `json:"width"`
	Height       uint              `json:"height"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	Duration     string            `json:"duration"`
	Tags         map[string]string `json:"tags"`
	SideDataList []SideData        `json:"side_data_list"`
}

func (fps FFProbeStream) Rotation() int {
	for _, s := range fps.SideDataList {
		if s.SideDataType == SideDataDisplayMatrix {
			return s.Rotation
		}
	}
	return 0
}

func (fps FFProbeStream) DisplayWidth() uint {
	switch fps.Rotation() {
	case -90, 90:
		return fps.Height
	}
	return fps.Width
}

func (fps FFProbeStream) DisplayHeight() uint {
	switch fps.Rotation() {
	case -90, 90:
		return fps.Width
	}
	return fps.Height
}

// FFProbeFormat ffprobe format result
type FFProbeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	StartTime  string `json:"start_time"`
	Duration   string `json:"duration"`
}

// FindFirstStreamCodecType find first stream with codec type
func (fpr FFProbeResult) FindFirstStreamCodecType(codecType string) (FFProbeStream, bool) {
	for _, s := range fpr.Streams {
		if s.CodecType == codecType {
			return s, true
		}
	}
	return FFProbeStream{}, false
}

// FormatName probed format (first value if comma separated)
func (fpr FFProbeResult) FormatName() string {
	return strings.Split(fpr.Format.FormatName, ",")[0]
}

// String is format and stream codecs, ex "matroska:h264:aac"
func (fpr FFProbeResult) String() string {
	var codecs []string
	for _, s := range fpr.Streams {
		codecs = append(codecs, s.CodecName)
	}
	return fmt.Sprintf("%s:%s", fpr.FormatName(), strings.Join(codecs, ":"))
}

// FFProbeCmd is a ffprobe command
type FFProbeCmd struct {
	Flags []string
	Input Input

	ProbeResult FFProbeResult `json:"-"`

	Context             context.Context `json:"-"`
	StderrBufferNrLines int             `json:"-"`
	Stderr              io.Writer       `json:"-"`
	DebugLog            Printer         `json:"-"`

	cmd             *execextra.Cmd
	stdout          io.ReadCloser
	stderrLastLines *linebuffer.LastLines
}

// Start ffprobe cmd
func (fp *FFProbeCmd) Start() error {
	if fp.Context != nil {
		fp.cmd = execextra.CommandContext(fp.Context, FFprobePath)
	} else {
		fp.cmd = execextra.Command(FFprobePath)
	}
	fp.cmd.Args = append(fp.cmd.Args,
		"-hide_banner",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
	)
	fp.cmd.Args = append(fp.cmd.Args, fp.Flags...)
	fp.cmd.Args = append(fp.cmd.Args, kvargs.Sorted(fp.Input.Options, kvargs.Option(""))...)
	fp.cmd.Args = append(fp.cmd.Args, fp.Input.Flags...)
	if fp.Input.Format != "" {
		fp.cmd.Args = append(fp.cmd.Args, "-f", fp.Input.Format)
	}
	switch file := fp.Input.File.(type) {
	case string:
		fp.cmd.Args = append(fp.cmd.Args, file)
	case io.Reader:
		fp.cmd.Stdin = file
		fp.cmd.Args = append(fp.cmd.Args, "pipe:0")
	default:
		return fmt.Errorf("unknown input type %#v should be string or io.Reader", fp.Input.File)
	}

	nrLines := fp.StderrBufferNrLines
	if nrLines == 0 {
		nrLines = 100
	}
	fp.stderrLastLines = linebuffer.NewLastLines(nrLines)
	stderrws := []io.Writer{fp.stderrLastLines}
	if fp.Stderr != nil {
		stderrws = append(stderrws, fp.Stderr)
	}
	fp.cmd.Stderr = io.MultiWriter(stderrws...)

	stdout, err := fp.cmd.StdoutPipe()
	if err != nil {
		return err
	}
	fp.stdout = stdout

	if fp.DebugLog != nil {
		fp.DebugLog.Printf("%s", strings.Join(fp.cmd.Args, " "))
	}

	return fp.cmd.Start()
}

// Wait for ffprobe cmd to finish and decode its output
// Note that the error message might include command details that are sensitive
func (fp *FFProbeCmd) Wait() error {
	// all reads must be done before wait
	jsonErr := json.NewDecoder(fp.stdout).Decode(&fp.ProbeResult)
	io.Copy(io.Discard, fp.stdout)
	waitErr := fp.cmd.Wait()
	fp.stderrLastLines.Close()

	if waitErr != nil {
		return fmt.Errorf("%w: %s", waitErr, fp.stderrLastLines.String())
	}
	return jsonErr
}

// Run starts and waits for ffprobe to finish
// Note that the error message might include command details that are sensitive
func (fp *FFProbeCmd) Run() error {
	if err := fp.Start(); err != nil {
		return err
	}
	return fp.Wait()
}

// Result start and wait for ffprobe to finish and return info
// Note that the error message might include command details that are sensitive
func (fp *FFProbeCmd) Result() (FFProbeResult, error) {
	if err := fp.Run(); err != nil {
		return FFProbeResult{}, err
	}
	return fp.ProbeResult, nil
}
