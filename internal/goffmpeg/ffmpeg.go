package goffmpeg

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/wader/subcat/internal/goffmpeg/internal/execextra"
	"github.com/wader/subcat/internal/goffmpeg/internal/kvargs"
	"github.com/wader/subcat/internal/goffmpeg/internal/linebuffer"
)

// FFmpegPath to ffmpeg binary. Will be used as name to cmd.Command.
var FFmpegPath = "ffmpeg"

// FFmpegCmd is a ffmpeg command
// ffmpeg
//   Flags
//   -filter_complex FilterGraph
//   Input
//     -i io.Reader/string
//   ...
//   Output
//     Map
//       -map *Input/Specifier
//     ...
//     io.Writer/string
//   ...
type FFmpegCmd struct {
	Flags       []string     `json:"flags"`
	Inputs      []*Input     `json:"inputs"`
	FilterGraph *FilterGraph `json:"filter_graph"`
	Outputs     []*Output    `json:"outputs"`

	Context             context.Context `json:"-"`
	StderrBufferNrLines int             `json:"-"`
	Stderr              io.Writer       `json:"-"`
	DebugLog            Printer         `json:"-"`

	cmd             *execextra.Cmd
	stderrLastLines *linebuffer.LastLines
}

// Input is a ffmpeg input, File is a io.Reader or a string
type Input struct {
	File    interface{}       `json:"file"`
	Format  string            `json:"format"`
	Options map[string]string `json:"options"`
	Flags   []string          `json:"flags"`
}

// Output is a ffmpeg output, File is a io.Writer or a string
type Output struct {
	File    interface{}       `json:"file"`
	Maps    []*Map            `json:"maps"`
	Format  string            `json:"format"`
	Options map[string]string `json:"options"`
	Flags   []string          `json:"flags"`
}

// Map is a output stream, Input nil means Specifier is used as is
type Map struct {
	Input     *Input            `json:"input"`
	Specifier string            `json:"specifier"`
	Codec     string            `json:"codec"`
	Options   map[string]string `json:"options"`
	Flags     []string          `json:"flags"`
}

type FilterGraph []FilterChain

type FilterChain []Filter

type Filter struct {
	Name    string            `json:"name"`
	Inputs  []string          `json:"inputs"`
	Outputs []string          `json:"outputs"`
	Options map[string]string `json:"options"`
}

var filterValueEscapeRe = regexp.MustCompile(`[\\,:;'\[\]]`)

// EscapeFilterValue escapes a filter option value for use in a filter graph
func EscapeFilterValue(v string) string {
	return filterValueEscapeRe.ReplaceAllString(v, `\$0`)
}

func escapeLinkLabel(s string) string {
	return "[" + strings.ReplaceAll(s, `]`, `\]`) + "]"
}

// String filter graph in -filter_complex syntax
func (fg FilterGraph) String() string {
	var chains []string
	for _, chain := range fg {
		var filters []string
		for _, f := range chain {
			var sb strings.Builder
			for _, in := range f.Inputs {
				sb.WriteString(escapeLinkLabel(in))
			}
			sb.WriteString(f.Name)
			// sorted to keep args stable
			if opts := kvargs.Sorted(f.Options, kvargs.Assign(EscapeFilterValue)); len(opts) > 0 {
				sb.WriteString("=")
				sb.WriteString(strings.Join(opts, ":"))
			}
			for _, out := range f.Outputs {
				sb.WriteString(escapeLinkLabel(out))
			}
			filters = append(filters, sb.String())
		}
		chains = append(chains, strings.Join(filters, ","))
	}
	return strings.Join(chains, ";")
}

type inputReaderFn func(index int, r io.Reader) (string, error)
type outputWriterFn func(index int, w io.Writer) (string, error)

func (fm *FFmpegCmd) buildArgs(inputReaderFn inputReaderFn, outputWriterFn outputWriterFn) ([]string, error) {
	inputToIndex := map[*Input]int{}

	args := []string{
		"-nostdin",
		"-hide_banner",
	}
	args = append(args, fm.Flags...)

	if fm.FilterGraph != nil && len(*fm.FilterGraph) > 0 {
		args = append(args, "-filter_complex", fm.FilterGraph.String())
	}

	for inputIndex, input := range fm.Inputs {
		inputToIndex[input] = inputIndex

		args = append(args, kvargs.Sorted(input.Options, kvargs.Option(""))...)
		args = append(args, input.Flags...)
		if input.Format != "" {
			args = append(args, "-f", input.Format)
		}
		args = append(args, "-i")
		switch file := input.File.(type) {
		case string:
			args = append(args, file)
		case io.Reader:
			a, err := inputReaderFn(inputIndex, file)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		default:
			return nil, fmt.Errorf("unknown input file type %#v should be string or io.Reader", file)
		}
	}

	for outputIndex, output := range fm.Outputs {
		for streamIndex, m := range output.Maps {
			var specifier []string
			if m.Input != nil {
				inputIndex, ok := inputToIndex[m.Input]
				if !ok {
					return nil, fmt.Errorf("can't find input %#v for map %#v", m.Input, m)
				}
				specifier = append(specifier, strconv.Itoa(inputIndex))
			}
			if m.Specifier != "" {
				specifier = append(specifier, m.Specifier)
			}
			args = append(args, "-map", strings.Join(specifier, ":"))

			streamIndexStr := strconv.Itoa(streamIndex)
			if m.Codec != "" {
				args = append(args, "-codec:"+streamIndexStr, m.Codec)
			}
			args = append(args, kvargs.Sorted(m.Options, kvargs.Option(":"+streamIndexStr))...)
			args = append(args, m.Flags...)
		}

		if output.Format != "" {
			args = append(args, "-f", output.Format)
		}
		args = append(args, kvargs.Sorted(output.Options, kvargs.Option(""))...)
		args = append(args, output.Flags...)

		switch file := output.File.(type) {
		case string:
			args = append(args, file)
		case io.Writer:
			a, err := outputWriterFn(outputIndex, file)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		default:
			return nil, fmt.Errorf("unknown output file type %#v should be string or io.Writer", file)
		}
	}

	return args, nil
}

// Args returns arguments with readers and writers as placeholders
func (fm *FFmpegCmd) Args() []string {
	args, err := fm.buildArgs(
		func(inputIndex int, r io.Reader) (string, error) {
			return fmt.Sprintf("pipe-input-index:%d", inputIndex), nil
		},
		func(outputIndex int, w io.Writer) (string, error) {
			return fmt.Sprintf("pipe-output-index:%d", outputIndex), nil
		},
	)
	if err != nil {
		return []string{"error: " + err.Error()}
	}
	return args
}

// Start ffmpeg
func (fm *FFmpegCmd) Start() error {
	if fm.Context != nil {
		fm.cmd = execextra.CommandContext(fm.Context, FFmpegPath)
	} else {
		fm.cmd = execextra.Command(FFmpegPath)
	}

	args, err := fm.buildArgs(
		func(inputIndex int, r io.Reader) (string, error) {
			fd, err := fm.cmd.ExtraIn(r)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("pipe:%d", fd), nil
		},
		func(outputIndex int, w io.Writer) (string, error) {
			fd, err := fm.cmd.ExtraOut(w)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("pipe:%d", fd), nil
		},
	)
	if err != nil {
		fm.cmd.Discard()
		return err
	}

	nrLines := fm.StderrBufferNrLines
	if nrLines == 0 {
		nrLines = 100
	}
	fm.stderrLastLines = linebuffer.NewLastLines(nrLines)
	stderrws := []io.Writer{fm.stderrLastLines}
	if fm.Stderr != nil {
		stderrws = append(stderrws, fm.Stderr)
	}
	fm.cmd.Stderr = io.MultiWriter(stderrws...)
	fm.cmd.Args = append(fm.cmd.Args, args...)

	if fm.DebugLog != nil {
		fm.DebugLog.Printf("%s %s", FFmpegPath, strings.Join(args, " "))
	}

	return fm.cmd.Start()
}

// Wait for ffmpeg to finish
// Note that the error message might include command details that are sensitive
func (fm *FFmpegCmd) Wait() error {
	err := fm.cmd.Wait()
	fm.stderrLastLines.Close()
	if err != nil {
		return fmt.Errorf("%w: %s", err, fm.stderrLastLines.String())
	}
	return nil
}

// Run starts and waits for ffmpeg to finish
// Note that the error message might include command details that are sensitive
func (fm *FFmpegCmd) Run() error {
	if err := fm.Start(); err != nil {
		return err
	}
	return fm.Wait()
}

// StderrBuffer returns the last stderr lines as a string
func (fm *FFmpegCmd) StderrBuffer() string {
	if fm.stderrLastLines == nil {
		return ""
	}
	return fm.stderrLastLines.String()
}
