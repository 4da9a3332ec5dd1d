package summarizer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Encoding Summary\n\n")
	fmt.Fprintf(&b, "Generated at %s\n\n", s.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Run\n\n")
	b.WriteString(markdownTable([]string{"Item", "Value"}, [][]string{
		{"Run ID", s.Run.ID},
		{"Status", s.Run.Status},
		{"Reason", orDash(s.Run.Reason)},
		{"Started", s.Run.StartedAt.Format(time.RFC3339)},
		{"Elapsed", s.Run.Elapsed.Round(time.Millisecond).String()},
	}, nil))
	b.WriteString("\n\n")

	b.WriteString("## Input\n\n")
	truncated := "no"
	if s.Input.Truncated {
		truncated = "yes"
	}
	b.WriteString(markdownTable([]string{"Item", "Value"}, [][]string{
		{"Path", orDash(s.Input.Path)},
		{"Source", orDash(s.Input.Source)},
		{"Frame size", fmt.Sprintf("%dx%d", s.Input.Width, s.Input.Height)},
		{"Frames read", strconv.Itoa(s.Input.Frames)},
		{"Bytes read", humanize.Bytes(uint64(s.Input.Bytes))},
		{"Truncated", truncated},
	}, nil))
	b.WriteString("\n\n")

	b.WriteString("## Settings\n\n")
	b.WriteString(markdownTable([]string{"Item", "Value"}, [][]string{
		{"Codec", s.Settings.Codec},
		{"Preset", orDash(s.Settings.Preset)},
		{"Bitrate", humanize.SI(float64(s.Settings.Bitrate), "bps")},
		{"FPS", strconv.Itoa(s.Settings.FPS)},
		{"GOP size", strconv.Itoa(s.Settings.GOPSize)},
		{"Max B-frames", strconv.Itoa(s.Settings.MaxBFrames)},
		{"Queue capacity", capacity(s.Settings.QueueCapacity)},
	}, nil))
	b.WriteString("\n\n")

	b.WriteString("## Output\n\n")
	b.WriteString(markdownTable([]string{"Item", "Value"}, [][]string{
		{"Path", orDash(s.Output.Path)},
		{"Packets written", strconv.Itoa(s.Output.Packets)},
		{"Flushed packets", strconv.Itoa(s.Output.Flushed)},
		{"Bytes written", humanize.Bytes(uint64(s.Output.Bytes))},
		{"Discarded", strconv.Itoa(s.Output.Discarded)},
	}, nil))
	b.WriteString("\n\n")

	if len(s.Stages) > 0 {
		b.WriteString("## Stages\n\n")
		b.WriteString(markdownTable(stageHeaders, stageRows(s), stageAligns))
		b.WriteString("\n\n")
	}

	if s.Bitstream != nil {
		b.WriteString("## Bitstream\n\n")
		b.WriteString(markdownTable([]string{"Item", "Value"}, [][]string{
			{"Codec", s.Bitstream.Codec},
			{"NAL units", strconv.Itoa(s.Bitstream.NALUs)},
			{"Keyframes", strconv.Itoa(s.Bitstream.Keyframes)},
			{"Parameter sets", strconv.Itoa(s.Bitstream.ParameterSets)},
			{"NAL types", nalTypes(s.Bitstream.Types)},
		}, nil))
		b.WriteString("\n")
	}

	return b.String()
}

func nalTypes(types map[string]int) string {
	if len(types) == 0 {
		return "-"
	}
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %d", name, types[name]))
	}
	return strings.Join(lines, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func capacity(n int) string {
	if n <= 0 {
		return "unbounded"
	}
	return strconv.Itoa(n)
}
