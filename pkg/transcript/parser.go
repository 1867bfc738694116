// Package transcript parses subtitle and transcript files into the
// cue list a timeline is imported from. VTT voice tags and SRT speaker
// prefixes carry diarization labels; the JSON form additionally
// carries pre-translated text.
package transcript

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Format represents the format of a transcript
type Format string

const (
	FormatVTT  Format = "vtt"
	FormatSRT  Format = "srt"
	FormatJSON Format = "json"
)

// Cue is one timed utterance. Times are seconds from the start of the
// source media.
type Cue struct {
	Start          float64
	End            float64
	Text           string
	TranslatedText string
	Speaker        string
}

// Transcript is a parsed cue list
type Transcript struct {
	Format   Format
	Cues     []Cue
	Duration float64
}

// Parser handles parsing different transcript formats
type Parser struct{}

// NewParser creates a new transcript parser
func NewParser() *Parser {
	return &Parser{}
}

var (
	vttTimestampRegex = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}\.\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}\.\d{3})`)
	srtTimestampRegex = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	sequenceRegex     = regexp.MustCompile(`^\d+$`)
	voiceTagRegex     = regexp.MustCompile(`<v\s+([^>]+)>`)
	tagRegex          = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	speakerPrefixRegex = regexp.MustCompile(`^([A-Za-z][\w .'-]{0,40}):\s+(.*)$`)
)

// Parse parses transcript content based on its format
func (p *Parser) Parse(content string, format Format) (*Transcript, error) {
	switch format {
	case FormatVTT:
		return p.parseVTT(content)
	case FormatSRT:
		return p.parseSRT(content)
	case FormatJSON:
		return p.parseJSON(content)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// parseVTT parses WebVTT content. A `<v Name>` voice tag on a cue's
// text labels the cue's speaker.
func (p *Parser) parseVTT(content string) (*Transcript, error) {
	transcript := &Transcript{Format: FormatVTT}

	var current *Cue
	var textBuilder strings.Builder

	flush := func() {
		if current != nil && textBuilder.Len() > 0 {
			current.Text = strings.TrimSpace(textBuilder.String())
			transcript.Cues = append(transcript.Cues, *current)
		}
		current = nil
		textBuilder.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") || line == "" {
			continue
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); matches != nil {
			flush()
			start, err := parseTimestamp(matches[1])
			if err != nil {
				return nil, err
			}
			end, err := parseTimestamp(matches[2])
			if err != nil {
				return nil, err
			}
			current = &Cue{Start: start, End: end}
			continue
		}

		if current != nil && !strings.Contains(line, "-->") {
			if speaker := voiceTagRegex.FindStringSubmatch(line); speaker != nil && current.Speaker == "" {
				current.Speaker = strings.TrimSpace(speaker[1])
			}
			if textBuilder.Len() > 0 {
				textBuilder.WriteString(" ")
			}
			textBuilder.WriteString(stripTags(line))
		}
	}
	flush()

	finalize(transcript)
	return transcript, nil
}

// parseSRT parses SubRip content. A leading "Name: " on the first text
// line labels the cue's speaker.
func (p *Parser) parseSRT(content string) (*Transcript, error) {
	transcript := &Transcript{Format: FormatSRT}

	var current *Cue
	var textBuilder strings.Builder
	firstLine := false

	flush := func() {
		if current != nil && textBuilder.Len() > 0 {
			current.Text = strings.TrimSpace(textBuilder.String())
			transcript.Cues = append(transcript.Cues, *current)
		}
		current = nil
		textBuilder.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}
		if sequenceRegex.MatchString(line) && current == nil {
			continue
		}

		if matches := srtTimestampRegex.FindStringSubmatch(line); matches != nil {
			flush()
			start, err := parseTimestamp(strings.Replace(matches[1], ",", ".", 1))
			if err != nil {
				return nil, err
			}
			end, err := parseTimestamp(strings.Replace(matches[2], ",", ".", 1))
			if err != nil {
				return nil, err
			}
			current = &Cue{Start: start, End: end}
			firstLine = true
			continue
		}

		if current != nil {
			text := stripTags(line)
			if firstLine {
				if matches := speakerPrefixRegex.FindStringSubmatch(text); matches != nil {
					current.Speaker = strings.TrimSpace(matches[1])
					text = matches[2]
				}
				firstLine = false
			}
			if textBuilder.Len() > 0 {
				textBuilder.WriteString(" ")
			}
			textBuilder.WriteString(text)
		}
	}
	flush()

	finalize(transcript)
	return transcript, nil
}

// jsonCue tolerates the field-name variants seen in transcript exports
type jsonCue struct {
	Start          float64 `json:"start"`
	StartTime      float64 `json:"start_time"`
	End            float64 `json:"end"`
	EndTime        float64 `json:"end_time"`
	Text           string  `json:"text"`
	SourceText     string  `json:"source_text"`
	TranslatedText string  `json:"translated_text"`
	Translation    string  `json:"translation"`
	Speaker        string  `json:"speaker"`
}

// parseJSON parses a JSON cue list, either a bare array or an object
// with a "segments" array
func (p *Parser) parseJSON(content string) (*Transcript, error) {
	transcript := &Transcript{Format: FormatJSON}

	var cues []jsonCue
	if err := json.Unmarshal([]byte(content), &cues); err != nil {
		var obj struct {
			Segments []jsonCue `json:"segments"`
		}
		if err := json.Unmarshal([]byte(content), &obj); err != nil {
			return nil, fmt.Errorf("failed to parse JSON transcript: %w", err)
		}
		cues = obj.Segments
	}

	for _, c := range cues {
		start := c.Start
		if start == 0 && c.StartTime > 0 {
			start = c.StartTime
		}
		end := c.End
		if end == 0 && c.EndTime > 0 {
			end = c.EndTime
		}
		text := c.Text
		if text == "" {
			text = c.SourceText
		}
		translated := c.TranslatedText
		if translated == "" {
			translated = c.Translation
		}

		transcript.Cues = append(transcript.Cues, Cue{
			Start:          start,
			End:            end,
			Text:           strings.TrimSpace(text),
			TranslatedText: strings.TrimSpace(translated),
			Speaker:        strings.TrimSpace(c.Speaker),
		})
	}

	finalize(transcript)
	return transcript, nil
}

// finalize derives the transcript duration from the last cue
func finalize(t *Transcript) {
	for _, cue := range t.Cues {
		if cue.End > t.Duration {
			t.Duration = cue.End
		}
	}
}

// parseTimestamp parses HH:MM:SS.mmm into seconds
func parseTimestamp(timestamp string) (float64, error) {
	parts := strings.Split(timestamp, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", timestamp)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %s", timestamp)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %s", timestamp)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %s", timestamp)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// stripTags removes markup tags from cue text
func stripTags(text string) string {
	return strings.TrimSpace(tagRegex.ReplaceAllString(text, ""))
}
