package transcript

import "strings"

// DetectFormat determines the transcript format from a filename and the
// content itself. Falls back to content sniffing when the extension is
// missing or unknown.
func DetectFormat(filename, content string) Format {
	nameLower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(nameLower, ".vtt"):
		return FormatVTT
	case strings.HasSuffix(nameLower, ".srt"):
		return FormatSRT
	case strings.HasSuffix(nameLower, ".json"):
		return FormatJSON
	}

	trimmed := strings.TrimSpace(content)
	head := trimmed
	if len(head) > 1000 {
		head = head[:1000]
	}

	if strings.HasPrefix(head, "WEBVTT") {
		return FormatVTT
	}
	if strings.HasPrefix(head, "{") || strings.HasPrefix(head, "[") {
		return FormatJSON
	}
	if strings.Contains(head, "-->") {
		return FormatSRT
	}
	return FormatSRT
}
