package subtitle

import (
	"bufio"
	"os"
	"strings"
	"time"
)

// defaultTextColumn is the zero-based index of the Text field in the standard
// ASS Dialogue field order (Layer, Start, End, Style, Name, MarginL, MarginR,
// MarginV, Effect, Text).
const defaultTextColumn = 9

// ParseASSTime parses an ASS timecode like "1:02:03.45" (centiseconds) into
// a duration. Like ParseSRTTime, malformed components read as zero.
func ParseASSTime(ts string) time.Duration {
	h, m, s, frac := splitTimecode(ts, '.')
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(frac)*10*time.Millisecond
}

// LoadASS parses an Advanced SubStation (.ass) or SubStation (.ssa) file
// into the track, replacing any previous entries. Only the [Events] section
// is read: a Format line fixes the Text column index, and each Dialogue line
// is split into exactly that many fields so commas inside the subtitle text
// survive. Entries are sorted by start time afterwards because ASS source
// order carries no timing guarantee. Returns false when the file cannot be
// read or yields no valid entries.
func (t *Track) LoadASS(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = t.entries[:0]

	inEvents := false
	textCol := defaultTextColumn

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		line = strings.TrimPrefix(line, "\ufeff")
		line = strings.TrimSuffix(line, "\r")
		if line == "" || line[0] == ';' || line[0] == '!' {
			continue
		}

		if line[0] == '[' {
			inEvents = strings.Contains(line, "[Events]")
			continue
		}
		if !inEvents {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "Format:"); ok {
			textCol = textColumnIndex(rest)
			continue
		}

		rest, ok := strings.CutPrefix(line, "Dialogue:")
		if !ok {
			continue
		}

		fields := splitDialogue(rest, textCol)
		if len(fields) < textCol+1 || len(fields) < 3 {
			continue
		}

		text := CleanText(fields[textCol])
		if text == "" {
			continue
		}
		t.entries = append(t.entries, Entry{
			Start: ParseASSTime(strings.TrimSpace(fields[1])),
			End:   ParseASSTime(strings.TrimSpace(fields[2])),
			Text:  text,
		})
	}

	t.sortEntries()
	return len(t.entries) > 0
}

// textColumnIndex finds the zero-based position of the "Text" field on a
// Format line, falling back to the standard column when absent.
func textColumnIndex(formatRest string) int {
	for i, field := range strings.Split(formatRest, ",") {
		if strings.TrimSpace(field) == "Text" {
			return i
		}
	}
	return defaultTextColumn
}

// splitDialogue splits a Dialogue payload into textCol+1 comma-delimited
// fields. The final field absorbs the rest of the line verbatim so commas
// inside the subtitle text do not split further.
func splitDialogue(data string, textCol int) []string {
	return strings.SplitN(data, ",", textCol+1)
}
