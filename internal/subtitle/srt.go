package subtitle

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

// ParseSRTTime parses an SRT timecode like "01:02:03,456" into a duration
// (h*3600 + m*60 + s seconds plus milliseconds). Missing or malformed
// components read as zero, matching the lenient scanf-style parsing SRT
// files get in practice.
func ParseSRTTime(ts string) time.Duration {
	h, m, s, frac := splitTimecode(ts, ',')
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(frac)*time.Millisecond
}

// splitTimecode splits "H:MM:SS<sep>fff" into its numeric components.
// Each piece defaults to zero when absent or non-numeric.
func splitTimecode(ts string, sep byte) (h, m, s, frac int) {
	rest := strings.TrimSpace(ts)
	if i := strings.IndexByte(rest, sep); i >= 0 {
		frac = atoiPrefix(rest[i+1:])
		rest = rest[:i]
	}
	parts := strings.Split(rest, ":")
	switch len(parts) {
	case 3:
		h = atoiPrefix(parts[0])
		m = atoiPrefix(parts[1])
		s = atoiPrefix(parts[2])
	case 2:
		m = atoiPrefix(parts[0])
		s = atoiPrefix(parts[1])
	case 1:
		s = atoiPrefix(parts[0])
	}
	return h, m, s, frac
}

// atoiPrefix parses the leading digit run of s, returning 0 when there is none.
func atoiPrefix(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// LoadSRT parses a SubRip file into the track, replacing any previous
// entries. A block is a sequence number line, a timecode line
// "HH:MM:SS,mmm --> HH:MM:SS,mmm", then text lines until a blank line.
// Returns false when the file cannot be read or yields no valid entries.
func (t *Track) LoadSRT(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = t.entries[:0]

	var (
		cur     Entry
		textBuf []string
		inEntry bool
	)

	flush := func() {
		if inEntry && len(textBuf) > 0 {
			cur.Text = CleanText(strings.Join(textBuf, "\n"))
			if cur.Text != "" {
				t.entries = append(t.entries, cur)
			}
		}
		textBuf = textBuf[:0]
		inEntry = false
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		line = strings.TrimPrefix(line, "\ufeff")
		line = strings.TrimSuffix(line, "\r")

		if line == "" {
			flush()
			continue
		}

		// A digits-only line marks the start of the next entry.
		if isAllDigits(line) {
			flush()
			inEntry = true
			cur = Entry{}
			continue
		}

		if arrow := strings.Index(line, "-->"); arrow >= 0 {
			start := strings.TrimSpace(line[:arrow])
			end := strings.TrimSpace(line[arrow+3:])
			// Drop positioning extras after the end timecode.
			if i := strings.IndexAny(end, " \t"); i >= 0 {
				end = end[:i]
			}
			cur.Start = ParseSRTTime(start)
			cur.End = ParseSRTTime(end)
			continue
		}

		if inEntry {
			textBuf = append(textBuf, line)
		}
	}
	flush()

	return len(t.entries) > 0
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
