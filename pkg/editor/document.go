package editor

import (
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	LF   = "\n"
	CRLF = "\r\n"
)

// SplitLines splits text into logical lines and reports the line delimiter
// the text uses. Text containing any CRLF is treated as CRLF text.
func SplitLines(text string) ([]string, string) {
	delimiter := LF
	if strings.Contains(text, CRLF) {
		delimiter = CRLF
	}
	lines := strings.Split(text, delimiter)
	if delimiter == CRLF {
		// stray LFs in CRLF text still end a line
		ret := make([]string, 0, len(lines))
		for _, l := range lines {
			ret = append(ret, strings.Split(l, LF)...)
		}
		lines = ret
	}
	return lines, delimiter
}

// Document is a text document edited the way the chat commands need it:
// reading its lines and appending text at the end. A Document always has at
// least one line. It is safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	fs        afero.Fs
	path      string
	lines     []string
	delimiter string
}

// NewDocument creates an in-memory document holding text.
func NewDocument(text string) *Document {
	lines, delimiter := SplitLines(text)
	return &Document{
		lines:     lines,
		delimiter: delimiter,
	}
}

// Open reads the document at path. A missing file opens as an empty
// document that Save will create.
func Open(fs afero.Fs, path string) (*Document, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	d := NewDocument(string(b))
	d.fs = fs
	d.path = path
	return d, nil
}

func (d *Document) Delimiter() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delimiter
}

// Lines returns a copy of the document lines.
func (d *Document) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string{}, d.lines...)
}

func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Join(d.lines, d.delimiter)
}

// IsEmpty is true when the document only holds whitespace.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.Text()) == ""
}

// SetText replaces the whole content of the document.
func (d *Document) SetText(text string) {
	lines, delimiter := SplitLines(text)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = lines
	d.delimiter = delimiter
}

// AppendWords inserts text at the end of the last line. Line breaks in text
// start new lines.
func (d *Document) AppendWords(text string) {
	if text == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	parts, _ := SplitLines(text)
	last := len(d.lines) - 1
	d.lines[last] += parts[0]
	d.lines = append(d.lines, parts[1:]...)
}

// AppendLines adds lines after the last line. With blankLine set, an empty
// line separates them from the last line unless that line is blank already.
func (d *Document) AppendLines(lines []string, blankLine bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	last := d.lines[len(d.lines)-1]
	if blankLine && strings.TrimSpace(last) != "" {
		d.lines = append(d.lines, "")
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	d.lines = append(d.lines, lines...)
}

// Save writes the document back to the file it was opened from.
func (d *Document) Save() error {
	if d.fs == nil || d.path == "" {
		return errors.New("document has no backing file")
	}
	text := d.Text()
	if err := afero.WriteFile(d.fs, d.path, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "could not write %s", d.path)
	}
	return nil
}
