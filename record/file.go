package record

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/anonion0/n3map/rr"
)

// ErrBzip2WriteUnsupported is returned by OpenOutput for a ".bz2" filename:
// compress/bzip2 in the standard library only implements decompression, so
// transparent bz2 is input-only (reading a bz2 record file still works).
var ErrBzip2WriteUnsupported = errors.New("record: writing bzip2-compressed output is not supported")

var (
	reIgnore  = regexp.MustCompile(`^\s*([;#].*)?$`)
	reCounter = regexp.MustCompile(`^;;;;\s*label_counter\s*=\s*0x([0-9a-fA-F]+)`)
)

// Stat is one key/value line written by Writer.WriteStats, kept as an
// ordered slice rather than a map since map iteration order would make the
// output file non-deterministic run to run.
type Stat struct {
	Key, Value string
}

// Writer appends record-file lines to an on-disk file, optionally
// gzip-compressed, grounded on rrfile.py's RRFileStream/RRFile.
type Writer struct {
	filename string
	raw      *os.File
	gz       *gzip.Writer
	w        *bufio.Writer
}

// OpenOutput creates (truncating) the named output file. A ".gz" suffix
// wraps it in a gzip.Writer transparently.
func OpenOutput(filename string) (*Writer, error) {
	if strings.HasSuffix(filename, ".bz2") {
		return nil, ErrBzip2WriteUnsupported
	}

	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	wr := &Writer{filename: filename, raw: f}

	var out io.Writer = f
	if strings.HasSuffix(filename, ".gz") {
		wr.gz = gzip.NewWriter(f)
		out = wr.gz
	}

	wr.w = bufio.NewWriter(out)

	return wr, nil
}

// NewStdoutWriter returns a Writer over os.Stdout, for "-o -".
func NewStdoutWriter() *Writer {
	return &Writer{filename: "-", raw: os.Stdout, w: bufio.NewWriter(os.Stdout)}
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}

	left := pad / 2

	return strings.TrimRight(strings.Repeat(" ", left)+s+strings.Repeat(" ", pad-left), " ")
}

// WriteHeader writes the banner block rrfile.py's write_header produces.
func (w *Writer) WriteHeader(zone, title string) error {
	bar := strings.Repeat(";", 80)
	if _, err := fmt.Fprintf(w.w, "%s\n;%s\n;%s\n%s\n", bar,
		center(" zone: "+zone, 79), center(title, 79), bar); err != nil {
		return err
	}

	return nil
}

// WriteNumberOfRRs writes the record-count comment line.
func (w *Writer) WriteNumberOfRRs(n int) error {
	_, err := fmt.Fprintf(w.w, "; number of records = %d\n", n)

	return err
}

// WriteStats writes the closing statistics block.
func (w *Writer) WriteStats(stats []Stat) error {
	if _, err := fmt.Fprint(w.w, "\n;; statistics\n"); err != nil {
		return err
	}

	for _, s := range stats {
		if _, err := fmt.Fprintf(w.w, "; %s = %s\n", s.Key, s.Value); err != nil {
			return err
		}
	}

	return nil
}

// WriteNSEC appends one NSEC record line.
func (w *Writer) WriteNSEC(n *rr.NSEC) error {
	_, err := fmt.Fprintln(w.w, formatNSEC(n))

	return err
}

// WriteNSEC3 appends one NSEC3 record line.
func (w *Writer) WriteNSEC3(n *rr.NSEC3) error {
	_, err := fmt.Fprintln(w.w, formatNSEC3(n))

	return err
}

// WriteLabelCounter writes the §6 NSEC3 resume checkpoint line.
func (w *Writer) WriteLabelCounter(counter uint64) error {
	_, err := fmt.Fprintf(w.w, ";;;; label_counter = 0x%x\n", counter)

	return err
}

// Sync flushes buffered output and, for an uncompressed file, fsyncs it so a
// checkpoint genuinely reached disk before the caller relies on it for
// resume.
func (w *Writer) Sync() error {
	if w.gz != nil {
		if err := w.w.Flush(); err != nil {
			return err
		}

		if err := w.gz.Flush(); err != nil {
			return err
		}
	} else if err := w.w.Flush(); err != nil {
		return err
	}

	return w.raw.Sync()
}

// Close flushes and closes the output file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.raw.Close()

		return err
	}

	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			w.raw.Close()

			return err
		}
	}

	return w.raw.Close()
}

// IntoBackup renames filename to filename+"~", matching rrfile.py's
// into_backup — used when resuming so a crash mid-rewrite can't lose the
// last good chain.
func IntoBackup(filename string) error {
	return os.Rename(filename, filename+"~")
}

// UnlinkBackup removes the backup file created by IntoBackup, ignoring a
// missing file.
func UnlinkBackup(filename string) error {
	err := os.Remove(filename + "~")
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error

	for _, c := range m.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}

	return err
}

// Reader streams record lines out of an on-disk file, transparently
// decompressing ".gz" and ".bz2" by filename extension.
type Reader struct {
	filename     string
	rc           io.ReadCloser
	labelCounter uint64
	hasCounter   bool
}

// OpenInput opens filename for reading.
func OpenInput(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser = f

	switch {
	case strings.HasSuffix(filename, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()

			return nil, err
		}

		rc = &multiReadCloser{Reader: gz, closers: []io.Closer{gz, f}}
	case strings.HasSuffix(filename, ".bz2"):
		rc = &multiReadCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}
	}

	return &Reader{filename: filename, rc: rc}, nil
}

// Close closes the underlying file (and any decompressor).
func (r *Reader) Close() error {
	return r.rc.Close()
}

// LabelCounter returns the NSEC3 resume checkpoint read by ReadNSEC3, and
// whether one was present in the file.
func (r *Reader) LabelCounter() (uint64, bool) {
	return r.labelCounter, r.hasCounter
}

// ReadNSEC reads every NSEC record line from the file, grounded on
// rrfile.py's nsec_reader.
func (r *Reader) ReadNSEC() ([]*rr.NSEC, error) {
	scanner := bufio.NewScanner(r.rc)

	var out []*rr.NSEC

	for i := 1; scanner.Scan(); i++ {
		line := scanner.Text()
		if reIgnore.MatchString(line) {
			continue
		}

		n, err := parseNSEC(line)
		if err != nil {
			return nil, &ParseError{File: r.filename, Line: i, Err: err}
		}

		out = append(out, n)
	}

	return out, scanner.Err()
}

// ReadNSEC3 reads every NSEC3 record line from the file plus the resume
// checkpoint, grounded on rrfile.py's nsec3_reader.
func (r *Reader) ReadNSEC3() ([]*rr.NSEC3, error) {
	scanner := bufio.NewScanner(r.rc)

	var out []*rr.NSEC3

	for i := 1; scanner.Scan(); i++ {
		line := scanner.Text()

		if m := reCounter.FindStringSubmatch(line); m != nil {
			counter, err := strconv.ParseUint(m[1], 16, 64)
			if err != nil {
				return nil, &ParseError{File: r.filename, Line: i, Err: err}
			}

			r.labelCounter = counter
			r.hasCounter = true

			continue
		}

		if reIgnore.MatchString(line) {
			continue
		}

		n, err := parseNSEC3(line)
		if err != nil {
			return nil, &ParseError{File: r.filename, Line: i, Err: err}
		}

		out = append(out, n)
	}

	return out, scanner.Err()
}
