// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// ReadOpts defines behavior of this package's BED-loading function(s).
type ReadOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
	// KeepFields retains the raw record fields in Entry.Fields.
	KeepFields bool
}

// IsHeaderLine returns whether a BED line carries no interval: blank lines,
// comments, and "browser"/"track" lines.
func IsHeaderLine(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	return len(trimmed) == 0 ||
		trimmed[0] == '#' ||
		bytes.HasPrefix(trimmed, []byte("browser")) ||
		bytes.HasPrefix(trimmed, []byte("track"))
}

func formatError(lineIdx int, line []byte, format string, args ...interface{}) error {
	return errors.E(errors.Integrity, fmt.Sprintf("interval: line %d: %s: %q", lineIdx, fmt.Sprintf(format, args...), line))
}

// parseLine converts one BED record to an Entry.  The chromosome, start and
// end columns are required; the name (4th) and strand (6th) columns are
// optional.
func parseLine(curLine []byte, lineIdx int, opts ReadOpts) (e Entry, err error) {
	// This could also be in the caller's loop; it's small enough that
	// reinitialization doesn't matter.
	var tokens [6][]byte
	nToken := getTokens(tokens[:], curLine)
	if nToken < 3 {
		err = formatError(lineIdx, curLine, "has fewer tokens than expected")
		return
	}
	parsedStart, perr := strconv.Atoi(gunsafe.BytesToString(tokens[1]))
	if perr != nil {
		err = formatError(lineIdx, curLine, "non-numeric start coordinate")
		return
	}
	if opts.OneBasedInput {
		parsedStart--
	}
	if parsedStart < 0 {
		err = formatError(lineIdx, curLine, "negative start coordinate")
		return
	}
	parsedEnd, perr := strconv.Atoi(gunsafe.BytesToString(tokens[2]))
	if perr != nil {
		err = formatError(lineIdx, curLine, "non-numeric end coordinate")
		return
	}
	if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) {
		err = formatError(lineIdx, curLine, "invalid coordinate pair")
		return
	}
	// bugfix (12 Jul 2018): Must create a copy of the chromosome name, since it
	// refers to bytes on curLine that will be overwritten soon.
	e = Entry{
		ChrName: string(tokens[0]),
		Start0:  PosType(parsedStart),
		End:     PosType(parsedEnd),
		Strand:  '+',
	}
	if nToken >= 4 {
		e.Name = string(tokens[3])
	}
	if nToken >= 6 {
		switch strand := gunsafe.BytesToString(tokens[5]); strand {
		case "+", ".":
		case "-":
			e.Strand = '-'
		default:
			err = formatError(lineIdx, curLine, "invalid strand %q", strand)
			return
		}
	}
	if opts.KeepFields {
		e.Fields = strings.Fields(string(curLine))
	}
	return
}

// ParseFields converts an already-tokenized record to an Entry, using the same
// rules as ScanEntries.
func ParseFields(fields []string, opts ReadOpts) (Entry, error) {
	return parseLine([]byte(strings.Join(fields, "\t")), 0, opts)
}

// ScanRecords returns the whitespace-delimited fields of every interval line
// in r, skipping header lines.  Fields are not validated.
func ScanRecords(r io.Reader) (records [][]string, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	for scanner.Scan() {
		curLine := scanner.Bytes()
		if IsHeaderLine(curLine) {
			continue
		}
		records = append(records, strings.Fields(string(curLine)))
	}
	err = scanner.Err()
	return
}

// ScanEntries parses every interval line of r into a Collection.  Any
// malformed line causes an errors.Integrity error that names the line.
func ScanEntries(r io.Reader, opts ReadOpts) (c Collection, err error) {
	// Note that Scanner does not handle very long lines unless we specify an
	// adequate buffer size in advance; it does not auto-resize.
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if IsHeaderLine(curLine) {
			continue
		}
		var e Entry
		if e, err = parseLine(curLine, lineIdx, opts); err != nil {
			return
		}
		c.entries = append(c.entries, e)
	}
	err = scanner.Err()
	return
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() (err error) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if cerr := r.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return
}

// Open returns a reader for the named record source.  "-" is stdin,
// http(s):// URLs are fetched remotely, and anything else is opened via
// grailbio/base/file (so s3:// paths work when the implementation is
// registered).  Content compressed with gzip, bzip2 or xz is decompressed
// based on the path suffix.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	switch {
	case path == "-":
		return ioutil.NopCloser(os.Stdin), nil
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		// xopen sniffs gzip content itself.
		rd, err := xopen.Ropen(path)
		if err != nil {
			return nil, errors.E(err, "interval.Open", path)
		}
		return rd, nil
	}
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "interval.Open", path)
	}
	rc := &readCloser{
		Reader:  infile.Reader(ctx),
		closers: []func() error{func() error { return infile.Close(ctx) }},
	}
	switch {
	case fileio.DetermineType(path) == fileio.Gzip || strings.HasSuffix(path, ".bgz"):
		gz, err := gzip.NewReader(rc.Reader)
		if err != nil {
			rc.Close() // nolint: errcheck
			return nil, errors.E(err, "interval.Open", path)
		}
		rc.Reader = gz
		rc.closers = append(rc.closers, gz.Close)
	case strings.HasSuffix(path, ".bz2") || strings.HasSuffix(path, ".bz") || strings.HasSuffix(path, ".bzip2"):
		rc.Reader = bzip2.NewReader(rc.Reader)
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(rc.Reader)
		if err != nil {
			rc.Close() // nolint: errcheck
			return nil, errors.E(err, "interval.Open", path)
		}
		rc.Reader = xzr
	}
	return rc, nil
}

// LoadBED is a wrapper for ScanEntries that takes a path instead of an
// io.Reader.
func LoadBED(ctx context.Context, path string, opts ReadOpts) (c Collection, err error) {
	var in io.ReadCloser
	if in, err = Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if c, err = ScanEntries(in, opts); err != nil {
		err = errors.E(err, path)
	}
	return
}

// LoadRecords is a wrapper for ScanRecords that takes a path.
func LoadRecords(ctx context.Context, path string) (records [][]string, err error) {
	var in io.ReadCloser
	if in, err = Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return ScanRecords(in)
}
