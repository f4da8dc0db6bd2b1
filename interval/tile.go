// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// ChromSize is one row of a chromosome-size table.
type ChromSize struct {
	Name string
	Size PosType
}

// Tile splits [0, size) on the given chromosome into consecutive windows of
// length step.  The last window is truncated at size.
func Tile(chrName string, size, step PosType) (Collection, error) {
	if step <= 0 {
		return Collection{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Tile: step must be positive, got %d", step))
	}
	if size < 0 {
		return Collection{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Tile: negative size %d for %s", size, chrName))
	}
	var c Collection
	for start := PosType(0); start < size; {
		end := size
		// Guard against overflow near PosTypeMax.
		if size-start > step {
			end = start + step
		}
		c.entries = append(c.entries, Entry{ChrName: chrName, Start0: start, End: end, Strand: '+'})
		start = end
	}
	return c, nil
}

// TileGenome tiles every chromosome in sizes, in order.
func TileGenome(sizes []ChromSize, step PosType) (Collection, error) {
	var tiles []Collection
	for _, cs := range sizes {
		c, err := Tile(cs.Name, cs.Size, step)
		if err != nil {
			return Collection{}, err
		}
		tiles = append(tiles, c)
	}
	return Concat(tiles...), nil
}

// ReadChromSizes parses a two-column "name size" table, as produced by UCSC's
// fetchChromSizes.  Blank and '#' lines are skipped.
func ReadChromSizes(r io.Reader) ([]ChromSize, error) {
	var sizes []ChromSize
	scanner := bufio.NewScanner(r)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if IsHeaderLine(curLine) {
			continue
		}
		var tokens [2][]byte
		if getTokens(tokens[:], curLine) < 2 {
			return nil, formatError(lineIdx, curLine, "expected chromosome name and size")
		}
		size, err := strconv.Atoi(string(tokens[1]))
		if err != nil || size < 0 || size >= PosTypeMax {
			return nil, formatError(lineIdx, curLine, "invalid chromosome size")
		}
		sizes = append(sizes, ChromSize{Name: string(tokens[0]), Size: PosType(size)})
	}
	return sizes, scanner.Err()
}

// ChromSizesFromSAMHeader extracts the reference lengths of a SAM/BAM header.
func ChromSizesFromSAMHeader(header *sam.Header) []ChromSize {
	refs := header.Refs()
	sizes := make([]ChromSize, len(refs))
	for i, ref := range refs {
		sizes[i] = ChromSize{Name: ref.Name(), Size: PosType(ref.Len())}
	}
	return sizes
}

// LoadChromSizes reads chromosome sizes from path.  ".bam" and ".sam" files
// contribute the reference lengths from their header; anything else is read
// as a two-column size table.
func LoadChromSizes(ctx context.Context, path string) (sizes []ChromSize, err error) {
	var in io.ReadCloser
	if in, err = Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	switch {
	case strings.HasSuffix(path, ".bam"):
		var br *bam.Reader
		if br, err = bam.NewReader(in, 1); err != nil {
			err = errors.E(err, "interval.LoadChromSizes", path)
			return
		}
		sizes = ChromSizesFromSAMHeader(br.Header())
		err = br.Close()
	case strings.HasSuffix(path, ".sam"):
		var sr *sam.Reader
		if sr, err = sam.NewReader(in); err != nil {
			err = errors.E(err, "interval.LoadChromSizes", path)
			return
		}
		sizes = ChromSizesFromSAMHeader(sr.Header())
	default:
		if sizes, err = ReadChromSizes(in); err != nil {
			err = errors.E(err, path)
		}
	}
	return
}
