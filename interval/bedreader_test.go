package interval

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

const testBED = `track name=peaks
# comment
browser position chr1:1-100

chr1	10	20	peak1	0	-
chr2 5 15
chr1	30	40	peak3	0	.
`

func TestScanEntries(t *testing.T) {
	c, err := ScanEntries(strings.NewReader(testBED), ReadOpts{})
	assert.NoError(t, err)
	assert.EQ(t, c.Len(), 3)

	e := c.At(0)
	expect.EQ(t, e.ChrName, "chr1")
	expect.EQ(t, e.Start0, PosType(10))
	expect.EQ(t, e.End, PosType(20))
	expect.EQ(t, e.Name, "peak1")
	expect.True(t, e.IsReverse())

	e = c.At(1)
	expect.EQ(t, e.Strand, byte('+'))
	expect.EQ(t, e.Label(), "chr2:5-15")
	expect.Nil(t, e.Fields)

	expect.EQ(t, c.At(2).Strand, byte('+'))
	expect.EQ(t, c.Chroms(), []string{"chr1", "chr2"})
}

func TestScanEntriesOpts(t *testing.T) {
	c, err := ScanEntries(strings.NewReader("chr1 1 10 a 7 +\n"), ReadOpts{OneBasedInput: true, KeepFields: true})
	assert.NoError(t, err)
	e := c.At(0)
	expect.EQ(t, e.Start0, PosType(0))
	expect.EQ(t, e.End, PosType(10))
	expect.EQ(t, e.Fields, []string{"chr1", "1", "10", "a", "7", "+"})
}

func TestScanEntriesErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"chr1\t20\t10\n", "invalid coordinate pair"},
		{"chr1\t10\n", "fewer tokens"},
		{"chr1\tx\t10\n", "non-numeric start"},
		{"chr1\t1\tx\n", "non-numeric end"},
		{"chr1\t1\t5\tn\t0\tx\n", "invalid strand"},
		{"# ok\nchr1\t1\t5\nchr1\t-1\t5\n", "line 3"},
	}
	for _, tt := range tests {
		_, err := ScanEntries(strings.NewReader(tt.input), ReadOpts{})
		assert.NotNil(t, err, tt.input)
		expect.True(t, errors.Is(errors.Integrity, err), tt.input)
		assert.HasSubstr(t, err.Error(), tt.msg)
	}
}

func TestParseFields(t *testing.T) {
	e, err := ParseFields([]string{"chr3", "100", "200", "x"}, ReadOpts{})
	assert.NoError(t, err)
	expect.EQ(t, e, Entry{ChrName: "chr3", Start0: 100, End: 200, Name: "x", Strand: '+'})

	_, err = ParseFields([]string{"chr3", "200", "100"}, ReadOpts{})
	expect.NotNil(t, err)
}

func TestScanRecords(t *testing.T) {
	records, err := ScanRecords(strings.NewReader(testBED))
	assert.NoError(t, err)
	expect.EQ(t, records, [][]string{
		{"chr1", "10", "20", "peak1", "0", "-"},
		{"chr2", "5", "15"},
		{"chr1", "30", "40", "peak3", "0", "."},
	})
}

func TestLoadBEDCompressed(t *testing.T) {
	ctx := context.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	plainPath := filepath.Join(tmpdir, "in.bed")
	assert.NoError(t, ioutil.WriteFile(plainPath, []byte(testBED), 0644))

	gzPath := filepath.Join(tmpdir, "in.bed.gz")
	f, err := os.Create(gzPath)
	assert.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testBED))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, f.Close())

	xzPath := filepath.Join(tmpdir, "in.bed.xz")
	f, err = os.Create(xzPath)
	assert.NoError(t, err)
	xw, err := xz.NewWriter(f)
	assert.NoError(t, err)
	_, err = xw.Write([]byte(testBED))
	assert.NoError(t, err)
	assert.NoError(t, xw.Close())
	assert.NoError(t, f.Close())

	want, err := ScanEntries(strings.NewReader(testBED), ReadOpts{})
	assert.NoError(t, err)
	for _, path := range []string{plainPath, gzPath, xzPath} {
		got, err := LoadBED(ctx, path, ReadOpts{})
		assert.NoError(t, err, path)
		expect.EQ(t, got.Entries(), want.Entries(), path)

		records, err := LoadRecords(ctx, path)
		assert.NoError(t, err, path)
		expect.EQ(t, len(records), 3, path)
	}

	_, err = LoadBED(ctx, filepath.Join(tmpdir, "missing.bed"), ReadOpts{})
	expect.NotNil(t, err)
}

func TestLoadBEDBadLine(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpdir, "bad.bed")
	assert.NoError(t, ioutil.WriteFile(path, []byte("chr1\t1\t5\nchr1\t9\t2\n"), 0644))
	_, err := LoadBED(context.Background(), path, ReadOpts{})
	assert.NotNil(t, err)
	expect.True(t, errors.Is(errors.Integrity, err))
	assert.HasSubstr(t, err.Error(), "line 2")
}

func TestCollectionAdd(t *testing.T) {
	var c Collection
	expect.NoError(t, c.Add(Entry{ChrName: "chr1", Start0: 5, End: 10}))
	expect.EQ(t, c.At(0).Strand, byte('+'))
	expect.NotNil(t, c.Add(Entry{ChrName: "chr1", Start0: 10, End: 5}))
	expect.NotNil(t, c.Add(Entry{ChrName: "chr1", Start0: -1, End: 5}))
	expect.NotNil(t, c.Add(Entry{ChrName: "", Start0: 0, End: 5}))
	expect.NotNil(t, c.Add(Entry{ChrName: "chr1", Start0: 0, End: 5, Strand: '*'}))
	// The reader rejects the same end.
	expect.NotNil(t, c.Add(Entry{ChrName: "chr1", Start0: 0, End: PosTypeMax}))
	expect.EQ(t, c.Len(), 1)

	_, err := NewCollection(entry("chr1", 0, 1), entry("chr1", 3, 2))
	expect.True(t, errors.Is(errors.Integrity, err))
}
