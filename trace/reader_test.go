package trace

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	cachesim "github.com/djdv/go-cachesim"
)

func TestOracle(t *testing.T) {
	t.Run("skips zero sized records", oracleSkipsZero)
	t.Run("partial record", oraclePartialRecord)
	t.Run("only padding", oracleOnlyPadding)
	t.Run("empty", oracleEmpty)
	t.Run("requests iterator", oracleIterator)
	t.Run("reset", oracleReset)
	t.Run("open mapped file", oracleOpenMapped)
}

func oracleSkipsZero(t *testing.T) {
	t.Parallel()
	data := oracleTrace(
		cachesim.Request{RealTime: 1, ID: 10, Size: 100, NextAccessTime: 3},
		cachesim.Request{RealTime: 2, ID: 11, Size: 0, NextAccessTime: -1},
		cachesim.Request{RealTime: 3, ID: 10, Size: 100, NextAccessTime: -1},
	)
	reader := newTestReader(t, data, OracleBinary)
	require.Equal(t, int64(3), reader.TotalRequests())
	req := new(cachesim.Request)
	require.NoError(t, reader.ReadOne(req))
	require.Equal(t, cachesim.Request{
		RealTime: 1, ID: 10, Size: 100,
		NextAccessTime: 3, Valid: true,
	}, *req)
	require.NoError(t, reader.ReadOne(req))
	require.Equal(t, cachesim.Request{
		RealTime: 3, ID: 10, Size: 100,
		NextAccessTime: -1, Valid: true,
	}, *req)
	mustEOF(t, reader, req)
	mustEOF(t, reader, req)
}

func oraclePartialRecord(t *testing.T) {
	t.Parallel()
	var (
		logger, hook = logtest.NewNullLogger()
		data         = oracleTrace(
			*cachesim.NewRequest(1, 1),
			*cachesim.NewRequest(2, 1),
		)
	)
	data = append(data, make([]byte, 10)...)
	reader, err := NewReader(data, OracleBinary, WithLogger(logger))
	require.NoError(t, err)
	require.Equal(t, int64(2), reader.TotalRequests())
	entry := hook.LastEntry()
	require.NotNil(t, entry, "expected a warning about the partial record")
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, int64(len(data)), entry.Data["file_size"])

	req := new(cachesim.Request)
	require.NoError(t, reader.ReadOne(req))
	require.NoError(t, reader.ReadOne(req))
	mustEOF(t, reader, req)
	require.Equal(t, int64(2*oracleItemSize), reader.Offset(),
		"reader must not advance into the partial record")
}

func oracleOnlyPadding(t *testing.T) {
	t.Parallel()
	data := oracleTrace(
		cachesim.Request{ID: 1},
		cachesim.Request{ID: 2},
	)
	reader := newTestReader(t, data, OracleBinary)
	mustEOF(t, reader, new(cachesim.Request))
}

func oracleEmpty(t *testing.T) {
	t.Parallel()
	reader := newTestReader(t, nil, OracleBinary)
	require.Zero(t, reader.TotalRequests())
	mustEOF(t, reader, new(cachesim.Request))
}

func oracleIterator(t *testing.T) {
	t.Parallel()
	data := oracleTrace(
		*cachesim.NewRequest(1, 1),
		cachesim.Request{ID: 2},
		*cachesim.NewRequest(3, 1),
		*cachesim.NewRequest(4, 1),
	)
	reader := newTestReader(t, data, OracleBinary)
	var ids []cachesim.ObjectID
	for req, err := range reader.Requests() {
		require.NoError(t, err)
		ids = append(ids, req.ID)
	}
	require.Equal(t, []cachesim.ObjectID{1, 3, 4}, ids)
}

func oracleReset(t *testing.T) {
	t.Parallel()
	data := oracleTrace(*cachesim.NewRequest(5, 1))
	reader := newTestReader(t, data, OracleBinary)
	req := new(cachesim.Request)
	require.NoError(t, reader.ReadOne(req))
	mustEOF(t, reader, req)
	reader.Reset()
	require.NoError(t, reader.ReadOne(req))
	require.Equal(t, cachesim.ObjectID(5), req.ID)
}

func oracleOpenMapped(t *testing.T) {
	t.Parallel()
	var (
		want = []cachesim.Request{
			{RealTime: 1, ID: 1, Size: 10, NextAccessTime: 2, Valid: true},
			{RealTime: 2, ID: 1, Size: 10, NextAccessTime: -1, Valid: true},
		}
		path = writeTrace(t, "trace.oracleBin", oracleTrace(want...))
	)
	reader, err := Open(path, OracleBinary)
	require.NoError(t, err)
	require.Equal(t, path, reader.Path())
	require.Equal(t, want, readAll(t, reader))
	require.NoError(t, reader.Close())
}

func TestDirectIO(t *testing.T) {
	t.Run("csv unsupported", directCSVUnsupported)
	t.Run("window refills", directWindowRefills)
}

func directCSVUnsupported(t *testing.T) {
	t.Parallel()
	_, err := Open("unused", CSV, WithDirectIO())
	require.ErrorIs(t, err, ErrUnsupported)
}

// Records straddle block and window boundaries,
// so the window is refilled repeatedly.
func directWindowRefills(t *testing.T) {
	t.Parallel()
	const count = 3 * directWindowBlocks * 4096 / oracleItemSize
	want := make([]cachesim.Request, count)
	for i := range want {
		want[i] = cachesim.Request{
			RealTime:       int64(i),
			ID:             cachesim.ObjectID(i % 1000),
			Size:           int64(i%7 + 1),
			NextAccessTime: -1,
			Valid:          true,
		}
	}
	path := writeTrace(t, "direct.oracleBin", oracleTrace(want...))
	// A regular file stands in for one opened with O_DIRECT,
	// which some temporary file systems refuse.
	file, err := os.Open(path)
	require.NoError(t, err)
	info, err := file.Stat()
	require.NoError(t, err)
	reader, err := newReader(
		newDirectSource(file, file, info.Size()),
		path, OracleBinary, newSettings(nil),
	)
	require.NoError(t, err)
	require.Equal(t, int64(count), reader.TotalRequests())
	require.Equal(t, want, readAll(t, reader))
	require.NoError(t, reader.Close())
}

func TestMapLength(t *testing.T) {
	t.Parallel()
	length, err := mapLength(3 * oracleItemSize)
	require.NoError(t, err)
	require.Equal(t, 3*oracleItemSize, length)
	rejected := []int64{-1}
	if strconv.IntSize == 32 {
		rejected = append(rejected, math.MaxInt32+1, 5<<30)
	}
	for _, size := range rejected {
		_, err := mapLength(size)
		require.ErrorIs(t, err, ErrUnsupported, "size %d", size)
	}
	length, err = mapLength(math.MaxInt)
	require.NoError(t, err)
	require.Equal(t, math.MaxInt, length)
}

func TestCSV(t *testing.T) {
	t.Run("header and comments", csvHeaderAndComments)
	t.Run("string keys", csvStringKeys)
	t.Run("malformed", csvMalformed)
	t.Run("reset skips header", csvResetSkipsHeader)
}

const csvSample = `time,key,size,next
# comment

1,10,100,5
2,11,0
3,12,300
4,10,100,-1
`

func csvHeaderAndComments(t *testing.T) {
	t.Parallel()
	reader := newTestReader(t, []byte(csvSample), CSV)
	require.Equal(t, int64(3), reader.TotalRequests())
	require.Equal(t, []cachesim.Request{
		{RealTime: 1, ID: 10, Size: 100, NextAccessTime: 5, Valid: true},
		{RealTime: 3, ID: 12, Size: 300, NextAccessTime: -1, Valid: true},
		{RealTime: 4, ID: 10, Size: 100, NextAccessTime: -1, Valid: true},
	}, readAll(t, reader))
}

func csvStringKeys(t *testing.T) {
	t.Parallel()
	reader := newTestReader(t, []byte("1,/index.html,512\r\n2,/a.png,64"), CSV)
	got := readAll(t, reader)
	require.Len(t, got, 2)
	require.Equal(t, xxhash.Sum64String("/index.html"), got[0].ID)
	require.Equal(t, xxhash.Sum64String("/a.png"), got[1].ID)
	require.Equal(t, int64(64), got[1].Size)
}

func csvMalformed(t *testing.T) {
	t.Parallel()
	reader := newTestReader(t, []byte("1,1,1\n2,2\n"), CSV)
	req := new(cachesim.Request)
	require.NoError(t, reader.ReadOne(req))
	err := reader.ReadOne(req)
	require.ErrorIs(t, err, ErrMalformed)
	require.False(t, req.Valid)
}

func csvResetSkipsHeader(t *testing.T) {
	t.Parallel()
	reader := newTestReader(t, []byte(csvSample), CSV)
	first := readAll(t, reader)
	reader.Reset()
	require.Equal(t, first, readAll(t, reader))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]Format{
		"oracleBin": OracleBinary,
		"oracle":    OracleBinary,
		"CSV":       CSV,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("vscsi")
	require.ErrorIs(t, err, ErrUnknownFormat)
	require.Equal(t, "oracleBin", OracleBinary.String())
}

func oracleTrace(reqs ...cachesim.Request) []byte {
	data := make([]byte, 0, len(reqs)*oracleItemSize)
	for i := range reqs {
		data = AppendOracleRecord(data, &reqs[i])
	}
	return data
}

func newTestReader(tb testing.TB, data []byte, format Format) *Reader {
	tb.Helper()
	logger, _ := logtest.NewNullLogger()
	reader, err := NewReader(data, format, WithLogger(logger))
	if err != nil {
		tb.Fatal(err)
	}
	return reader
}

func writeTrace(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatal(err)
	}
	return path
}

func readAll(tb testing.TB, reader *Reader) []cachesim.Request {
	tb.Helper()
	var reqs []cachesim.Request
	for {
		var req cachesim.Request
		err := reader.ReadOne(&req)
		if errors.Is(err, io.EOF) {
			return reqs
		}
		if err != nil {
			tb.Fatal(err)
		}
		reqs = append(reqs, req)
	}
}

func mustEOF(tb testing.TB, reader *Reader, req *cachesim.Request) {
	tb.Helper()
	err := reader.ReadOne(req)
	if !errors.Is(err, io.EOF) {
		tb.Fatalf("expected end of trace but got: %v", err)
	}
	if req.Valid {
		tb.Fatal("request still valid at end of trace")
	}
}
