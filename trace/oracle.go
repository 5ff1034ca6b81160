package trace

import (
	"encoding/binary"

	cachesim "github.com/djdv/go-cachesim"
)

type oracleBinary struct{}

const oracleItemSize = 24

func (oracleBinary) setup(r *Reader) error {
	return r.setupFixed(oracleItemSize)
}

func (oracleBinary) readOne(r *Reader, req *cachesim.Request) error {
	// Zero sized records are padding.
	for {
		record, err := r.nextRecord()
		if err != nil {
			req.Valid = false
			return err
		}
		size := binary.LittleEndian.Uint32(record[12:16])
		if size == 0 {
			continue
		}
		req.RealTime = int64(binary.LittleEndian.Uint32(record[0:4]))
		req.ID = binary.LittleEndian.Uint64(record[4:12])
		req.Size = int64(size)
		req.NextAccessTime = int64(binary.LittleEndian.Uint64(record[16:24]))
		req.Valid = true
		return nil
	}
}

// AppendOracleRecord encodes req in the [OracleBinary] layout.
// Sizes and timestamps are truncated to the layout's widths.
func AppendOracleRecord(buf []byte, req *cachesim.Request) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(req.RealTime))
	buf = binary.LittleEndian.AppendUint64(buf, req.ID)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(req.Size))
	return binary.LittleEndian.AppendUint64(buf, uint64(req.NextAccessTime))
}
