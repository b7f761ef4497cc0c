package source

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/frame"
	"github.com/daviszhen/gather/pkg/util"
)

// LoadCsv reads cols[i] from field i of every line. An empty field is
// null, except for VARCHAR where it is the empty string.
func LoadCsv(path string, cols []Column, chunkRows int) (*frame.Table, error) {
	dataFile, err := os.OpenFile(path, os.O_RDONLY, 0755)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	reader := csv.NewReader(dataFile)
	reader.FieldsPerRecord = -1

	bb := newBatchBuilder(cols)
	if err = bb.begin(chunkRows); err != nil {
		return nil, err
	}
	rows := 0
	for {
		line, err := reader.Read()
		if err != nil {
			//EOF
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		for j, col := range cols {
			if j >= len(line) {
				return nil, errors.Errorf("line %d: no enough fields for column %q", rows+1, col.Name)
			}
			val, err := csvFieldToValue(line[j], col.Typ)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %q", rows+1, col.Name)
			}
			if err = bb.append(j, val); err != nil {
				return nil, err
			}
		}
		rows++
		if rows%chunkRows == 0 {
			if err = bb.flush(); err != nil {
				return nil, err
			}
			if err = bb.begin(chunkRows); err != nil {
				return nil, err
			}
		}
	}
	if err = bb.flush(); err != nil {
		return nil, err
	}
	return bb.table()
}

func csvFieldToValue(field string, lTyp common.LType) (*chunk.Value, error) {
	if field == "" && lTyp.Id != common.LTID_VARCHAR {
		return chunk.NullValue(lTyp), nil
	}
	val := &chunk.Value{
		Typ: lTyp,
	}
	var err error
	switch lTyp.Id {
	case common.LTID_BOOLEAN:
		val.Bool, err = strconv.ParseBool(field)
	case common.LTID_TINYINT, common.LTID_SMALLINT, common.LTID_INTEGER, common.LTID_BIGINT:
		val.I64, err = strconv.ParseInt(field, 10, 64)
	case common.LTID_UTINYINT, common.LTID_USMALLINT, common.LTID_UINTEGER, common.LTID_UBIGINT, common.LTID_ENUM:
		val.U64, err = strconv.ParseUint(field, 10, 64)
	case common.LTID_FLOAT, common.LTID_DOUBLE:
		val.F64, err = strconv.ParseFloat(field, 64)
	case common.LTID_VARCHAR, common.LTID_BLOB:
		val.Str = field
	case common.LTID_DECIMAL:
		val.I64, err = common.ParseDecimal(field, lTyp.Scale)
	case common.LTID_DATE:
		var d time.Time
		d, err = time.Parse(time.DateOnly, field)
		val.I64 = daysSinceEpoch(d)
	case common.LTID_TIMESTAMP:
		var ts time.Time
		ts, err = time.Parse(time.DateTime, field)
		val.I64 = ts.UnixMicro()
	default:
		return nil, errors.Wrapf(util.ErrUnknownType, "csv column of type %v", lTyp)
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// daysSinceEpoch converts a calendar date to the DATE storage value.
func daysSinceEpoch(t time.Time) int64 {
	const day = 24 * 3600
	secs := t.Unix()
	days := secs / day
	if secs%day < 0 {
		days--
	}
	return days
}
