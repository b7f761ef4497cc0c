package source

import (
	"github.com/pkg/errors"
	pqLocal "github.com/xitongsys/parquet-go-source/local"
	pqReader "github.com/xitongsys/parquet-go/reader"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/frame"
	"github.com/daviszhen/gather/pkg/util"
)

// LoadParquet reads cols[i] from leaf column i of the file.
func LoadParquet(path string, cols []Column, chunkRows int) (*frame.Table, error) {
	pqFile, err := pqLocal.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer pqFile.Close()

	reader, err := pqReader.NewParquetColumnReader(pqFile, 1)
	if err != nil {
		return nil, err
	}
	defer reader.ReadStop()

	total := int(reader.GetNumRows())
	bb := newBatchBuilder(cols)
	for done := 0; done < total; {
		want := min(chunkRows, total-done)
		if err = bb.begin(want); err != nil {
			return nil, err
		}
		rowCont := -1
		for j, col := range cols {
			values, _, _, err := reader.ReadColumnByIndex(int64(j), int64(want))
			if err != nil {
				return nil, errors.Wrapf(err, "read column %q", col.Name)
			}
			if rowCont < 0 {
				rowCont = len(values)
			} else if len(values) != rowCont {
				return nil, errors.Wrapf(util.ErrLengthShape,
					"column %d has different count of values %d with previous columns %d", j, len(values), rowCont)
			}
			for _, field := range values {
				val, err := parquetColToValue(field, col.Typ)
				if err != nil {
					return nil, errors.Wrapf(err, "column %q", col.Name)
				}
				if err = bb.append(j, val); err != nil {
					return nil, err
				}
			}
		}
		if rowCont <= 0 {
			break
		}
		if err = bb.flush(); err != nil {
			return nil, err
		}
		done += rowCont
	}
	return bb.table()
}

func parquetColToValue(field any, lTyp common.LType) (*chunk.Value, error) {
	if field == nil {
		return chunk.NullValue(lTyp), nil
	}
	val := &chunk.Value{
		Typ: lTyp,
	}
	switch lTyp.Id {
	case common.LTID_BOOLEAN:
		b, ok := field.(bool)
		if !ok {
			return nil, mismatch(field, lTyp)
		}
		val.Bool = b
	case common.LTID_TINYINT, common.LTID_SMALLINT, common.LTID_INTEGER, common.LTID_BIGINT,
		common.LTID_DATE, common.LTID_TIME, common.LTID_TIMESTAMP:
		switch fVal := field.(type) {
		case int32:
			val.I64 = int64(fVal)
		case int64:
			val.I64 = fVal
		default:
			return nil, mismatch(field, lTyp)
		}
	case common.LTID_UTINYINT, common.LTID_USMALLINT, common.LTID_UINTEGER, common.LTID_UBIGINT, common.LTID_ENUM:
		switch fVal := field.(type) {
		case int32:
			val.U64 = uint64(uint32(fVal))
		case int64:
			val.U64 = uint64(fVal)
		default:
			return nil, mismatch(field, lTyp)
		}
	case common.LTID_FLOAT, common.LTID_DOUBLE:
		switch fVal := field.(type) {
		case float32:
			val.F64 = float64(fVal)
		case float64:
			val.F64 = fVal
		default:
			return nil, mismatch(field, lTyp)
		}
	case common.LTID_VARCHAR, common.LTID_BLOB:
		s, ok := field.(string)
		if !ok {
			return nil, mismatch(field, lTyp)
		}
		val.Str = s
	case common.LTID_DECIMAL:
		switch v := field.(type) {
		case int32:
			val.I64 = int64(v)
		case int64:
			val.I64 = v
		case string:
			unscaled, err := common.ParseDecimal(v, lTyp.Scale)
			if err != nil {
				return nil, err
			}
			val.I64 = unscaled
		default:
			return nil, mismatch(field, lTyp)
		}
	default:
		return nil, errors.Wrapf(util.ErrUnknownType, "parquet column of type %v", lTyp)
	}
	return val, nil
}

func mismatch(field any, lTyp common.LType) error {
	return errors.Errorf("parquet value %v of %T does not fit %v", field, field, lTyp)
}
