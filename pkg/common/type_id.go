package common

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/daviszhen/gather/pkg/util"
)

type LTypeId int

const (
	LTID_INVALID   LTypeId = 0
	LTID_NULL      LTypeId = 1
	LTID_BOOLEAN   LTypeId = 10
	LTID_TINYINT   LTypeId = 11
	LTID_SMALLINT  LTypeId = 12
	LTID_INTEGER   LTypeId = 13
	LTID_BIGINT    LTypeId = 14
	LTID_DATE      LTypeId = 15
	LTID_TIME      LTypeId = 16
	LTID_TIMESTAMP LTypeId = 19
	LTID_DECIMAL   LTypeId = 21
	LTID_FLOAT     LTypeId = 22
	LTID_DOUBLE    LTypeId = 23
	LTID_VARCHAR   LTypeId = 25
	LTID_BLOB      LTypeId = 26
	LTID_UTINYINT  LTypeId = 28
	LTID_USMALLINT LTypeId = 29
	LTID_UINTEGER  LTypeId = 30
	LTID_UBIGINT   LTypeId = 31
	LTID_STRUCT    LTypeId = 100
	LTID_LIST      LTypeId = 101
	LTID_ENUM      LTypeId = 104
	LTID_ARRAY     LTypeId = 108
	LTID_OBJECT    LTypeId = 109
)

var lTypeIdToStr = map[LTypeId]string{
	LTID_INVALID:   "LTID_INVALID",
	LTID_NULL:      "LTID_NULL",
	LTID_BOOLEAN:   "LTID_BOOLEAN",
	LTID_TINYINT:   "LTID_TINYINT",
	LTID_SMALLINT:  "LTID_SMALLINT",
	LTID_INTEGER:   "LTID_INTEGER",
	LTID_BIGINT:    "LTID_BIGINT",
	LTID_DATE:      "LTID_DATE",
	LTID_TIME:      "LTID_TIME",
	LTID_TIMESTAMP: "LTID_TIMESTAMP",
	LTID_DECIMAL:   "LTID_DECIMAL",
	LTID_FLOAT:     "LTID_FLOAT",
	LTID_DOUBLE:    "LTID_DOUBLE",
	LTID_VARCHAR:   "LTID_VARCHAR",
	LTID_BLOB:      "LTID_BLOB",
	LTID_UTINYINT:  "LTID_UTINYINT",
	LTID_USMALLINT: "LTID_USMALLINT",
	LTID_UINTEGER:  "LTID_UINTEGER",
	LTID_UBIGINT:   "LTID_UBIGINT",
	LTID_STRUCT:    "LTID_STRUCT",
	LTID_LIST:      "LTID_LIST",
	LTID_ENUM:      "LTID_ENUM",
	LTID_ARRAY:     "LTID_ARRAY",
	LTID_OBJECT:    "LTID_OBJECT",
}

func (id LTypeId) String() string {
	if s, has := lTypeIdToStr[id]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", id))
}

var nameToLTypeId = map[string]LTypeId{
	"null":      LTID_NULL,
	"boolean":   LTID_BOOLEAN,
	"bool":      LTID_BOOLEAN,
	"tinyint":   LTID_TINYINT,
	"smallint":  LTID_SMALLINT,
	"integer":   LTID_INTEGER,
	"int":       LTID_INTEGER,
	"bigint":    LTID_BIGINT,
	"date":      LTID_DATE,
	"time":      LTID_TIME,
	"timestamp": LTID_TIMESTAMP,
	"decimal":   LTID_DECIMAL,
	"float":     LTID_FLOAT,
	"double":    LTID_DOUBLE,
	"varchar":   LTID_VARCHAR,
	"string":    LTID_VARCHAR,
	"blob":      LTID_BLOB,
	"utinyint":  LTID_UTINYINT,
	"usmallint": LTID_USMALLINT,
	"uinteger":  LTID_UINTEGER,
	"ubigint":   LTID_UBIGINT,
	"enum":      LTID_ENUM,
}

// ParseLTypeId resolves the scalar type names accepted in configuration.
func ParseLTypeId(name string) (LTypeId, error) {
	if id, has := nameToLTypeId[strings.ToLower(strings.TrimSpace(name))]; has {
		return id, nil
	}
	return LTID_INVALID, errors.Wrapf(util.ErrUnknownType, "type name %q", name)
}
