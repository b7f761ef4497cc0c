package chunk

import (
	"fmt"

	"github.com/xlab/treeprint"
	"go.uber.org/zap"

	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

// Print adds the layout of s to tree.
func (s *Series) Print(tree treeprint.Tree) {
	tree = tree.AddMetaBranch(s.typ.String(), s.name)
	tree.AddNode(fmt.Sprintf("len %d, nulls %d, sorted %v", s.length, s.nullCount, s.sorted))
	chunks := tree.AddBranch(fmt.Sprintf("chunks %d", len(s.chunks)))
	for i, arr := range s.chunks {
		printArray(chunks, i, arr)
	}
	if s.typ.Id == common.LTID_STRUCT || s.typ.Id == common.LTID_LIST || s.typ.Id == common.LTID_ARRAY {
		fields := tree.AddBranch("fields")
		for _, f := range s.typ.Fields {
			fields.AddMetaNode(f.Typ.String(), f.Name)
		}
	}
}

func printArray(tree treeprint.Tree, i int, arr Array) {
	switch a := arr.(type) {
	case *ViewArray:
		tree.AddNode(fmt.Sprintf("%d: %d rows, %d nulls, %d buffers, %d buffer bytes",
			i, a.Len(), a.NullCount(), len(a.Buffers), a.TotalBufferLen()))
	default:
		tree.AddNode(fmt.Sprintf("%d: %d rows, %d nulls", i, a.Len(), a.NullCount()))
	}
}

func (s *Series) TreeString() string {
	tree := treeprint.NewWithRoot("Series:")
	s.Print(tree)
	return tree.String()
}

// Print2 logs at most maxRows values of s.
func (s *Series) Print2(prefix string, maxRows int) {
	fields := make([]zap.Field, 0)
	for j := 0; j < s.length && j < maxRows; j++ {
		fields = append(fields, zap.String("", s.Get(j).String()))
	}
	util.Info(prefix, fields...)
}
