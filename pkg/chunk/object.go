package chunk

import (
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

// ObjectBuilder materializes an object column value by value.
type ObjectBuilder interface {
	Append(obj any) error
	AppendNull()
	Len() int
	Finish() *Series
}

// ObjectRegistry describes how columns of OBJECT(Name) are rebuilt.
type ObjectRegistry struct {
	Name       string
	NewBuilder func(column string, capacity int) ObjectBuilder
}

func objectRegistryLess(a, b *ObjectRegistry) bool {
	return a.Name < b.Name
}

type objectRegistries struct {
	lock *util.ReentryLock
	set  *btree.BTreeG[*ObjectRegistry]
}

var gObjects = &objectRegistries{
	lock: util.NewReentryLock(),
	set:  btree.NewBTreeG[*ObjectRegistry](objectRegistryLess),
}

func RegisterObject(reg *ObjectRegistry) error {
	var err error
	gObjects.lock.Do(func() {
		if _, has := gObjects.set.Get(reg); has {
			err = errors.Wrapf(util.ErrDuplicateKey, "object type %s", reg.Name)
			return
		}
		gObjects.set.Set(reg)
	})
	return err
}

func UnregisterObject(name string) {
	gObjects.lock.Do(func() {
		gObjects.set.Delete(&ObjectRegistry{Name: name})
	})
}

func LookupObject(name string) (reg *ObjectRegistry, has bool) {
	gObjects.lock.Do(func() {
		reg, has = gObjects.set.Get(&ObjectRegistry{Name: name})
	})
	return
}

// ObjectNames lists the registered object types in name order.
func ObjectNames() []string {
	var names []string
	gObjects.lock.Do(func() {
		gObjects.set.Scan(func(reg *ObjectRegistry) bool {
			names = append(names, reg.Name)
			return true
		})
	})
	return names
}

// NewCloneObjectRegistry returns a registry whose builders keep deep copies
// of the appended objects. Pass it to RegisterObject.
func NewCloneObjectRegistry(name string) *ObjectRegistry {
	return &ObjectRegistry{
		Name: name,
		NewBuilder: func(column string, capacity int) ObjectBuilder {
			return &cloneObjectBuilder{
				column:  column,
				typ:     common.ObjectType(name),
				values:  make([]any, 0, capacity),
				cloneFn: clone.Clone,
			}
		},
	}
}

type cloneObjectBuilder struct {
	column  string
	typ     common.LType
	values  []any
	mask    *util.Bitmap
	cloneFn func(any) any
}

func (b *cloneObjectBuilder) Append(obj any) error {
	b.values = append(b.values, b.cloneFn(obj))
	return nil
}

func (b *cloneObjectBuilder) AppendNull() {
	b.mask = growInvalid(b.mask, len(b.values))
	b.values = append(b.values, nil)
}

func (b *cloneObjectBuilder) Len() int {
	return len(b.values)
}

func (b *cloneObjectBuilder) Finish() *Series {
	ret := NewSeries(b.column, b.typ, NewObjectArray(b.values, b.mask))
	b.values, b.mask = nil, nil
	return ret
}
