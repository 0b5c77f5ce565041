package symtab

import (
	"strconv"

	"nikand.dev/go/heap"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"
)

type (
	Table struct {
		m map[string]int
	}

	Symbol struct {
		Name    string
		Address int
	}
)

// NotFound is returned by Address for names the table doesn't know.
const NotFound = -1

var reserved = []Symbol{
	{"SP", 0},
	{"LCL", 1},
	{"ARG", 2},
	{"THIS", 3},
	{"THAT", 4},
	{"SCREEN", 16384},
	{"KBD", 24576},
}

// New returns a table holding the platform reserved symbols.
func New() *Table {
	t := &Table{
		m: make(map[string]int, len(reserved)+16),
	}

	for _, s := range reserved {
		t.m[s.Name] = s.Address
	}

	for i := 0; i < 16; i++ {
		t.m["R"+strconv.Itoa(i)] = i
	}

	return t
}

// Reserved reports whether name is predefined by the platform.
func Reserved(name string) bool {
	for _, s := range reserved {
		if s.Name == name {
			return true
		}
	}

	if len(name) < 2 || name[0] != 'R' || (name[1] == '0' && len(name) > 2) {
		return false
	}

	n, err := strconv.ParseUint(name[1:], 10, 8)

	return err == nil && n < 16
}

// Add binds name to addr unless the name is already bound.
// First assignment wins.
func (t *Table) Add(name string, addr int) bool {
	if _, ok := t.m[name]; ok {
		return false
	}

	t.m[name] = addr

	tlog.V("symtab").Printw("add symbol", "name", name, "addr", addr, "from", loc.Caller(1))

	return true
}

// Address returns the address bound to name or NotFound.
func (t *Table) Address(name string) int {
	addr, ok := t.m[name]
	if !ok {
		return NotFound
	}

	return addr
}

func (t *Table) Lookup(name string) (addr int, ok bool) {
	addr, ok = t.m[name]
	return
}

func (t *Table) Len() int {
	return len(t.m)
}

// Sorted returns all symbols ordered by address, then name.
func (t *Table) Sorted() []Symbol {
	h := heap.Heap[Symbol]{Less: symbolLess}

	for name, addr := range t.m {
		h.Push(Symbol{Name: name, Address: addr})
	}

	r := make([]Symbol, 0, h.Len())

	for h.Len() != 0 {
		r = append(r, h.Pop())
	}

	return r
}

func (t *Table) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if t == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Map, -1)

	for _, s := range t.Sorted() {
		b = e.AppendString(b, s.Name)
		b = e.AppendInt(b, s.Address)
	}

	b = e.AppendBreak(b)

	return b
}

func symbolLess(d []Symbol, i, j int) bool {
	if d[i].Address != d[j].Address {
		return d[i].Address < d[j].Address
	}

	return d[i].Name < d[j].Name
}
