package fortiparse

import "slices"

// Section is one kind's ordered block list, as exposed to renderers.
type Section struct {
	Kind   SectionKind `json:"kind" yaml:"kind"`
	Blocks []string    `json:"blocks" yaml:"blocks"`
}

// Document is the result of one parse pass: every kind of the marker table
// mapped to its committed blocks in commit order. A Document is never
// modified after Parse returns; accessors hand out copies.
type Document struct {
	dialect Dialect
	kinds   []SectionKind
	blocks  map[SectionKind][]string
}

func newDocument(table MarkerTable) *Document {
	kinds := table.Kinds()
	blocks := make(map[SectionKind][]string, len(kinds))
	for _, k := range kinds {
		blocks[k] = []string{}
	}
	return &Document{
		dialect: table.Dialect,
		kinds:   kinds,
		blocks:  blocks,
	}
}

func (d *Document) commit(kind SectionKind, block string) {
	d.blocks[kind] = append(d.blocks[kind], block)
}

// Dialect returns the dialect of the marker table the document was parsed
// with.
func (d *Document) Dialect() Dialect {
	return d.dialect
}

// Kinds returns the document's section kinds in marker-table order.
func (d *Document) Kinds() []SectionKind {
	return slices.Clone(d.kinds)
}

// Blocks returns a copy of the blocks committed for kind. Unknown kinds yield
// an empty, non-nil slice.
func (d *Document) Blocks(kind SectionKind) []string {
	b, ok := d.blocks[kind]
	if !ok {
		return []string{}
	}
	return slices.Clone(b)
}

// Count returns the number of blocks committed for kind.
func (d *Document) Count(kind SectionKind) int {
	return len(d.blocks[kind])
}

// Total returns the number of blocks across all kinds.
func (d *Document) Total() int {
	n := 0
	for _, b := range d.blocks {
		n += len(b)
	}
	return n
}

// Sections returns every kind with its blocks, in marker-table order.
func (d *Document) Sections() []Section {
	out := make([]Section, 0, len(d.kinds))
	for _, k := range d.kinds {
		out = append(out, Section{Kind: k, Blocks: d.Blocks(k)})
	}
	return out
}

// Equal reports whether two documents hold the same kinds and the same blocks
// in the same order.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.dialect != other.dialect || !slices.Equal(d.kinds, other.kinds) {
		return false
	}
	for _, k := range d.kinds {
		if !slices.Equal(d.blocks[k], other.blocks[k]) {
			return false
		}
	}
	return true
}
