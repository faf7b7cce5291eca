package fs

import "strings"

// HashName computes the case-folded rolling polynomial hash spec §4.I
// specifies for directory hash-table placement: an accumulator seeded
// with the name length is, for each byte in turn, multiplied by 37 and
// added to the ASCII-lowercased byte, keeping the low 31 bits.
func HashName(name string) uint32 {
	hash := uint32(len(name))
	for i := 0; i < len(name); i++ {
		hash = (hash*37 + uint32(foldASCII(name[i]))) & 0x7FFFFFFF
	}
	return hash
}

func foldASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

func namesEqualFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Dir wraps a ROOT or USERDIR block, exposing the hash-table directory
// operations of spec §4.I. Root and userdir blocks share the same
// hash-table layout, so both are represented by this one type.
type Dir struct {
	img  *Image
	Num  int
	root bool
}

func (img *Image) RootDir() *Dir {
	return &Dir{img: img, Num: RootBlockNum(img.NumBlocks()), root: true}
}

func (img *Image) OpenDir(num int) *Dir {
	return &Dir{img: img, Num: num, root: num == RootBlockNum(img.NumBlocks())}
}

func (d *Dir) block() Block { return d.img.Block(d.Num) }

// slot returns the hash-table slot index for name.
func (d *Dir) slot(name string) int {
	return int(HashName(strings.ToLower(name)) % hashTableSize)
}

// seek walks a hash chain starting at the slot for name, returning the
// block number of the matching entry or 0 if not found. Cycles are
// detected with a visited set; a revisited block ends the walk with 0.
func (d *Dir) seek(name string) int {
	b := d.block()
	ref := int(b.u32(hashTableOffset + 4*d.slot(name)))
	seen := map[int]bool{}
	for ref != 0 {
		if seen[ref] {
			return 0
		}
		seen[ref] = true
		entry := d.img.Block(ref)
		if namesEqualFold(readName(entry, nameOffset), name) {
			return ref
		}
		ref = int(entry.u32(nextHashRefOffset))
	}
	return 0
}

// SeekRef looks up name in this directory and returns the block number,
// or 0 if not present.
func (d *Dir) SeekRef(name string) int { return d.seek(name) }

// ChangeDir resolves name against the current directory per spec §4.I's
// changeDir rules: "/" goes to root, ".." follows parentDirRef, anything
// else is a hash lookup, and an invalid reference falls back to root.
func (d *Dir) ChangeDir(name string) *Dir {
	switch name {
	case "/":
		return d.img.RootDir()
	case "..":
		if d.root {
			return d
		}
		parent := int(d.block().u32(parentDirRefOffset))
		if parent <= 0 || parent >= d.img.NumBlocks() {
			return d.img.RootDir()
		}
		return d.img.OpenDir(parent)
	default:
		ref := d.seek(name)
		if ref == 0 {
			return d.img.RootDir()
		}
		t := d.img.TypeOf(ref)
		if t != TypeUserDir && t != TypeRoot {
			return d.img.RootDir()
		}
		return d.img.OpenDir(ref)
	}
}

// insertHash inserts blockNum (already written with its own name) into
// the appropriate hash slot: prepended if the slot is empty, appended to
// the tail of the existing chain otherwise, per spec §4.I "append at
// tail of existing chain".
func (d *Dir) insertHash(name string, blockNum int) {
	dirBlock := d.block()
	slotOff := hashTableOffset + 4*d.slot(name)
	head := int(dirBlock.u32(slotOff))
	if head == 0 {
		dirBlock.putU32(slotOff, uint32(blockNum))
		WriteChecksum(dirBlock, offChecksum)
		return
	}
	cur := head
	for {
		entry := d.img.Block(cur)
		next := int(entry.u32(nextHashRefOffset))
		if next == 0 {
			entry.putU32(nextHashRefOffset, uint32(blockNum))
			WriteChecksum(entry, offChecksum)
			return
		}
		cur = next
	}
}

// CreateDir allocates and links a new USERDIR block named name.
func (d *Dir) CreateDir(name string) (int, error) {
	if d.seek(name) != 0 {
		return 0, ErrFileExists
	}
	num := d.img.Bitmap().AllocateAny()
	if num < 0 {
		return 0, ErrBitmapExhausted
	}
	b := d.img.Block(num)
	b.putU32(0, typeHeader)
	b.putU32(secTypeOffset, secTypeDir)
	b.putU32(parentDirRefOffset, uint32(d.Num))
	writeName(b, nameOffset, name)
	WriteChecksum(b, offChecksum)
	d.insertHash(name, num)
	d.img.CommitBitmap()
	return num, nil
}

// CreateFile allocates a FILEHEADER block named name and, if data is
// non-empty, writes its contents through the OFS/FFS data-block chain.
func (d *Dir) CreateFile(name string, data []byte) (int, error) {
	if d.seek(name) != 0 {
		return 0, ErrFileExists
	}
	bm := d.img.Bitmap()
	num := bm.AllocateAny()
	if num < 0 {
		return 0, ErrBitmapExhausted
	}
	fh := d.img.Block(num)
	fh.putU32(0, typeHeader)
	fh.putU32(secTypeOffset, uint32(blockNegThree))
	fh.putU32(parentDirRefOffset, uint32(d.Num))
	fh.putU32(fileSizeOffset, uint32(len(data)))
	writeName(fh, nameOffset, name)

	if len(data) > 0 {
		if err := writeFileData(d.img, num, data); err != nil {
			return 0, err
		}
	}
	WriteChecksum(fh, offChecksum)

	d.insertHash(name, num)
	d.img.CommitBitmap()
	return num, nil
}

// Entry describes one hash-chain member for Collect.
type Entry struct {
	Num  int
	Name string
	Type BlockType
}

// Collect performs the reverse-order hash-table traversal of spec
// §4.I's collect(root, recursive), returning every reachable entry and
// failing with ErrHasCycles if a chain revisits a block.
func (d *Dir) Collect(recursive bool) ([]Entry, error) {
	var out []Entry
	b := d.block()
	for slot := hashTableSize - 1; slot >= 0; slot-- {
		ref := int(b.u32(hashTableOffset + 4*slot))
		seen := map[int]bool{}
		for ref != 0 {
			if seen[ref] {
				return nil, ErrHasCycles
			}
			seen[ref] = true
			entry := d.img.Block(ref)
			t := d.img.TypeOf(ref)
			out = append(out, Entry{Num: ref, Name: readName(entry, nameOffset), Type: t})
			if recursive && t == TypeUserDir {
				children, err := d.img.OpenDir(ref).Collect(true)
				if err != nil {
					return nil, err
				}
				out = append(out, children...)
			}
			ref = int(entry.u32(nextHashRefOffset))
		}
	}
	return out, nil
}
