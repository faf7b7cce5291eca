package fs

// writeRefTable stores refs into a header/filelist block's data-block
// pointer table (spec §4.I "the file header contains up to M data-block
// references ... overflow moves into FILELIST blocks"), returning any
// refs that didn't fit.
func writeRefTable(b Block, refs []uint32) (overflow []uint32) {
	n := len(refs)
	if n > dataRefCapacity {
		n = dataRefCapacity
	}
	for i := 0; i < n; i++ {
		b.putU32(dataBlockTableStart+4*i, refs[i])
	}
	return refs[n:]
}

func readRefTable(b Block) []uint32 {
	out := make([]uint32, 0, dataRefCapacity)
	for i := 0; i < dataRefCapacity; i++ {
		v := b.u32(dataBlockTableStart + 4*i)
		if v == 0 {
			break
		}
		out = append(out, v)
	}
	return out
}

// allocateFileList creates a new FILELIST block owned by headerNum; the
// caller links it from the previous block via nextListBlockOffset.
func allocateFileList(img *Image, headerNum int) (int, error) {
	num := img.Bitmap().AllocateAny()
	if num < 0 {
		return 0, ErrBitmapExhausted
	}
	b := img.Block(num)
	b.putU32(0, typeFileList)
	b.putU32(secTypeOffset, uint32(blockNegThree))
	b.putU32(4, uint32(headerNum)) // owning file header, mirrors ofsOwnerOffset's role
	WriteChecksum(b, offChecksum)
	return num, nil
}

// writeAllRefs distributes refs across the file header's own table and as
// many FILELIST blocks as needed, chaining each via nextListBlockOffset.
func writeAllRefs(img *Image, headerNum int, refs []uint32) error {
	header := img.Block(headerNum)
	remaining := writeRefTable(header, refs)
	prev := header
	for len(remaining) > 0 {
		listNum, err := allocateFileList(img, headerNum)
		if err != nil {
			return err
		}
		prev.putU32(nextListBlockOffset, uint32(listNum))
		WriteChecksum(prev, offChecksum)
		list := img.Block(listNum)
		remaining = writeRefTable(list, remaining)
		prev = list
	}
	WriteChecksum(prev, offChecksum)
	return nil
}

// readAllRefs walks the header's table then any FILELIST continuation
// chain, returning the full ordered list of data-block references.
func readAllRefs(img *Image, headerNum int) []uint32 {
	header := img.Block(headerNum)
	refs := readRefTable(header)
	next := int(header.u32(nextListBlockOffset))
	seen := map[int]bool{headerNum: true}
	for next != 0 && !seen[next] {
		seen[next] = true
		list := img.Block(next)
		refs = append(refs, readRefTable(list)...)
		next = int(list.u32(nextListBlockOffset))
	}
	return refs
}
