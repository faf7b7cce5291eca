package fs

// ofsPayloadSize is the usable byte count in an OFS data block once its
// 24-byte header is subtracted, per spec §4.I.
const ofsPayloadSize = BlockSize - ofsHeaderSize

// writeFileData chunks data into blockSize (OFS) or full-block (FFS)
// pieces, allocates one data block per chunk, links the OFS chain's
// sequence numbers, and records the resulting block list in the file
// header's (and any overflow FILELIST's) reference table.
func writeFileData(img *Image, headerNum int, data []byte) error {
	dos := img.Dos
	payload := BlockSize
	if dos == DosOFS {
		payload = ofsPayloadSize
	}

	var refs []uint32
	seq := uint32(1)
	for off := 0; off < len(data); off += payload {
		end := off + payload
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]

		num := img.Bitmap().AllocateAny()
		if num < 0 {
			return ErrBitmapExhausted
		}
		b := img.Block(num)
		if dos == DosOFS {
			b.putU32(0, 8) // type==8 identifies DATA_OFS, per spec §4.I
			b.putU32(ofsOwnerOffset, uint32(headerNum))
			b.putU32(ofsSeqOffset, seq)
			b.putU32(ofsBytesOffset, uint32(len(chunk)))
			copy(b.Data[ofsHeaderSize:], chunk)
			WriteChecksum(b, ofsChecksumOff)
		} else {
			copy(b.Data, chunk)
		}
		refs = append(refs, uint32(num))
		seq++
	}

	return writeAllRefs(img, headerNum, refs)
}

// ReadFileData reassembles a file's contents from its header's data-block
// references, in order. OFS blocks are validated for contiguous sequence
// numbers per spec §4.I "sequence numbers MUST be contiguous starting at
// 1"; a gap or reorder returns ErrCorrupted.
func ReadFileData(img *Image, headerNum int) ([]byte, error) {
	header := img.Block(headerNum)
	size := int(header.u32(fileSizeOffset))
	refs := readAllRefs(img, headerNum)

	out := make([]byte, 0, size)
	for i, ref := range refs {
		b := img.Block(int(ref))
		if img.Dos == DosOFS {
			if int(b.u32(ofsSeqOffset)) != i+1 {
				return nil, ErrCorrupted
			}
			n := int(b.u32(ofsBytesOffset))
			if n > ofsPayloadSize {
				n = ofsPayloadSize
			}
			out = append(out, b.Data[ofsHeaderSize:ofsHeaderSize+n]...)
		} else {
			take := BlockSize
			if remaining := size - len(out); remaining < take {
				take = remaining
			}
			if take < 0 {
				take = 0
			}
			out = append(out, b.Data[:take]...)
		}
	}
	if size >= 0 && size <= len(out) {
		out = out[:size]
	}
	return out, nil
}
