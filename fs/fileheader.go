package fs

// FileInfo summarizes a FILEHEADER block's metadata.
type FileInfo struct {
	Num      int
	Name     string
	Size     int
	Modified DateTriple
}

// Stat reads a FILEHEADER block's metadata.
func (img *Image) Stat(headerNum int) (FileInfo, error) {
	if img.TypeOf(headerNum) != TypeFileHeader {
		return FileInfo{}, ErrNotAFile
	}
	b := img.Block(headerNum)
	return FileInfo{
		Num:      headerNum,
		Name:     readName(b, nameOffset),
		Size:     int(b.u32(fileSizeOffset)),
		Modified: readDateTriple(b, rootLastModOffset),
	}, nil
}
