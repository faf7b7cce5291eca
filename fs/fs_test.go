package fs

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFormat_EmptyOFS_RootBlockLayout(t *testing.T) {
	img, err := Format(SizeDD, DosOFS, false)
	require.NoError(t, err)

	require.Equal(t, "DOS", string(img.Data[0:3]))
	require.Equal(t, byte(0), img.Data[3])

	rootNum := RootBlockNum(img.NumBlocks())
	require.Equal(t, 880, rootNum)

	root := img.Block(rootNum)
	require.Equal(t, byte(0x02), root.Data[3])
	require.Equal(t, byte(0x48), root.Data[15])
	for i := 312; i < 316; i++ {
		require.Equal(t, byte(0xFF), root.Data[i])
	}
	require.Equal(t, byte(0x01), root.Data[511])

	require.True(t, ValidChecksum(root, offChecksum))

	for n := 0; n < img.NumBlocks(); n++ {
		if n == 0 || n == rootNum {
			continue
		}
		for _, b := range img.Block(n).Data {
			require.Zerof(t, b, "block %d expected zero", n)
		}
	}
}

func TestFormat_BootableFFS_BootstrapPrefix(t *testing.T) {
	img, err := Format(SizeDD, DosFFS, true)
	require.NoError(t, err)

	require.Equal(t, "DOS\x01", string(img.Data[0:4]))
	require.Equal(t, []byte{0xE3, 0x3D, 0x0E, 0x72}, img.Data[4:8])
}

func TestDir_HashInsertion_ChainAppendsAtTail(t *testing.T) {
	img, err := Format(SizeDD, DosOFS, false)
	require.NoError(t, err)

	root := img.RootDir()
	n1, err := root.CreateFile("test", nil)
	require.NoError(t, err)
	n2, err := root.CreateFile("test2", nil)
	require.NoError(t, err)

	if HashName("test") == HashName("test2") {
		entry1 := img.Block(n1)
		require.Equal(t, uint32(n2), entry1.u32(nextHashRefOffset))
	}

	require.Equal(t, n2, root.SeekRef("test2"))
}

func TestChecksum_RoundTrip(t *testing.T) {
	img, err := Format(SizeDD, DosOFS, false)
	require.NoError(t, err)
	root := img.Block(RootBlockNum(img.NumBlocks()))
	require.True(t, ValidChecksum(root, offChecksum))

	num, err := img.RootDir().CreateDir("work")
	require.NoError(t, err)
	require.True(t, ValidChecksum(img.Block(num), offChecksum))
}

func TestDirectory_ImportExport_RoundTrip(t *testing.T) {
	img, err := Format(SizeDD, DosOFS, false)
	require.NoError(t, err)

	src := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(src, "/a.txt", []byte("hello world"), 0o644))
	require.NoError(t, src.MkdirAll("/sub", 0o755))
	require.NoError(t, afero.WriteFile(src, "/sub/b.txt", []byte("nested"), 0o644))

	require.NoError(t, Import(src, "/", img.RootDir()))

	dst := afero.NewMemMapFs()
	require.NoError(t, Export(dst, "/out", img.RootDir()))

	data, err := afero.ReadFile(dst, "/out/a.txt")
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	data2, err := afero.ReadFile(dst, "/out/sub/b.txt")
	require.NoError(t, err)
	require.Equal(t, "nested", string(data2))
}

func TestCollect_DetectsCycle(t *testing.T) {
	img, err := Format(SizeDD, DosOFS, false)
	require.NoError(t, err)
	root := img.RootDir()

	n1, err := root.CreateFile("a", nil)
	require.NoError(t, err)
	n2, err := root.CreateFile("b", nil)
	require.NoError(t, err)

	b1 := img.Block(n1)
	b1.putU32(nextHashRefOffset, uint32(n2))
	b2 := img.Block(n2)
	b2.putU32(nextHashRefOffset, uint32(n1))

	_, err = root.Collect(false)
	require.ErrorIs(t, err, ErrHasCycles)
}

func TestFileData_OFS_MultiBlockRoundTrip(t *testing.T) {
	img, err := Format(SizeDD, DosOFS, false)
	require.NoError(t, err)

	payload := make([]byte, ofsPayloadSize*3+10)
	for i := range payload {
		payload[i] = byte(i)
	}

	num, err := img.RootDir().CreateFile("big", payload)
	require.NoError(t, err)

	got, err := ReadFileData(img, num)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestIntegrityCheck_CleanVolumeHasNoFindings(t *testing.T) {
	img, err := Format(SizeDD, DosOFS, false)
	require.NoError(t, err)
	_, err = img.RootDir().CreateFile("x", []byte("data"))
	require.NoError(t, err)

	report, err := img.CheckIntegrity()
	require.NoError(t, err)
	require.Equal(t, 0, report.BadChecksum)
	require.Equal(t, 0, report.Cycles)
}
