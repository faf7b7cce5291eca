// Command goamiga is a headless driver for the machine and filesystem
// model: mount a disk image (raw or archived), format/import/export its
// contents, and run the machine for a fixed number of frames while
// dumping inspector info. Grounded on the teacher's main.go flag-parsing
// style (the "rom"/"region" flags, log.Fatal on setup errors) minus the
// ebiten game loop, since spec §1 places GUI presentation out of scope.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/user-none/goamiga/amiga"
	"github.com/user-none/goamiga/fs"
)

func main() {
	kickstartPath := flag.String("kickstart", "", "path to Kickstart ROM image (required to run frames)")
	diskPath := flag.String("disk", "", "path to a floppy disk image, raw or archived")
	regionFlag := flag.String("region", "pal", "video format: pal or ntsc")
	frames := flag.Int("frames", 0, "number of frames to run, then dump inspector info")
	drive := flag.Int("drive", 0, "drive index to insert -disk into")

	formatFlag := flag.String("format", "", "format the disk image before use: ofs or ffs")
	bootable := flag.Bool("bootable", false, "write a bootstrap into the formatted boot block")
	importDir := flag.String("import", "", "host directory to import into the disk image's root")
	exportDir := flag.String("export", "", "host directory to export the disk image's root into")

	flag.Parse()

	var img *fs.Image
	if *formatFlag != "" {
		img = mustFormat(*formatFlag, *bootable)
	} else if *diskPath != "" {
		img = mustMount(*diskPath)
	}

	if img != nil {
		if *importDir != "" {
			if err := fs.Import(afero.NewOsFs(), *importDir, img.RootDir()); err != nil {
				log.Fatalf("import failed: %v", err)
			}
		}
		if *exportDir != "" {
			if err := fs.Export(afero.NewOsFs(), *exportDir, img.RootDir()); err != nil {
				log.Fatalf("export failed: %v", err)
			}
		}
		if *diskPath != "" && *formatFlag != "" {
			if err := os.WriteFile(*diskPath, img.Data, 0o644); err != nil {
				log.Fatalf("writing formatted image: %v", err)
			}
		}
		report, err := img.CheckIntegrity()
		if err != nil {
			log.Fatalf("integrity check failed: %v", err)
		}
		fmt.Printf("volume: %d blocks, root at %d\n", img.NumBlocks(), fs.RootBlockNum(img.NumBlocks()))
		fmt.Printf("integrity: %+v\n", report)
	}

	if *frames <= 0 {
		return
	}
	if *kickstartPath == "" {
		log.Fatal("-kickstart is required to run frames")
	}

	kickstart, err := os.ReadFile(*kickstartPath)
	if err != nil {
		log.Fatalf("failed to load Kickstart ROM: %v", err)
	}

	var format amiga.VideoFormat
	switch strings.ToLower(*regionFlag) {
	case "pal":
		format = amiga.FormatPAL
	case "ntsc":
		format = amiga.FormatNTSC
	default:
		log.Fatalf("invalid region: %s (use pal or ntsc)", *regionFlag)
	}

	cfg := amiga.NewConfig()
	cfg.Set(amiga.OptionVideoFormat, amiga.Value{Format: format})
	m := amiga.NewMachine(cfg, kickstart)
	defer m.Close()

	if err := m.Commands.Submit(amiga.Command{Kind: amiga.CmdPowerOn}); err != nil {
		log.Fatalf("power on: %v", err)
	}
	if img != nil {
		if err := m.Commands.Submit(amiga.Command{Kind: amiga.CmdInsertDisk, Drive: *drive, Image: img.Data}); err != nil {
			log.Fatalf("insert disk: %v", err)
		}
	}

	for i := 0; i < *frames; i++ {
		m.RunFrame()
	}

	timing := m.GetTiming()
	fmt.Printf("ran %d frames at %d fps, %d active lines\n", *frames, timing.FPS, m.GetActiveHeight())
	fmt.Printf("framebuffer: %d bytes, stride %d\n", len(m.GetFramebuffer()), m.GetFramebufferStride())
	fmt.Printf("audio: %d samples queued\n", len(m.GetAudioSamples())/2)
}

func mustMount(path string) *fs.Image {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to load disk image: %v", err)
	}
	if fs.DetectArchive(data) != fs.ArchiveNone {
		data, err = fs.ExtractImage(data)
		if err != nil {
			log.Fatalf("failed to extract disk image: %v", err)
		}
	}
	dos, _ := fs.IsBootable(data)
	img, err := fs.NewImage(data, dos)
	if err != nil {
		log.Fatalf("failed to mount disk image: %v", err)
	}
	return img
}

func mustFormat(kind string, bootable bool) *fs.Image {
	var dos fs.DosType
	switch strings.ToLower(kind) {
	case "ofs":
		dos = fs.DosOFS
	case "ffs":
		dos = fs.DosFFS
	default:
		log.Fatalf("invalid -format: %s (use ofs or ffs)", kind)
	}
	img, err := fs.Format(fs.SizeDD, dos, bootable)
	if err != nil {
		log.Fatalf("format failed: %v", err)
	}
	return img
}
