package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"qgraphic/pkg/codec"
	"qgraphic/pkg/frame"
	"qgraphic/pkg/interp"
	"qgraphic/pkg/lang"
	"qgraphic/pkg/store"
	"qgraphic/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "exec":
		runExec(os.Args[2:])
	case "gui":
		runGUI(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: qgraphic exec [-export-preview path] [-preview-scale n] <file.qgk>")
	fmt.Fprintln(os.Stderr, "       qgraphic gui [file.qgc]")
}

func runExec(args []string) {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)
	syncInterval := fs.Duration("sync-interval", 3*time.Second, "cached .qgc flush interval")
	exportPreview := fs.String("export-preview", "", "write a PNG preview of the last Published Frame to this path")
	previewScale := fs.Int("preview-scale", 8, "nearest-neighbor upscale factor for -export-preview")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exec requires exactly one <file.qgk> argument")
		os.Exit(2)
	}

	path := fs.Arg(0)
	fullPath, parentDir, err := utils.GetPathInfo(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve path %q: %v\n", path, err)
		os.Exit(1)
	}

	source, err := os.ReadFile(fullPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", fullPath, err)
		os.Exit(1)
	}

	prog, err := lang.LexAndParse(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		os.Exit(1)
	}

	cache := store.NewCache()
	stopSyncer := make(chan struct{})
	go cache.StartSyncer(parentDir, *syncInterval, stopSyncer)

	var lastPublished *frame.Frame
	in := interp.New()
	in.Publish = func(f *frame.Frame) error {
		data, err := codec.EncodeQGC(f)
		if err != nil {
			return err
		}
		cache.Put("latest_published.qgc", data)
		lastPublished = f
		return nil
	}
	in.Send = func(qgcPath string) error {
		return defaultSend(qgcPath)
	}

	runErr := in.Run(prog)

	close(stopSyncer)
	if cache.HasDirty() {
		_ = cache.Flush(parentDir)
	}

	if *exportPreview != "" {
		if lastPublished == nil {
			fmt.Fprintln(os.Stderr, "-export-preview requested but the program never Published a Frame")
		} else if err := writePreview(lastPublished, *previewScale, *exportPreview); err != nil {
			fmt.Fprintf(os.Stderr, "failed to export preview: %v\n", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}

// writePreview upscales f and writes it as a PNG to path, for a human to
// look at a Published scene without a GUI.
func writePreview(f *frame.Frame, scale int, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return codec.ExportPreviewPNG(f, scale, out)
}

// defaultSend loads the .qgc scene, converts it to the raw RGB565 layout,
// and hands it to the atomic-replace file publisher at the resolved
// destination. runExec installs it as the interpreter's Send handler.
func defaultSend(qgcPath string) error {
	f, err := codec.LoadQGC(qgcPath)
	if err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	raw := codec.EncodeRGB565(f)
	ctx := store.DefaultSendContext()
	return store.WriteAtomic(ctx.FramePath, raw)
}

func runGUI(args []string) {
	fmt.Fprintln(os.Stderr, "the graphical editor is a separate collaborator application; this build ships the language core only.")
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "(requested scene: %s)\n", args[0])
	}
	os.Exit(2)
}
