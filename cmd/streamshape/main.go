package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	streamshape "github.com/saikethan27/StreamShape"
	"github.com/saikethan27/StreamShape/shape"
	"github.com/saikethan27/StreamShape/source/sse"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "replay":
		replayCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "streamshape CLI\n\nUsage:\n  streamshape replay -shape shape.yaml [-in capture.sse] [-raw] [-v]\n\nNotes:\n  - Replays a captured SSE stream through the parser, printing one JSON line per record.\n  - With no -in (or -in -) the capture is read from stdin.")
}

type lineRecord struct {
	Index    int                `json:"index,omitempty"`
	Element  map[string]any     `json:"element,omitempty"`
	Error    string             `json:"error,omitempty"`
	Finished bool               `json:"finished,omitempty"`
	Usage    *streamshape.Usage `json:"usage,omitempty"`
	Raw      []string           `json:"raw_fragments,omitempty"`
}

func replayCmd(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	var shapePath, inPath string
	var raw, verbose bool
	fs.StringVar(&shapePath, "shape", "", "YAML shape descriptor")
	fs.StringVar(&inPath, "in", "-", "SSE capture file, or - for stdin")
	fs.BoolVar(&raw, "raw", false, "retain raw fragments on the summary record")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	_ = fs.Parse(args)
	if shapePath == "" {
		fs.Usage()
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	data, err := os.ReadFile(shapePath)
	if err != nil {
		log.Fatalf("read shape: %v", err)
	}
	sh, err := shape.FromYAML(data)
	if err != nil {
		log.Fatalf("load shape: %v", err)
	}

	var in io.ReadCloser = os.Stdin
	if inPath != "" && inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			log.Fatalf("open capture: %v", err)
		}
		in = f
	}

	ctx := context.Background()
	st := streamshape.Open[map[string]any](sse.New(in), sh, streamshape.StreamOpt{RetainRaw: raw, Logger: log})
	defer st.Close()

	enc := json.NewEncoder(os.Stdout)
	for {
		rec, err := st.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			log.Fatalf("stream failed: %v", err)
		}
		line := lineRecord{Index: rec.Index}
		if rec.Element != nil {
			line.Element = *rec.Element
		}
		if rec.Err != nil {
			line.Error = rec.Err.Error()
		}
		if rec.Finished {
			line = lineRecord{Finished: true, Usage: &rec.Usage, Raw: rec.Raw}
		}
		if err := enc.Encode(line); err != nil {
			log.Fatalf("write record: %v", err)
		}
	}
}
