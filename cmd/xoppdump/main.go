// Command xoppdump loads a notebook document and prints the builder event
// stream it produces, one event per line. Parser warnings go to stderr.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-kit/log"

	"github.com/inklog/xopp"
	"github.com/inklog/xopp/internal/recorder"
)

var cli struct {
	File  string `arg:"" type:"existingfile" help:"Document to dump (.xopp, .xoj or plain XML)."`
	Quiet bool   `short:"q" help:"Suppress parser warnings."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("xoppdump"),
		kong.Description("Dump the event stream of a handwritten notebook document."),
	)

	var logger log.Logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if cli.Quiet {
		logger = log.NewNopLogger()
	}

	rec := &recorder.Builder{}
	err := xopp.OpenFile(cli.File, rec, logger)
	for _, ev := range rec.Events {
		fmt.Println(ev.String())
	}
	kctx.FatalIfErrorf(err)
}
