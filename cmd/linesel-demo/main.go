package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/linesel/backend"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: browse, select, restyle, and prune chart lines
Usage:

 %[1]s [-trace file.csv]

OR

 linesel-gen | %[1]s -trace -

Without a trace the window opens with generated sample data. Switch to
the select or delete tabs and click lines to pick them.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	tracePath := flag.String("trace", "", "CSV trace file to load at startup, or - for stdin")
	follow := flag.Bool("follow", false, "keep reading the trace file as it grows")
	interval := flag.Duration("demo-interval", 500*time.Millisecond, "time between generated samples in live mode")
	flag.Parse()
	go func() {
		w := app.NewWindow(app.Title("linesel"), app.Size(unit.Dp(1100), unit.Dp(700)))
		if err := loop(w, *tracePath, *follow, *interval); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, tracePath string, follow bool, interval time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mutator := stream.NewMutator(ctx)
	bundle, err := backend.NewBundle(ctx, mutator)
	if err != nil {
		return err
	}
	ws := backend.NewWindowState(ctx, bundle, w)
	expl := explorer.NewExplorer(w)
	ui := NewUI(w, ws, expl, interval, tracePath == "")
	if tracePath != "" {
		if tracePath == "-" {
			bundle.Source.LoadFromStream(backend.ModeFollowing, os.Stdin)
		} else if follow {
			if _, err := bundle.Source.FollowFile(tracePath); err != nil {
				return err
			}
		} else {
			f, err := os.Open(tracePath)
			if err != nil {
				return fmt.Errorf("could not open trace %q: %w", tracePath, err)
			}
			bundle.Source.LoadFromStream(backend.ModeReplaying, f)
		}
	}
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case system.DestroyEvent:
			return ev.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
