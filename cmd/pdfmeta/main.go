// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pdfmeta prints the metadata of PDF files.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/ScriptRock/pdfmeta"
	"github.com/ScriptRock/pdfmeta/scan"
)

const timePattern = "2006-01-02 15:04:05 -07:00"

func main() {
	var (
		verbose = flag.Bool("v", false, "log xref and revision details")
		asJSON  = flag.Bool("json", false, "print raw metadata as JSON")
		workers = flag.Int("workers", 0, "files read at once (0 = number of CPUs)")
		bufSize = flag.Int("buffer", 0, "read buffer size in bytes")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: pdfmeta [flags] file.pdf|dir ...")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var paths []string
	for _, arg := range flag.Args() {
		fi, err := os.Stat(arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !fi.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := scan.Walk(arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		paths = append(paths, found...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rep := scan.Scan(ctx, paths, scan.Options{
		Workers: *workers,
		Extract: pdfmeta.Options{BufferSize: *bufSize},
	})

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep.Raw); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		for _, p := range paths {
			meta, ok := rep.Raw[p]
			if !ok {
				continue
			}
			printFile(p, meta, rep)
		}
	}
	if len(rep.Errors) > 0 {
		os.Exit(1)
	}
}

func printFile(path string, meta map[string]string, rep scan.Report) {
	fmt.Println(path)
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printLine(k, meta[k])
	}
	rec := rep.Records[path]
	printLine("isbn (valid)", rec.ISBN)
	printLine("series", rec.Series)
	if !rec.ReleaseDate.IsZero() {
		printLine("released", rec.ReleaseDate.Format(timePattern))
	}
	fmt.Println()
}

func printLine(key, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-14s: %s\n", key, value)
}
