// Command coverexport renders a project file to PNG or PDF without the GUI.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cover-studio/internal/export"
	"cover-studio/internal/project"
)

func main() {
	projectPath := flag.String("project", "", "Path to project file ("+project.Extension+")")
	outPath := flag.String("out", "", "Output path (.png or .pdf; defaults to project name)")
	format := flag.String("format", "", "Output format: png or pdf (inferred from -out when empty)")
	scale := flag.Float64("scale", 1.0, "Render scale, pixels per canvas unit")
	flag.Parse()

	if *projectPath == "" {
		fmt.Println("Usage: coverexport -project <path> [-out <path>] [-format png|pdf] [-scale 1.0]")
		os.Exit(1)
	}

	proj, err := project.Load(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
		os.Exit(1)
	}

	st, err := proj.BuildStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to rebuild layers: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %s: %d layers, canvas %.0fx%.0f\n",
		filepath.Base(*projectPath), st.Len(), proj.Canvas.Width, proj.Canvas.Height)

	out := *outPath
	fmtName := strings.ToLower(*format)
	if fmtName == "" {
		switch strings.ToLower(filepath.Ext(out)) {
		case ".pdf":
			fmtName = "pdf"
		default:
			fmtName = "png"
		}
	}
	if out == "" {
		base := strings.TrimSuffix(*projectPath, project.Extension)
		out = base + "." + fmtName
	}

	opts := export.Options{Scale: *scale}
	switch fmtName {
	case "png":
		err = export.PNG(st, proj.Canvas, out, opts)
	case "pdf":
		err = export.PDF(st, proj.Canvas, out, opts)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q (want png or pdf)\n", fmtName)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (scale %.2f)\n", out, *scale)
}
