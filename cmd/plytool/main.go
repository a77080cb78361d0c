// plytool inspects, converts and generates PLY files.
//
// Usage:
//
//	plytool info [-mesh] file                                      Print the header, and with -mesh the mesh it holds
//	plytool convert [-format f] in out                             Rewrite a file in another encoding
//	plytool gen [-shape s] [-size n] [-cells n] [-format f] out    Write a tessellated solid
//
// Formats are ascii, binary_little_endian and binary_big_endian.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/stewi1014/ply"
	"github.com/stewi1014/ply/encode"
	"github.com/stewi1014/ply/mesh"
	"github.com/stewi1014/ply/solid"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("plytool: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "info":
		err = info(os.Stdout, args)
	case "convert":
		err = convert(args)
	case "gen":
		err = gen(args)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		log.Printf("unknown command %q", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  plytool info [-mesh] file
  plytool convert [-format f] in out
  plytool gen [-shape s] [-size n] [-cells n] [-format f] out`)
}

// formatFlag is a flag.Value holding an encoding.
type formatFlag struct {
	encode.Format
}

func (f *formatFlag) Set(s string) error {
	format, ok := encode.ParseFormat(s)
	if !ok {
		return fmt.Errorf("unknown format %q", s)
	}
	f.Format = format
	return nil
}

func info(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	asMesh := fs.Bool("mesh", false, "also read the body as a triangle mesh")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("info needs one file, got %v", fs.NArg())
	}
	path := fs.Arg(0)

	r, err := ply.Open(path, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	h := r.Header()
	fmt.Fprintf(out, "%v: %v %v\n", path, h.Format, h.Version)
	for _, n := range h.Notes {
		fmt.Fprintf(out, "%v %v\n", n.Kind, n.Text)
	}
	for _, el := range r.Elements() {
		props := make([]string, len(el.Properties))
		for i, p := range el.Properties {
			props[i] = p.String()
		}
		fmt.Fprintf(out, "element %v: %v\n", el, strings.Join(props, ", "))
	}

	if !*asMesh {
		return nil
	}

	m, err := mesh.Import(r)
	if err != nil {
		return err
	}
	b := m.Bounds()
	fmt.Fprintf(out, "mesh: %v vertices, %v triangles, area %g\n", m.VertexCount(), m.TriangleCount(), m.Area())
	fmt.Fprintf(out, "bounds: (%g, %g, %g) to (%g, %g, %g)\n", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	return nil
}

func convert(args []string) error {
	format := formatFlag{encode.BinaryLittleEndian}
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.Var(&format, "format", "output encoding")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("convert needs an input and an output file, got %v arguments", fs.NArg())
	}

	r, err := ply.Open(fs.Arg(0), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := ply.Create(fs.Arg(1), format.Format, nil)
	if err != nil {
		return err
	}

	if err := ply.Transcode(w, r); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Printf("wrote %v as %v", fs.Arg(1), format)
	return nil
}

func gen(args []string) error {
	format := formatFlag{encode.BinaryLittleEndian}
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	shape := fs.String("shape", "sphere", "solid to generate, one of "+strings.Join(solid.Shapes(), ", "))
	size := fs.Float64("size", 1, "edge length of the cube the solid fits in")
	cells := fs.Int("cells", solid.DefaultCells, "marching cubes resolution")
	fs.Var(&format, "format", "output encoding")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("gen needs one output file, got %v", fs.NArg())
	}

	m, err := solid.Shape(*shape, *size, *cells)
	if err != nil {
		return err
	}
	if err := m.Save(fs.Arg(0), format.Format); err != nil {
		return err
	}

	log.Printf("wrote %v: %v vertices, %v triangles", fs.Arg(0), m.VertexCount(), m.TriangleCount())
	return nil
}
