package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/neojson/neojson"
)

var cli struct {
	Validate ValidateCmd `cmd:"" help:"Check that the input is one well-formed JSON value."`
	Fmt      FmtCmd      `cmd:"" help:"Reformat JSON, preserving object key order."`
	Get      GetCmd      `cmd:"" help:"Print the value at a key path inside a JSON object."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("neojson"),
		kong.Description("Inspect and reformat JSON documents."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		if de, ok := neojson.AsDecodeError(err); ok {
			fmt.Fprintf(os.Stderr, "neojson: invalid input: %s (offset %d)\n", de.Msg, de.Offset)
		} else {
			fmt.Fprintf(os.Stderr, "neojson: %v\n", err)
		}
		os.Exit(1)
	}
}

// readInput returns the content of path, or stdin when path is empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

type ValidateCmd struct {
	Path string `arg:"" optional:"" help:"Input file; stdin when omitted." type:"path"`
}

func (c *ValidateCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	if _, err := neojson.ParseBytes(data); err != nil {
		return err
	}
	fmt.Println("valid")
	return nil
}

type FmtCmd struct {
	Path    string `arg:"" optional:"" help:"Input file; stdin when omitted." type:"path"`
	Compact bool   `help:"Emit compact output instead of indented." short:"c"`
	Indent  string `help:"Indentation unit for pretty output." default:"  "`
}

func (c *FmtCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	v, err := neojson.ParseBytes(data)
	if err != nil {
		return err
	}
	opt := neojson.WriterOpt{Indent: c.Indent}
	if c.Compact {
		opt.Indent = ""
	}
	out, err := neojson.Encode(v, opt)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type GetCmd struct {
	Path string   `arg:"" help:"Input file, or - for stdin." type:"path"`
	Keys []string `arg:"" help:"Key path to read, one segment per argument."`
}

func (c *GetCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}
	obj, err := neojson.ObjectFromString(string(data))
	if err != nil {
		return err
	}
	v := obj.GetPath(c.Keys...)
	if v == nil {
		return fmt.Errorf("no value at path %v", c.Keys)
	}
	out, err := neojson.Encode(v)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
