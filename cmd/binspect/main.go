package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/binstruct/schema"
)

func main() {
	var (
		schemaFile  = flag.String("schema", "", "Path to TOML schema file")
		recordName  = flag.String("record", "", "Record to decode (optional when the schema has one)")
		inFile      = flag.String("in", "", "File with binary input")
		hexInput    = flag.String("hex", "", "Hex string input (whitespace ignored)")
		list        = flag.Bool("list", false, "List records and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		debug       = flag.Bool("debug", false, "Enable composition debug logging")
	)
	flag.Parse()

	if *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: binspect -schema <file.toml> [-record name] -in <file>|-hex <bytes>")
		fmt.Fprintln(os.Stderr, "       binspect -schema <file.toml> -list")
		fmt.Fprintln(os.Stderr, "       binspect -schema <file.toml> -i  (interactive mode)")
		os.Exit(1)
	}

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		schema.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*schemaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*schemaFile, *recordName, *inFile, *hexInput, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaFile, recordName, inFile, hexInput string, listOnly bool) error {
	layouts, names, err := loadSchemas(schemaFile)
	if err != nil {
		return err
	}

	fmt.Printf("Schema: %s\n", schemaFile)
	fmt.Printf("Records: %d\n", len(names))

	if listOnly {
		for _, name := range names {
			printLayout(layouts[name])
		}
		return nil
	}

	l, err := pickLayout(layouts, names, recordName)
	if err != nil {
		return err
	}

	data, err := readInput(inFile, hexInput)
	if err != nil {
		return err
	}
	if len(data) != l.ByteSize() {
		return fmt.Errorf("input is %d bytes, record %s needs %d", len(data), l.Name(), l.ByteSize())
	}

	values, err := l.LoadBytes(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	printLayout(l)
	fmt.Printf("\nDecoded %d bytes:\n", len(data))
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-16s = %v\n", k, values[k])
	}
	return nil
}

func pickLayout(layouts map[string]*schema.Layout, names []string, recordName string) (*schema.Layout, error) {
	if recordName == "" {
		if len(names) == 1 {
			return layouts[names[0]], nil
		}
		return nil, fmt.Errorf("schema has %d records, pick one with -record (%s)",
			len(names), strings.Join(names, ", "))
	}
	l, ok := layouts[recordName]
	if !ok {
		return nil, fmt.Errorf("record %q is not in the schema (%s)", recordName, strings.Join(names, ", "))
	}
	return l, nil
}

func readInput(inFile, hexInput string) ([]byte, error) {
	switch {
	case inFile != "" && hexInput != "":
		return nil, fmt.Errorf("-in and -hex are mutually exclusive")
	case inFile != "":
		data, err := os.ReadFile(inFile)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	case hexInput != "":
		return decodeHex(hexInput)
	}
	return nil, fmt.Errorf("no input; use -in or -hex")
}

func decodeHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

func printLayout(l *schema.Layout) {
	fmt.Printf("\n%s  (%s, %d bytes, %d elements)\n",
		l.Name(), l.StructString(), l.ByteSize(), l.ElementCount())
	for _, d := range l.Fields() {
		extra := ""
		if ln, ok := d.Len(); ok && ln.N > 0 {
			extra = fmt.Sprintf("  len=%d", ln.N)
		}
		if members := d.Members(); len(members) > 0 {
			parts := make([]string, len(members))
			for i, m := range members {
				parts[i] = fmt.Sprintf("%s=%d", m.Name, m.Value)
			}
			extra += "  {" + strings.Join(parts, ", ") + "}"
		}
		fmt.Printf("  %-16s %-8s %2d B%s\n", d.Name(), d.Kind(), d.ByteSize(), extra)
	}
}
