// rpcinfo lists the header fields and channel table of RPC-III files.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/galuszkm/rpc3"
)

// flagHeader selects a full header dump instead of the channel table alone.
var flagHeader bool

func init() {
	flag.BoolVarP(&flagHeader, "header", "H", false, "dump all header fields")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: rpcinfo [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	for _, path := range flag.Args() {
		if err := rpcinfo(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// rpcinfo decodes the given file and prints its description.
func rpcinfo(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f := rpc3.NewFile(data, path)
	if !f.Parse() {
		for _, e := range f.Errs() {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("%s: decode failed", path)
	}

	fmt.Printf("%s (%s, %s)\n", path, f.Size(), f.Hash()[:12])
	if flagHeader {
		for _, field := range f.Header().Fields() {
			fmt.Printf("  %-32s %s\n", field.Key, field.Value.Text)
		}
		fmt.Println()
	}
	fmt.Printf("  %4s  %-24s %-8s %12s %12s %12s\n", "no", "name", "units", "min", "max", "dt")
	for _, c := range f.Channels() {
		fmt.Printf("  %4d  %-24s %-8s %12.4f %12.4f %12.6f\n",
			c.Number, c.Name, c.Units, c.Min(), c.Max(), c.Dt)
	}
	return nil
}
