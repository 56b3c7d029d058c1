package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bgrewell/mfarchive"
	"github.com/bgrewell/mfarchive/pkg/logging"
)

func main() {
	// Logging level flags
	debug := flag.Bool("v", false, "Enable verbose (debug) logging")
	trace := flag.Bool("vv", false, "Enable trace logging")

	// Decode options
	codepage := flag.String("codepage", "cp1140", "EBCDIC codepage for text decoding")
	unnum := flag.Bool("unnum", false, "Strip trailing 8-digit sequence numbers from text lines")
	force := flag.Bool("force", false, "Convert every payload to text regardless of classification")
	binary := flag.Bool("binary", false, "Suppress all text conversion")

	// Selection
	dataset := flag.String("ds", "", "Show a single dataset (optionally with -member)")
	member := flag.String("member", "", "Show a single member's text from the dataset named by -ds")

	// Parse flags
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: mfxplore [options] <path-to-xmit-or-tape>")
		fmt.Println("  -v               Enable verbose (debug) logging")
		fmt.Println("  -vv              Enable trace logging")
		fmt.Println("  -codepage <cp>   EBCDIC codepage (default 'cp1140')")
		fmt.Println("  -unnum           Strip trailing sequence-number columns")
		fmt.Println("  -force           Force text conversion for binary payloads")
		fmt.Println("  -binary          Suppress all text conversion")
		fmt.Println("  -ds <name>       Show a single dataset")
		fmt.Println("  -member <name>   Show one member's text (requires -ds)")
		os.Exit(1)
	}

	verbosity := 0
	if *debug {
		verbosity = logging.DEBUG
	}
	if *trace {
		verbosity = logging.TRACE
	}

	archive, err := mfarchive.Open(
		flag.Arg(0),
		mfarchive.WithCodepage(*codepage),
		mfarchive.WithStripSeqNum(*unnum),
		mfarchive.WithForceConvert(*force),
		mfarchive.WithBinary(*binary),
		mfarchive.WithLogger(logging.NewLogger(os.Stderr, verbosity)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse archive: %v\n", err)
		os.Exit(1)
	}

	if *member != "" {
		if *dataset == "" {
			fmt.Fprintln(os.Stderr, "-member requires -ds")
			os.Exit(1)
		}
		text, err := archive.MemberText(*dataset, *member)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read member: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(text)
		return
	}

	fmt.Printf("Container: %s\n", archive.Kind())
	if ts := archive.OriginTimestamp(); ts != "" {
		fmt.Printf("Transmitted: %s by %s\n", ts, archive.OriginUser())
	}
	if volser := archive.Volser(); volser != "" {
		fmt.Printf("Volume: %s\n", volser)
	}
	if msg, ok := archive.MessageText(); ok {
		fmt.Printf("Message:\n%s", msg)
	}

	names := archive.ListDatasets()
	if *dataset != "" {
		names = []string{*dataset}
	}
	for _, name := range names {
		info, err := archive.DatasetInfo(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to query dataset: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%s  %s  %s %d  %d bytes\n", name, info.MIME, info.Recfm, info.Lrecl, info.Size)

		members, err := archive.ListMembers(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list members: %v\n", err)
			os.Exit(1)
		}
		for _, mName := range members {
			mi, err := archive.MemberInfo(name, mName)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to query member: %v\n", err)
				os.Exit(1)
			}
			line := fmt.Sprintf("  %-8s %8d bytes  %s", mName, mi.Size, mi.MIME)
			if mi.Alias != "" {
				line += fmt.Sprintf("  -> %s", mi.Alias)
			}
			if mi.Modified != nil {
				line += "  " + mi.Modified.Format("2006-01-02 15:04:05")
			}
			fmt.Println(line)
		}
	}
}
