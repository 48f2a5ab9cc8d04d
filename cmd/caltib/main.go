// Command caltib is a thin CLI dispatcher over the calendar API: it
// resolves a single Gregorian date to its Tibetan label under a named
// engine (spec.md §6). Other forms of lookup are left to the HTTP server
// and the programmatic API.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.caltib.dev/caltib/internal/api"
	"go.caltib.dev/caltib/internal/engine"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "day":
		runDay(os.Args[2:])
	case "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "caltib: unknown subcommand %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func runDay(args []string) {
	fs := flag.NewFlagSet("day", flag.ExitOnError)
	engineName := fs.String("engine", "", "registered calendar engine name (required)")
	debug := fs.Bool("debug", false, "print the Explain debug dump instead of the plain result")
	var attrs stringList
	fs.Var(&attrs, "attr", "print only this attribute (repeatable)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "caltib day: expected exactly one YYYY-MM-DD date argument")
		os.Exit(2)
	}
	if *engineName == "" {
		fmt.Fprintln(os.Stderr, "caltib day: --engine is required")
		os.Exit(2)
	}

	t, err := time.Parse("2006-01-02", fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "caltib day: invalid date %q: %v\n", fs.Arg(0), err)
		os.Exit(1)
	}
	g := engine.GregorianDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}

	a := api.New()

	if *debug {
		explanation, err := a.Explain(*engineName, g)
		if err != nil {
			fmt.Fprintf(os.Stderr, "caltib day: %v\n", err)
			os.Exit(1)
		}
		printExplanation(explanation)
		return
	}

	info, err := a.DayInfo(*engineName, g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "caltib day: %v\n", err)
		os.Exit(1)
	}

	if len(attrs) > 0 {
		for _, name := range attrs {
			val, err := a.Attr(*engineName, name, info)
			if err != nil {
				fmt.Fprintf(os.Stderr, "caltib day: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("%s=%s\n", name, val)
		}
		return
	}

	printDayInfo(info)
}

func printDayInfo(info engine.DayInfo) {
	leap := ""
	if info.Tibetan.IsLeapMonth {
		leap = " (leap)"
	}
	occ := ""
	if info.Tibetan.Occ > 1 {
		occ = fmt.Sprintf(" occ=%d", info.Tibetan.Occ)
	}
	fmt.Printf("%d-%d%s-%d%s %s\n",
		info.Tibetan.Year, info.Tibetan.MonthNo, leap, info.Tibetan.Tithi, occ, info.Status)
}

func printExplanation(e api.Explanation) {
	printDayInfo(e.Info)
	fmt.Printf("delta_k=%d lunation_day_index=%d true_date_j2000=%s\n",
		e.DeltaK, e.LunationDayIndex, e.TrueDate.RatString())
}

func printUsage() {
	fmt.Println("caltib - Tibetan lunisolar calendar conversions")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  caltib day --engine NAME [--debug] [--attr NAME ...] YYYY-MM-DD")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  --engine NAME   registered calendar engine (see the HTTP /v1/engines list)")
	fmt.Println("  --debug         print intermediate resolution coordinates")
	fmt.Println("  --attr NAME     print only the named attribute (repeatable)")
}

// stringList is a flag.Value that accumulates repeated -attr flags.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
