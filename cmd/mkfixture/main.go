// mkfixture writes a small messy case-log CSV for manual testing. The rows
// exercise the common cleanup paths: abbreviated procedures, mixed date
// formats, unprefixed patient ids, and terse surgeon names.
// Usage: go run ./cmd/mkfixture --out testdata/messy-cases.csv --rows 50
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
)

var procedures = []string{
	"LAP CHOLE", "LAP APPY", "TKA - LT", "TKA - RT", "THA",
	"CABG", "EXP LAP", "TURP", "ARTHRO RTC REP", "C-SECTION",
	"Open reduction internal fixation, right femur",
}

var dates = []string{
	"5/12/23", "May 30", "2023-06-14", "7-4-23", "June 2, 2023",
	"12/1", "01/15/2023", "8.22.23",
}

var patients = []string{
	"12345", "PT99881", "RHC-4412", "MRN 7731", "p-0042", "88120",
}

var hospitals = []string{
	"UNIV-HOSP", "ST MARY MEM", "SPORTS MED", "county GENERAL", "URO INST",
}

var surgeons = []string{
	"SMITH.J", "dr. garcia", "Nguyen.Amy", "JOHNSON", "PATEL.R",
}

var codes = []string{"", "", "", "27447", "47562", ""}

func main() {
	out := flag.String("out", "testdata/messy-cases.csv", "output csv")
	rows := flag.Int("rows", 50, "rows to generate")
	seed := flag.Int64("seed", 1, "rng seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	// Deliberately off-schema header names the mapper must recognize.
	_ = w.Write([]string{"Case Description", "DOS", "MRN", "Facility", "Surgeon", "CPT", "Notes"})
	for i := 0; i < *rows; i++ {
		_ = w.Write([]string{
			pick(rng, procedures),
			pick(rng, dates),
			pick(rng, patients),
			pick(rng, hospitals),
			pick(rng, surgeons),
			pick(rng, codes),
			fmt.Sprintf("case %d", i+1),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", *rows, *out)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
