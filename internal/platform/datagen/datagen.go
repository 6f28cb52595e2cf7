// Package datagen produces synthetic appointment exports for local
// development and demos. Output mimics the quirks of real exports: mixed
// age formats, day-first timestamps, zero payments and a trailing space in
// the practitioner header.
package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
)

// Options controls the generated export.
type Options struct {
	Records int
	Seed    int64
	// End is the latest appointment time; visits spread over the year
	// before it.
	End time.Time
}

// DefaultOptions returns options for a medium-sized demo export.
func DefaultOptions() Options {
	return Options{
		Records: 500,
		Seed:    42,
		End:     time.Date(2025, time.December, 31, 18, 0, 0, 0, time.UTC),
	}
}

var (
	doctors = []string{
		"Dr. Anita Rao", "Dr. Vikram Mehta", "Dr. Sunita Iyer", "Dr. Rajesh Nair",
		"Dr. Priya Sharma", "Dr. Arjun Patel", "Dr. Kavita Menon", "Dr. Sanjay Gupta",
	}
	departments = []string{
		"Cardiology", "Orthopedics", "Pediatrics", "General",
		"Dermatology", "ENT", "Gynecology",
	}
	branches = []string{"City Center Hospital", "North Wing Clinic", "Lakeside Branch"}
	genders  = []string{"Male", "Female"}
	payments = []string{"Cash", "Card", "UPI", "Insurance"}
	statuses = []string{"Closed", "Open", "Cancelled"}

	firstNames = []string{"Asha", "Rahul", "Meera", "Kiran", "Deepa", "Manoj", "Sneha", "Ravi", "Pooja", "Amit"}
	lastNames  = []string{"Kumar", "Singh", "Reddy", "Das", "Joshi", "Bose", "Pillai", "Chopra"}
)

// header matches the export format, including the trailing space after
// "Practitioner" that the normalizer is expected to tolerate.
var header = []string{
	"Patient", "Patient Name", "Practitioner ", "Medical Department", "Company",
	"Gender", "Age", "Appointment Date & Time", "Mode of Payment",
	"Paid Amount", "Base Grand Total", "Advance Paid", "Status",
}

// Generate writes a synthetic export to w. The same seed always yields the
// same file.
func Generate(w io.Writer, opts Options) error {
	if opts.Records <= 0 {
		opts = DefaultOptions()
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// A patient pool smaller than the record count produces repeat visits
	// for the retention insight.
	poolSize := opts.Records/3 + 1
	patients := make([]string, poolSize)
	for i := range patients {
		patients[i] = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("patient-%d-%d", opts.Seed, i))).String()
	}

	for i := 0; i < opts.Records; i++ {
		visit := opts.End.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		// Clamp into clinic hours.
		visit = time.Date(visit.Year(), visit.Month(), visit.Day(), 8+rng.Intn(12), rng.Intn(60), 0, 0, time.UTC)

		row := []string{
			patients[rng.Intn(poolSize)],
			pick(rng, firstNames) + " " + pick(rng, lastNames),
			pick(rng, doctors),
			pick(rng, departments),
			pick(rng, branches),
			pick(rng, genders),
			messyAge(rng),
			visit.Format("02-01-06 15:04"),
			pick(rng, payments),
			amount(rng),
			amount(rng),
			"0",
			pick(rng, statuses),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile generates an export at path.
func WriteFile(path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Generate(f, opts)
}

func pick(rng *rand.Rand, vals []string) string {
	return vals[rng.Intn(len(vals))]
}

// messyAge emits the age formats seen in real exports: plain numbers, year
// and month suffixes, and the occasional blank.
func messyAge(rng *rand.Rand) string {
	switch rng.Intn(10) {
	case 0:
		return fmt.Sprintf("%dY", 1+rng.Intn(80))
	case 1:
		return fmt.Sprintf("%.1fY", float64(rng.Intn(100))/10)
	case 2:
		return fmt.Sprintf("%dM", 1+rng.Intn(11))
	case 3:
		return ""
	default:
		return fmt.Sprintf("%d", 1+rng.Intn(90))
	}
}

// amount is zero for roughly one visit in ten, mirroring free follow-ups.
func amount(rng *rand.Rand) string {
	if rng.Intn(10) == 0 {
		return "0"
	}
	return fmt.Sprintf("%d", 100+rng.Intn(2900))
}
