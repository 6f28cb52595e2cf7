package analytics

import (
	"sort"
	"strings"
)

// Sentinel defaults for the categorical fields.
const (
	DefaultDoctor  = "Unknown Doctor"
	DefaultDept    = "General"
	DefaultBranch  = "Unknown Branch"
	DefaultUnknown = "Unknown"
)

// fieldBinding ties one logical field to the raw column names accepted for
// it. Each binding is applied independently: a row missing only the
// department column still resolves every other field normally.
type fieldBinding struct {
	aliases []string
	def     string
	assign  func(r *Record, v string)
}

// Normalizer turns raw rows into the canonical Record set. The alias table
// is the contract an external loader must honor; columns matching no alias
// are ignored.
type Normalizer struct {
	categorical []fieldBinding
	patientID   []string
	age         []string
	visit       []string
	dob         []string
	revenue     []string
	baseTotal   []string
	advance     []string
}

// NewNormalizer builds a Normalizer with the standard appointment-export
// alias table.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		categorical: []fieldBinding{
			{[]string{"Practitioner", "Doctor"}, DefaultDoctor, func(r *Record, v string) { r.DoctorName = v }},
			{[]string{"Medical Department", "Department"}, DefaultDept, func(r *Record, v string) { r.Department = v }},
			{[]string{"Company", "Branch"}, DefaultBranch, func(r *Record, v string) { r.Branch = v }},
			{[]string{"Gender"}, DefaultUnknown, func(r *Record, v string) { r.Gender = v }},
			{[]string{"Mode of Payment"}, DefaultUnknown, func(r *Record, v string) { r.PaymentMode = v }},
			{[]string{"Status"}, DefaultUnknown, func(r *Record, v string) { r.Status = v }},
			{[]string{"Patient Name"}, DefaultUnknown, func(r *Record, v string) { r.PatientName = v }},
		},
		patientID: []string{"Patient"},
		age:       []string{"Age"},
		visit:     []string{"Appointment Date & Time"},
		dob:       []string{"Date Of Birth"},
		revenue:   []string{"Paid Amount"},
		baseTotal: []string{"Base Grand Total"},
		advance:   []string{"Advance Paid"},
	}
}

// Normalize cleans every raw row. Individual malformed fields degrade to
// their documented defaults and never fail the call. Ages that do not parse
// receive the median of the ages that did, or 0 when none did.
func (n *Normalizer) Normalize(rows []RawRecord) *Dataset {
	ds := &Dataset{Records: make([]Record, 0, len(rows))}

	var parsedAges []float64
	ageOK := make([]bool, len(rows))

	for i, row := range rows {
		var rec Record

		for _, b := range n.categorical {
			v, ok := lookup(row, b.aliases)
			if !ok || v == "" {
				v = b.def
			}
			b.assign(&rec, v)
		}

		if v, ok := lookup(row, n.patientID); ok {
			ds.HasPatientID = true
			if v != "" {
				id := v
				rec.PatientID = &id
			}
		}

		if v, ok := lookup(row, n.age); ok {
			if age, okAge := ParseAge(v); okAge {
				rec.Age = age
				ageOK[i] = true
				parsedAges = append(parsedAges, age)
			}
		}

		if v, ok := lookup(row, n.visit); ok {
			if t, okT := ParseDateTime(v); okT {
				vt := t
				rec.VisitTime = &vt
				rec.Weekday = vt.Weekday().String()
				rec.Hour = vt.Hour()
				ds.HasDatetime = true
			}
		}
		if v, ok := lookup(row, n.dob); ok {
			if t, okT := ParseDateTime(v); okT {
				d := t
				rec.DOB = &d
			}
		}

		if v, ok := lookup(row, n.revenue); ok {
			rec.Revenue = ParseAmount(v)
		}
		if v, ok := lookup(row, n.baseTotal); ok {
			rec.BaseTotal = ParseAmount(v)
		}
		if v, ok := lookup(row, n.advance); ok {
			rec.AdvancePaid = ParseAmount(v)
		}

		ds.Records = append(ds.Records, rec)
	}

	fill, _ := median(parsedAges)
	for i := range ds.Records {
		if !ageOK[i] {
			ds.Records[i].Age = fill
		}
		ds.Records[i].AgeGroup = AgeGroupFor(ds.Records[i].Age)
		ds.Records[i].RevenueGroup = RevenueGroupFor(ds.Records[i].Revenue)
	}

	return ds
}

// lookup resolves a raw value through the alias list, trimming cell
// whitespace. Returns ok=true when any aliased column exists in the row,
// even with an empty cell, so callers can distinguish a missing column from
// a missing value.
func lookup(row RawRecord, aliases []string) (string, bool) {
	for _, a := range aliases {
		if v, ok := row[a]; ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// median returns the middle value of vals (mean of the two middle values for
// even counts). ok=false when vals is empty, in which case the result is 0.
func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}
