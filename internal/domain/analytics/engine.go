package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// insightBuilder computes one aggregation over the dataset. ok=false means
// the builder's precondition is unmet (e.g. no parseable datetimes) and the
// insight is omitted from the output entirely.
type insightBuilder func(d *Dataset) (Insight, bool)

// Engine runs the fixed, ordered catalog of aggregations. Every builder is
// a pure function of the dataset; output order and tie-breaks are
// deterministic, so identical input yields byte-identical insights.
type Engine struct {
	builders []insightBuilder
}

// NewEngine returns an engine with the standard 25-insight catalog.
func NewEngine() *Engine {
	return &Engine{builders: []insightBuilder{
		topDoctors,
		visitsByDepartment,
		revenueByDepartment,
		topDoctorsByAvgRevenue,
		ageGroupDistribution,
		genderDistribution,
		visitsByBranch,
		revenueByBranch,
		topPaymentModes,
		monthlyVisitTrend,
		weekdayDistribution,
		statusDistribution,
		revenueDistribution,
		zeroPaymentByDepartment,
		patientRetention,
		peakVisitingHours,
		avgAgeByDepartment,
		genderInTopDepartment,
		topDoctorsInTopDepartment,
		monthlyRevenueTrend,
		doctorWorkload,
		departmentActivityByBranch,
		pediatricVsAdult,
		avgPatientsPerDoctor,
		uniquePatientsByBranch,
	}}
}

// Run evaluates the catalog in order, skipping builders whose preconditions
// are unmet. It never fails: degenerate input shrinks the list.
func (e *Engine) Run(d *Dataset) []Insight {
	out := make([]Insight, 0, len(e.builders))
	for _, b := range e.builders {
		if ins, ok := b(d); ok {
			out = append(out, ins)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Aggregation helpers
// ---------------------------------------------------------------------------

type labelValue struct {
	Label string
	Value float64
}

// sortDesc orders pairs descending by value. Ties break ascending by label,
// a deterministic rule independent of input row order.
func sortDesc(pairs []labelValue) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Value != pairs[j].Value {
			return pairs[i].Value > pairs[j].Value
		}
		return pairs[i].Label < pairs[j].Label
	})
}

// sortAsc orders pairs ascending by value, ties ascending by label.
func sortAsc(pairs []labelValue) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Value != pairs[j].Value {
			return pairs[i].Value < pairs[j].Value
		}
		return pairs[i].Label < pairs[j].Label
	})
}

func countBy(records []Record, key func(Record) string) map[string]float64 {
	counts := make(map[string]float64)
	for _, r := range records {
		counts[key(r)]++
	}
	return counts
}

func sumBy(records []Record, key func(Record) string, val func(Record) float64) map[string]float64 {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[key(r)] += val(r)
	}
	return sums
}

func meanBy(records []Record, key func(Record) string, val func(Record) float64) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]float64)
	for _, r := range records {
		sums[key(r)] += val(r)
		counts[key(r)]++
	}
	means := make(map[string]float64, len(sums))
	for k, s := range sums {
		means[k] = s / counts[k]
	}
	return means
}

func toPairs(m map[string]float64) []labelValue {
	pairs := make([]labelValue, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, labelValue{Label: k, Value: v})
	}
	return pairs
}

func chartData(pairs []labelValue) ChartData {
	labels := make([]string, len(pairs))
	values := make([]float64, len(pairs))
	for i, p := range pairs {
		labels[i] = p.Label
		values[i] = p.Value
	}
	return ChartData{Labels: labels, Values: values}
}

func head(pairs []labelValue, n int) []labelValue {
	if n > 0 && len(pairs) > n {
		return pairs[:n]
	}
	return pairs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// topDepartment returns the department with the highest visit count, ties
// broken by ascending department name. ok=false on an empty dataset.
func topDepartment(d *Dataset) (string, bool) {
	if len(d.Records) == 0 {
		return "", false
	}
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.Department }))
	sortDesc(pairs)
	return pairs[0].Label, true
}

// monthSeries buckets records with a parsed visit time by calendar month
// between the earliest and latest visit. Months with no visits appear with
// value 0 so the trend line stays continuous.
func monthSeries(records []Record, val func(Record) float64) ([]labelValue, bool) {
	byMonth := make(map[string]float64)
	var min, max time.Time
	seen := false
	for _, r := range records {
		if r.VisitTime == nil {
			continue
		}
		t := *r.VisitTime
		byMonth[t.Format("2006-01")] += val(r)
		if !seen || t.Before(min) {
			min = t
		}
		if !seen || t.After(max) {
			max = t
		}
		seen = true
	}
	if !seen {
		return nil, false
	}
	var out []labelValue
	cur := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(max.Year(), max.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		label := cur.Format("2006-01")
		out = append(out, labelValue{Label: label, Value: byMonth[label]})
		cur = cur.AddDate(0, 1, 0)
	}
	return out, true
}

// ---------------------------------------------------------------------------
// Doctor performance
// ---------------------------------------------------------------------------

func topDoctors(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.DoctorName }))
	sortDesc(pairs)
	return Insight{
		Title:       "Top 5 Busiest Doctors",
		Description: "Doctors with the highest patient volume.",
		ChartType:   ChartBar,
		ChartData:   chartData(head(pairs, 5)),
	}, true
}

func visitsByDepartment(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.Department }))
	sortDesc(pairs)
	return Insight{
		Title:       "Patient Visits by Department",
		Description: "Distribution of cases across different medical departments.",
		ChartType:   ChartPie,
		ChartData:   chartData(pairs),
	}, true
}

func revenueByDepartment(d *Dataset) (Insight, bool) {
	pairs := toPairs(sumBy(d.Records,
		func(r Record) string { return r.Department },
		func(r Record) float64 { return r.Revenue }))
	sortDesc(pairs)
	return Insight{
		Title:       "Revenue by Department",
		Description: "Total revenue generated by each department.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func topDoctorsByAvgRevenue(d *Dataset) (Insight, bool) {
	pairs := toPairs(meanBy(d.Records,
		func(r Record) string { return r.DoctorName },
		func(r Record) float64 { return r.Revenue }))
	sortDesc(pairs)
	return Insight{
		Title:       "Top 10 Doctors by Avg Revenue",
		Description: "Doctors with the highest average revenue per visit.",
		ChartType:   ChartBar,
		ChartData:   chartData(head(pairs, 10)),
	}, true
}

// ---------------------------------------------------------------------------
// Patient demographics
// ---------------------------------------------------------------------------

func ageGroupDistribution(d *Dataset) (Insight, bool) {
	counts := countBy(d.Records, func(r Record) string { return r.AgeGroup })
	pairs := make([]labelValue, len(AgeGroupLabels))
	for i, label := range AgeGroupLabels {
		pairs[i] = labelValue{Label: label, Value: counts[label]}
	}
	return Insight{
		Title:       "Patient Age Group Distribution",
		Description: "Demographic breakdown of patients by age groups.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func genderDistribution(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.Gender }))
	sortDesc(pairs)
	return Insight{
		Title:       "Patient Gender Distribution",
		Description: "Split between Male and Female patients.",
		ChartType:   ChartPie,
		ChartData:   chartData(pairs),
	}, true
}

func visitsByBranch(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.Branch }))
	sortDesc(pairs)
	return Insight{
		Title:       "Visits by Branch (Location)",
		Description: "Patient volume across different hospital branches.",
		ChartType:   ChartBar,
		ChartData:   chartData(head(pairs, 10)),
	}, true
}

// ---------------------------------------------------------------------------
// Clinical and operational trends
// ---------------------------------------------------------------------------

func revenueByBranch(d *Dataset) (Insight, bool) {
	pairs := toPairs(sumBy(d.Records,
		func(r Record) string { return r.Branch },
		func(r Record) float64 { return r.Revenue }))
	sortDesc(pairs)
	return Insight{
		Title:       "Revenue by Branch",
		Description: "Total revenue generated by each branch.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func topPaymentModes(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.PaymentMode }))
	sortDesc(pairs)
	return Insight{
		Title:       "Top Payment Modes",
		Description: "Most common methods of payment.",
		ChartType:   ChartBar,
		ChartData:   chartData(head(pairs, 5)),
	}, true
}

func monthlyVisitTrend(d *Dataset) (Insight, bool) {
	series, ok := monthSeries(d.Records, func(Record) float64 { return 1 })
	if !ok {
		return Insight{}, false
	}
	return Insight{
		Title:       "Monthly Patient Visits Trend",
		Description: "Trend of patient visits over time.",
		ChartType:   ChartLine,
		ChartData:   chartData(series),
	}, true
}

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func weekdayDistribution(d *Dataset) (Insight, bool) {
	if !d.HasDatetime {
		return Insight{}, false
	}
	counts := make(map[string]float64)
	for _, r := range d.Records {
		if r.VisitTime != nil {
			counts[r.Weekday]++
		}
	}
	// Reindexed Monday through Sunday; quiet days show as explicit zeros.
	pairs := make([]labelValue, len(weekdayOrder))
	for i, day := range weekdayOrder {
		pairs[i] = labelValue{Label: day, Value: counts[day]}
	}
	return Insight{
		Title:       "Visits by Day of Week",
		Description: "Patient volume distribution across the week.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func statusDistribution(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.Status }))
	sortDesc(pairs)
	return Insight{
		Title:       "Appointment Status Distribution",
		Description: "Breakdown of appointment statuses (e.g., Open, Closed).",
		ChartType:   ChartBar,
		ChartData:   chartData(head(pairs, 5)),
	}, true
}

func revenueDistribution(d *Dataset) (Insight, bool) {
	counts := countBy(d.Records, func(r Record) string { return r.RevenueGroup })
	pairs := make([]labelValue, len(RevenueGroupLabels))
	for i, label := range RevenueGroupLabels {
		pairs[i] = labelValue{Label: label, Value: counts[label]}
	}
	return Insight{
		Title:       "Revenue per Visit Distribution",
		Description: "Distribution of revenue amounts collected per visit.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func zeroPaymentByDepartment(d *Dataset) (Insight, bool) {
	counts := make(map[string]float64)
	for _, r := range d.Records {
		if r.Revenue == 0 {
			counts[r.Department]++
		}
	}
	pairs := toPairs(counts)
	sortDesc(pairs)
	return Insight{
		Title:       "Zero-Payment Visits by Department",
		Description: "Departments with the most free or unpaid visits.",
		ChartType:   ChartBar,
		ChartData:   chartData(head(pairs, 10)),
	}, true
}

func patientRetention(d *Dataset) (Insight, bool) {
	if !d.HasPatientID {
		return Insight{}, false
	}
	visits := make(map[string]int)
	for _, r := range d.Records {
		if r.PatientID != nil {
			visits[*r.PatientID]++
		}
	}
	var repeat, single float64
	for _, n := range visits {
		if n > 1 {
			repeat++
		} else {
			single++
		}
	}
	return Insight{
		Title:       "Patient Retention Rate",
		Description: "Proportion of patients with repeat visits vs single visits.",
		ChartType:   ChartPie,
		ChartData: ChartData{
			Labels: []string{"Repeat Patients", "One-time Patients"},
			Values: []float64{repeat, single},
		},
	}, true
}

func peakVisitingHours(d *Dataset) (Insight, bool) {
	if !d.HasDatetime {
		return Insight{}, false
	}
	counts := make(map[int]float64)
	for _, r := range d.Records {
		if r.VisitTime != nil {
			counts[r.Hour]++
		}
	}
	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	pairs := make([]labelValue, len(hours))
	for i, h := range hours {
		pairs[i] = labelValue{Label: fmt.Sprintf("%02d:00", h), Value: counts[h]}
	}
	return Insight{
		Title:       "Peak Visiting Hours",
		Description: "Patient traffic throughout the day.",
		ChartType:   ChartLine,
		ChartData:   chartData(pairs),
	}, true
}

func avgAgeByDepartment(d *Dataset) (Insight, bool) {
	pairs := toPairs(meanBy(d.Records,
		func(r Record) string { return r.Department },
		func(r Record) float64 { return r.Age }))
	sortAsc(pairs)
	for i := range pairs {
		pairs[i].Value = round1(pairs[i].Value)
	}
	return Insight{
		Title:       "Average Patient Age by Department",
		Description: "Average age of patients visiting each department.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func genderInTopDepartment(d *Dataset) (Insight, bool) {
	dept, ok := topDepartment(d)
	if !ok {
		return Insight{}, false
	}
	counts := make(map[string]float64)
	for _, r := range d.Records {
		if r.Department == dept {
			counts[r.Gender]++
		}
	}
	pairs := toPairs(counts)
	sortDesc(pairs)
	return Insight{
		Title:       fmt.Sprintf("Gender Distribution in %s", dept),
		Description: fmt.Sprintf("Gender breakdown for the busiest department (%s).", dept),
		ChartType:   ChartPie,
		ChartData:   chartData(pairs),
	}, true
}

func topDoctorsInTopDepartment(d *Dataset) (Insight, bool) {
	dept, ok := topDepartment(d)
	if !ok {
		return Insight{}, false
	}
	counts := make(map[string]float64)
	for _, r := range d.Records {
		if r.Department == dept {
			counts[r.DoctorName]++
		}
	}
	pairs := toPairs(counts)
	sortDesc(pairs)
	return Insight{
		Title:       fmt.Sprintf("Top Doctors in %s", dept),
		Description: fmt.Sprintf("Busiest doctors in %s.", dept),
		ChartType:   ChartBar,
		ChartData:   chartData(head(pairs, 5)),
	}, true
}

func monthlyRevenueTrend(d *Dataset) (Insight, bool) {
	series, ok := monthSeries(d.Records, func(r Record) float64 { return r.Revenue })
	if !ok {
		return Insight{}, false
	}
	return Insight{
		Title:       "Monthly Revenue Trend",
		Description: "Total revenue collected over time.",
		ChartType:   ChartLine,
		ChartData:   chartData(series),
	}, true
}

// ---------------------------------------------------------------------------
// Workload and cross-cuts
// ---------------------------------------------------------------------------

func doctorWorkload(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.DoctorName }))
	sortDesc(pairs)
	return Insight{
		Title:       "Doctor Workload Distribution",
		Description: "Distribution of patient load across all doctors.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func departmentActivityByBranch(d *Dataset) (Insight, bool) {
	pairs := toPairs(countBy(d.Records, func(r Record) string { return r.Department }))
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Label < pairs[j].Label })
	return Insight{
		Title:       "Department Activity by Branch",
		Description: "Cross-tabulation of departments and branches.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}

func pediatricVsAdult(d *Dataset) (Insight, bool) {
	var pediatric, adult float64
	for _, r := range d.Records {
		if r.Age < 18 {
			pediatric++
		} else {
			adult++
		}
	}
	return Insight{
		Title:       "Pediatric vs Adult Patients",
		Description: "Ratio of patients under 18 vs adults.",
		ChartType:   ChartPie,
		ChartData: ChartData{
			Labels: []string{"Pediatric (<18)", "Adult (18+)"},
			Values: []float64{pediatric, adult},
		},
	}, true
}

func avgPatientsPerDoctor(d *Dataset) (Insight, bool) {
	doctors := make(map[string]struct{})
	for _, r := range d.Records {
		doctors[r.DoctorName] = struct{}{}
	}
	avg := 0.0
	if len(doctors) > 0 {
		avg = round1(float64(len(d.Records)) / float64(len(doctors)))
	}
	return Insight{
		Title:       "Average Patients per Doctor",
		Description: fmt.Sprintf("Each doctor sees approximately %.1f patients on average.", avg),
		ChartType:   ChartBar,
		ChartData: ChartData{
			Labels: []string{"Avg Patients/Doctor"},
			Values: []float64{avg},
		},
	}, true
}

func uniquePatientsByBranch(d *Dataset) (Insight, bool) {
	if !d.HasPatientID {
		return Insight{}, false
	}
	perBranch := make(map[string]map[string]struct{})
	for _, r := range d.Records {
		if r.PatientID == nil {
			continue
		}
		if perBranch[r.Branch] == nil {
			perBranch[r.Branch] = make(map[string]struct{})
		}
		perBranch[r.Branch][*r.PatientID] = struct{}{}
	}
	counts := make(map[string]float64, len(perBranch))
	for branch, ids := range perBranch {
		counts[branch] = float64(len(ids))
	}
	pairs := toPairs(counts)
	sortDesc(pairs)
	return Insight{
		Title:       "Unique Patients by Branch",
		Description: "Number of unique patients visiting each branch.",
		ChartType:   ChartBar,
		ChartData:   chartData(pairs),
	}, true
}
