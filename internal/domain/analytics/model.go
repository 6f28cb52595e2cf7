package analytics

import "time"

// ChartType tells the dashboard how to render an insight. It is a fixed
// property of each aggregation, never inferred from the data.
type ChartType string

const (
	ChartBar   ChartType = "bar"
	ChartPie   ChartType = "pie"
	ChartLine  ChartType = "line"
	ChartTable ChartType = "table"
)

// RawRecord is one row of the source file: trimmed column name → cell value.
type RawRecord map[string]string

// Record is a cleaned appointment visit. The seven categorical fields are
// never empty; numeric fields are never NaN (zero or a valid number).
type Record struct {
	DoctorName   string     `json:"doctor_name"`
	Department   string     `json:"department"`
	Branch       string     `json:"branch"`
	Gender       string     `json:"gender"`
	PaymentMode  string     `json:"payment_mode"`
	Status       string     `json:"status"`
	PatientName  string     `json:"patient_name"`
	PatientID    *string    `json:"patient_id,omitempty"`
	Age          float64    `json:"age"`
	DOB          *time.Time `json:"dob,omitempty"`
	VisitTime    *time.Time `json:"visit_datetime,omitempty"`
	Revenue      float64    `json:"revenue"`
	BaseTotal    float64    `json:"base_total"`
	AdvancePaid  float64    `json:"advance_paid"`
	AgeGroup     string     `json:"age_group"`
	RevenueGroup string     `json:"revenue_group"`
	Weekday      string     `json:"day_of_week,omitempty"`
	Hour         int        `json:"hour"`
}

// Dataset is the normalized table handed to the insight engine, plus the
// column-presence facts some aggregations depend on.
type Dataset struct {
	Records      []Record
	HasPatientID bool
	HasDatetime  bool
}

// Insight is one packaged aggregation result ready for charting.
type Insight struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ChartType   ChartType `json:"chart_type"`
	ChartData   ChartData `json:"chart_data"`
}

// ChartData holds parallel label/value sequences; len(Labels) == len(Values).
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// AgeGroupLabels are the age buckets in their fixed ascending order.
var AgeGroupLabels = []string{"0-18", "19-30", "31-50", "51-70", "70+"}

// RevenueGroupLabels are the revenue buckets in their fixed ascending order.
var RevenueGroupLabels = []string{"0-500", "501-1000", "1001-2000", "2001-5000", "5000+"}

// AgeGroupFor buckets an age into half-open ranges [0,18), [18,30), [30,50),
// [50,70), [70,∞), left edges inclusive. Negative ages fall outside every
// bucket and return "".
func AgeGroupFor(age float64) string {
	switch {
	case age < 0:
		return ""
	case age < 18:
		return AgeGroupLabels[0]
	case age < 30:
		return AgeGroupLabels[1]
	case age < 50:
		return AgeGroupLabels[2]
	case age < 70:
		return AgeGroupLabels[3]
	default:
		return AgeGroupLabels[4]
	}
}

// RevenueGroupFor buckets a revenue amount into [0,500), [500,1000),
// [1000,2000), [2000,5000), [5000,∞). Negative amounts return "".
func RevenueGroupFor(amount float64) string {
	switch {
	case amount < 0:
		return ""
	case amount < 500:
		return RevenueGroupLabels[0]
	case amount < 1000:
		return RevenueGroupLabels[1]
	case amount < 2000:
		return RevenueGroupLabels[2]
	case amount < 5000:
		return RevenueGroupLabels[3]
	default:
		return RevenueGroupLabels[4]
	}
}
