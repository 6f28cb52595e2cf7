package analytics

import "testing"

func TestAgeGroupFor(t *testing.T) {
	cases := []struct {
		age  float64
		want string
	}{
		{0, "0-18"},
		{0.5, "0-18"},
		{17.9, "0-18"},
		{18, "19-30"},
		{29.9, "19-30"},
		{30, "31-50"},
		{50, "51-70"},
		{69.9, "51-70"},
		{70, "70+"},
		{120, "70+"},
		{-1, ""},
	}
	for _, tc := range cases {
		if got := AgeGroupFor(tc.age); got != tc.want {
			t.Errorf("AgeGroupFor(%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func TestRevenueGroupFor(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "0-500"},
		{499.99, "0-500"},
		{500, "501-1000"},
		{1000, "1001-2000"},
		{2000, "2001-5000"},
		{4999.99, "2001-5000"},
		{5000, "5000+"},
		{12000, "5000+"},
		{-10, ""},
	}
	for _, tc := range cases {
		if got := RevenueGroupFor(tc.amount); got != tc.want {
			t.Errorf("RevenueGroupFor(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
