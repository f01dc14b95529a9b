package extract

import "testing"

func TestSalary_Range(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		min, max int
	}{
		{
			name: "plain range",
			text: "$90,000 - $120,000",
			min:  90000, max: 120000,
		},
		{
			name: "en dash, later equity range ignored",
			text: "The range for this role is $140,000–$350,000 cash, $10,000–$5,000,000 in equity.",
			min:  140000, max: 350000,
		},
		{
			name: "first currency block wins",
			text: "USA-based roles only: between $121,000 USD and $163,000 USD. Canada-based roles only: between $109,000 CAD and $147,000 CAD",
			min:  121000, max: 163000,
		},
		{
			name: "to separator",
			text: "The expected salary range for this position is $102,000 to $131,000 CAD",
			min:  102000, max: 131000,
		},
		{
			name: "parenthesized",
			text: "Current base salary range: ($160,000 - $180,000).",
			min:  160000, max: 180000,
		},
		{
			name: "long preamble",
			text: "California/Colorado/Hawaii/New Jersey/New York/Washington/DC pay range $98,000 - $210,000 USD",
			min:  98000, max: 210000,
		},
		{
			name: "em dash degenerate range",
			text: "Pay Range: $149,500—$149,500 CAD",
			min:  149500, max: 149500,
		},
		{
			name: "wide range",
			text: "The salary range for this role is $1,000 - $100,000,000 USD.",
			min:  1000, max: 100000000,
		},
		{
			name: "k suffix range",
			text: "Comp: $110k - $140k plus equity",
			min:  110000, max: 140000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := Salary(tt.text)
			if min == nil || max == nil {
				t.Fatalf("Salary(%q) = (%v, %v), want (%d, %d)", tt.text, min, max, tt.min, tt.max)
			}
			if *min != tt.min || *max != tt.max {
				t.Errorf("Salary(%q) = (%d, %d), want (%d, %d)", tt.text, *min, *max, tt.min, tt.max)
			}
		})
	}
}

func TestSalary_SingleBoundSetsBoth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"The expected salary for this position is $120,000 USD.", 120000},
		{"$75k+", 75000},
		{"$85,000/yr depending on experience", 85000},
	}

	for _, tt := range tests {
		min, max := Salary(tt.text)
		if min == nil || max == nil {
			t.Fatalf("Salary(%q) returned nil bounds", tt.text)
		}
		if *min != tt.want || *max != tt.want {
			t.Errorf("Salary(%q) = (%d, %d), want (%d, %d)", tt.text, *min, *max, tt.want, tt.want)
		}
	}
}

func TestSalary_NoAmount(t *testing.T) {
	for _, text := range []string{
		"This is an equity-only position.",
		"",
		"Competitive compensation and benefits.",
	} {
		min, max := Salary(text)
		if min != nil || max != nil {
			t.Errorf("Salary(%q) = (%v, %v), want (nil, nil)", text, min, max)
		}
	}
}

func TestSalary_DistantAmountsNotARange(t *testing.T) {
	text := "We offer a $500 learning stipend. After a long paragraph about benefits and culture, the base salary is $130,000."
	min, max := Salary(text)
	if min == nil || max == nil {
		t.Fatal("expected bounds, got nil")
	}
	// Amounts too far apart collapse to the first as a single bound.
	if *min != 500 || *max != 500 {
		t.Errorf("got (%d, %d), want (500, 500)", *min, *max)
	}
}
