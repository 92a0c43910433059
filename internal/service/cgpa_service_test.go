package service

import (
	"testing"

	"github.com/unitechhub/examhub/internal/model"
)

func TestCGPACompute(t *testing.T) {
	svc := NewCGPAService()

	req := &model.CGPARequest{
		Semesters: []model.CGPASemester{
			{Courses: []model.CGPACourse{
				{Code: "MTH101", Unit: 3, Grade: "A"},
				{Code: "PHY101", Unit: 2, Grade: "B"},
			}},
			{Courses: []model.CGPACourse{
				{Code: "MTH102", Unit: 4, Grade: "C"},
			}},
		},
	}

	resp := svc.Compute(req)

	if len(resp.Semesters) != 2 {
		t.Fatalf("semesters = %d, want 2", len(resp.Semesters))
	}
	// (3*5 + 2*4) / 5 = 4.6
	if resp.Semesters[0].GPA != 4.6 {
		t.Errorf("semester 1 GPA = %v, want 4.6", resp.Semesters[0].GPA)
	}
	if resp.Semesters[1].GPA != 3.0 {
		t.Errorf("semester 2 GPA = %v, want 3.0", resp.Semesters[1].GPA)
	}
	// (23 + 12) / 9 = 3.888... -> 3.89
	if resp.CGPA != 3.89 {
		t.Errorf("CGPA = %v, want 3.89", resp.CGPA)
	}
	if resp.TotalUnits != 9 {
		t.Errorf("total units = %d, want 9", resp.TotalUnits)
	}
	if resp.Class != "Second Class Upper" {
		t.Errorf("class = %q, want Second Class Upper", resp.Class)
	}
}

func TestCGPAComputeSingleCourse(t *testing.T) {
	svc := NewCGPAService()

	resp := svc.Compute(&model.CGPARequest{
		Semesters: []model.CGPASemester{
			{Courses: []model.CGPACourse{{Code: "CSC101", Unit: 3, Grade: "F"}}},
		},
	})

	if resp.CGPA != 0 {
		t.Errorf("CGPA = %v, want 0", resp.CGPA)
	}
	if resp.Class != "Pass" {
		t.Errorf("class = %q, want Pass", resp.Class)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		cgpa float64
		want string
	}{
		{5.0, "First Class"},
		{4.5, "First Class"},
		{4.49, "Second Class Upper"},
		{3.5, "Second Class Upper"},
		{3.49, "Second Class Lower"},
		{2.4, "Second Class Lower"},
		{2.39, "Third Class"},
		{1.5, "Third Class"},
		{1.49, "Pass"},
		{0, "Pass"},
	}
	for _, tt := range tests {
		if got := Classify(tt.cgpa); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.cgpa, got, tt.want)
		}
	}
}
