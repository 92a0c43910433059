package service

import (
	"math"

	"github.com/unitechhub/examhub/internal/model"
)

// gradePoints maps letter grades on the 5-point scale.
var gradePoints = map[string]float64{
	"A": 5, "B": 4, "C": 3, "D": 2, "E": 1, "F": 0,
}

// CGPAService computes semester GPAs and the cumulative average. Pure
// arithmetic, no storage.
type CGPAService struct{}

// NewCGPAService creates a new CGPAService.
func NewCGPAService() *CGPAService {
	return &CGPAService{}
}

// Compute returns per-semester GPAs and the overall CGPA with its
// degree class. A semester with zero total units scores 0.
func (s *CGPAService) Compute(req *model.CGPARequest) *model.CGPAResponse {
	semesters := make([]model.SemesterGPA, 0, len(req.Semesters))

	var totalPoints, totalUnits float64
	for _, sem := range req.Semesters {
		var points, units float64
		for _, c := range sem.Courses {
			points += float64(c.Unit) * gradePoints[c.Grade]
			units += float64(c.Unit)
		}

		gpa := 0.0
		if units > 0 {
			gpa = round2(points / units)
		}
		semesters = append(semesters, model.SemesterGPA{
			GPA:        gpa,
			TotalUnits: int(units),
		})

		totalPoints += points
		totalUnits += units
	}

	cgpa := 0.0
	if totalUnits > 0 {
		cgpa = round2(totalPoints / totalUnits)
	}

	return &model.CGPAResponse{
		Semesters:  semesters,
		CGPA:       cgpa,
		TotalUnits: int(totalUnits),
		Class:      Classify(cgpa),
	}
}

// Classify maps a CGPA on the 5-point scale to its degree class.
func Classify(cgpa float64) string {
	switch {
	case cgpa >= 4.5:
		return "First Class"
	case cgpa >= 3.5:
		return "Second Class Upper"
	case cgpa >= 2.4:
		return "Second Class Lower"
	case cgpa >= 1.5:
		return "Third Class"
	default:
		return "Pass"
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
