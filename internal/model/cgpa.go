package model

// CGPACourse is one graded course row on the CGPA calculator.
type CGPACourse struct {
	Code  string `json:"code" binding:"required,max=20"`
	Unit  int    `json:"unit" binding:"required,min=1,max=10"`
	Grade string `json:"grade" binding:"required,oneof=A B C D E F"`
}

// CGPASemester groups course rows for one semester.
type CGPASemester struct {
	Courses []CGPACourse `json:"courses" binding:"required,min=1,dive"`
}

// CGPARequest is the payload for the CGPA computation endpoint.
type CGPARequest struct {
	Semesters []CGPASemester `json:"semesters" binding:"required,min=1,dive"`
}

// SemesterGPA is the per-semester outcome.
type SemesterGPA struct {
	GPA        float64 `json:"gpa"`
	TotalUnits int     `json:"total_units"`
}

// CGPAResponse is the full computation outcome on the 5-point scale.
type CGPAResponse struct {
	Semesters  []SemesterGPA `json:"semesters"`
	CGPA       float64       `json:"cgpa"`
	TotalUnits int           `json:"total_units"`
	Class      string        `json:"class"`
}
