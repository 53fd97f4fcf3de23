package models

import (
	"fmt"
	"strings"
)

// Grade is a letter grade from the closed institutional grading scale.
type Grade string

// Letter grades in descending order of grade points. Incomplete and
// Withdrawal carry zero points and are excluded from GPA computation.
const (
	GradeAPlus      Grade = "A+"
	GradeA          Grade = "A"
	GradeAMinus     Grade = "A-"
	GradeBPlus      Grade = "B+"
	GradeB          Grade = "B"
	GradeBMinus     Grade = "B-"
	GradeCPlus      Grade = "C+"
	GradeC          Grade = "C"
	GradeCMinus     Grade = "C-"
	GradeDPlus      Grade = "D+"
	GradeD          Grade = "D"
	GradeF          Grade = "F"
	GradeIncomplete Grade = "I"
	GradeWithdrawal Grade = "W"
)

var gradePoints = map[Grade]float64{
	GradeAPlus:      4.0,
	GradeA:          4.0,
	GradeAMinus:     3.7,
	GradeBPlus:      3.3,
	GradeB:          3.0,
	GradeBMinus:     2.7,
	GradeCPlus:      2.3,
	GradeC:          2.0,
	GradeCMinus:     1.7,
	GradeDPlus:      1.3,
	GradeD:          1.0,
	GradeF:          0.0,
	GradeIncomplete: 0.0,
	GradeWithdrawal: 0.0,
}

// Points returns the grade-point value for the letter grade.
func (g Grade) Points() float64 {
	return gradePoints[g]
}

// CountsTowardGPA reports whether the grade participates in GPA computation.
func (g Grade) CountsTowardGPA() bool {
	return g != GradeIncomplete && g != GradeWithdrawal
}

// Valid reports whether g is a member of the grading scale.
func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

// ParseGrade resolves a letter grade from its string form.
func ParseGrade(raw string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(raw)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", raw)
	}
	return g, nil
}

// GradeFromPercentage maps a percentage score onto the letter scale.
func GradeFromPercentage(percentage float64) Grade {
	switch {
	case percentage >= 97:
		return GradeAPlus
	case percentage >= 93:
		return GradeA
	case percentage >= 90:
		return GradeAMinus
	case percentage >= 87:
		return GradeBPlus
	case percentage >= 83:
		return GradeB
	case percentage >= 80:
		return GradeBMinus
	case percentage >= 77:
		return GradeCPlus
	case percentage >= 73:
		return GradeC
	case percentage >= 70:
		return GradeCMinus
	case percentage >= 67:
		return GradeDPlus
	case percentage >= 60:
		return GradeD
	default:
		return GradeF
	}
}
