package formulas

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/format"
)

// GradeItem is one assessment in a weighted grade.
type GradeItem struct {
	Score  float64
	Max    float64
	Weight float64
}

// Course is one graded course in a GPA.
type Course struct {
	Credits float64
	Grade   string
}

// gradePoints is the 13-step grade scale.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// GradePoints returns the points for a letter grade. Letters are matched
// case-insensitively and a Unicode minus is accepted in place of "-".
func GradePoints(letter string) (float64, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(letter))
	normalized = strings.ReplaceAll(normalized, "−", "-")
	points, ok := gradePoints[normalized]
	return points, ok
}

// LetterFor maps a percentage score onto the letter scale.
func LetterFor(percent float64) string {
	switch {
	case percent >= 97:
		return "A+"
	case percent >= 93:
		return "A"
	case percent >= 90:
		return "A-"
	case percent >= 87:
		return "B+"
	case percent >= 83:
		return "B"
	case percent >= 80:
		return "B-"
	case percent >= 77:
		return "C+"
	case percent >= 73:
		return "C"
	case percent >= 70:
		return "C-"
	case percent >= 67:
		return "D+"
	case percent >= 63:
		return "D"
	case percent >= 60:
		return "D-"
	default:
		return "F"
	}
}

// GradeWeightedAverage computes Σ(score/max·weight) ÷ Σweight. The value is a
// fraction of full marks; weights need not add up to 100.
func GradeWeightedAverage(items []GradeItem) Result {
	if len(items) == 0 {
		return fail("gradeWeightedAverage", ErrEmptyItems, "")
	}

	var weighted, totalWeight float64
	terms := make([]string, 0, len(items))
	for i, item := range items {
		if item.Max == 0 {
			return fail("gradeWeightedAverage", ErrDivisionByZero, "item %d has a maximum score of zero", i+1)
		}
		if item.Weight < 0 {
			return fail("gradeWeightedAverage", ErrNegativeValue, "item %d has weight %s", i+1, op(item.Weight))
		}
		weighted += item.Score / item.Max * item.Weight
		totalWeight += item.Weight
		terms = append(terms, fmt.Sprintf("%s ÷ %s × %s", op(item.Score), op(item.Max), op(item.Weight)))
	}
	if totalWeight == 0 {
		return fail("gradeWeightedAverage", ErrZeroTotalWeight, "")
	}

	value := weighted / totalWeight
	percent := value * 100
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("(%s) ÷ %s = %s", strings.Join(terms, " + "), op(totalWeight), val(value)),
		Explanation: fmt.Sprintf("The weighted average across %d items is %s%%.", len(items), val(percent)),
		Details: []Detail{
			detail("Items", fmt.Sprintf("%d", len(items))),
			detail("Total weight", op(totalWeight)),
			detail("Percentage", pct(percent)),
			detail("Letter grade", LetterFor(percent)),
		},
	}
}

// GradeWeightedAverageLists zips parallel score, maximum and weight lists.
func GradeWeightedAverageLists(scores, maxes, weights []float64) Result {
	if len(scores) != len(maxes) || len(scores) != len(weights) {
		return fail("gradeWeightedAverage", ErrMismatchedItems,
			"%d scores, %d maximums, %d weights", len(scores), len(maxes), len(weights))
	}
	items := make([]GradeItem, len(scores))
	for i := range scores {
		items[i] = GradeItem{Score: scores[i], Max: maxes[i], Weight: weights[i]}
	}
	return GradeWeightedAverage(items)
}

// GPA computes the credit-weighted grade point average.
func GPA(courses []Course) Result {
	if len(courses) == 0 {
		return fail("gpa", ErrEmptyItems, "")
	}

	var qualityPoints, totalCredits float64
	terms := make([]string, 0, len(courses))
	for i, course := range courses {
		points, ok := GradePoints(course.Grade)
		if !ok {
			return fail("gpa", ErrUnknownGrade, "course %d has grade %q", i+1, course.Grade)
		}
		if course.Credits < 0 {
			return fail("gpa", ErrNegativeValue, "course %d has %s credits", i+1, op(course.Credits))
		}
		qualityPoints += points * course.Credits
		totalCredits += course.Credits
		terms = append(terms, fmt.Sprintf("%s × %s", op(points), op(course.Credits)))
	}
	if totalCredits == 0 {
		return fail("gpa", ErrZeroTotalCredits, "")
	}

	value := qualityPoints / totalCredits
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("(%s) ÷ %s = %s", strings.Join(terms, " + "), op(totalCredits), val(value)),
		Explanation: fmt.Sprintf("A GPA of %s over %s credits.", val(value), op(totalCredits)),
		Details: []Detail{
			detail("Courses", fmt.Sprintf("%d", len(courses))),
			detail("Total credits", op(totalCredits)),
			detail("Quality points", format.Number(qualityPoints, 2)),
			detail("GPA", format.Number(value, 2)),
		},
	}
}

// GPALists zips parallel credit and letter lists.
func GPALists(credits []float64, letters []string) Result {
	if len(credits) != len(letters) {
		return fail("gpa", ErrMismatchedItems, "%d credit values, %d grades", len(credits), len(letters))
	}
	courses := make([]Course, len(credits))
	for i := range credits {
		courses[i] = Course{Credits: credits[i], Grade: letters[i]}
	}
	return GPA(courses)
}
