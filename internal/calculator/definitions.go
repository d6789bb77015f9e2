package calculator

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/formulas"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// OperandType describes how a raw operand string is parsed.
type OperandType uint8

const (
	// Number is a single decimal number.
	Number OperandType = iota
	// NumberList is a separated list of numbers, e.g. "85, 92, 78".
	NumberList
	// LetterList is a separated list of letter grades, e.g. "A, B+, C".
	LetterList
)

func (t OperandType) String() string {
	switch t {
	case NumberList:
		return "numbers"
	case LetterList:
		return "letters"
	default:
		return "number"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t OperandType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Operand describes one positional operand of a kind.
type Operand struct {
	Name     string      `json:"name"`
	Type     OperandType `json:"type"`
	Optional bool        `json:"optional,omitempty"`
	Default  string      `json:"default,omitempty"`
}

// Spec is the public description of a kind.
type Spec struct {
	Kind        Kind      `json:"kind"`
	Family      Family    `json:"family"`
	Description string    `json:"description"`
	Operands    []Operand `json:"operands"`
}

type definition struct {
	family      Family
	description string
	operands    []Operand
	eval        func(args) formulas.Result
}

// args holds parsed operands by position.
type args []interface{}

func (a args) num(i int) float64    { return a[i].(float64) }
func (a args) list(i int) []float64 { return a[i].([]float64) }
func (a args) words(i int) []string { return a[i].([]string) }

func number(name string) Operand {
	return Operand{Name: name, Type: Number}
}

func optional(name, def string) Operand {
	return Operand{Name: name, Type: Number, Optional: true, Default: def}
}

var definitions = map[Kind]definition{
	PercentOf: {
		family:      FamilyPercentage,
		description: "X% of Y",
		operands:    []Operand{number("percent"), number("value")},
		eval:        func(a args) formulas.Result { return formulas.PercentOf(a.num(0), a.num(1)) },
	},
	WhatPercentOf: {
		family:      FamilyPercentage,
		description: "X is what percent of Y",
		operands:    []Operand{number("part"), number("whole")},
		eval:        func(a args) formulas.Result { return formulas.WhatPercentOf(a.num(0), a.num(1)) },
	},
	PercentChange: {
		family:      FamilyPercentage,
		description: "percentage change from one value to another",
		operands:    []Operand{number("initial"), number("final")},
		eval:        func(a args) formulas.Result { return formulas.PercentChange(a.num(0), a.num(1)) },
	},
	Markup: {
		family:      FamilyPercentage,
		description: "price increased by a percentage",
		operands:    []Operand{number("price"), number("percent")},
		eval:        func(a args) formulas.Result { return formulas.Markup(a.num(0), a.num(1)) },
	},
	Markdown: {
		family:      FamilyPercentage,
		description: "price decreased by a percentage",
		operands:    []Operand{number("price"), number("percent")},
		eval:        func(a args) formulas.Result { return formulas.Markdown(a.num(0), a.num(1)) },
	},
	ReversePercent: {
		family:      FamilyPercentage,
		description: "whole from a part and the percent it represents",
		operands:    []Operand{number("part"), number("percent")},
		eval:        func(a args) formulas.Result { return formulas.ReversePercent(a.num(0), a.num(1)) },
	},
	CompoundInterest: {
		family:      FamilyInterest,
		description: "compound interest, compounded annually",
		operands:    []Operand{number("principal"), number("rate"), number("years")},
		eval: func(a args) formulas.Result {
			return formulas.CompoundInterest(a.num(0), a.num(1), a.num(2), 1)
		},
	},
	CompoundInterestMonthly: {
		family:      FamilyInterest,
		description: "compound interest, compounded monthly",
		operands:    []Operand{number("principal"), number("rate"), number("years")},
		eval: func(a args) formulas.Result {
			return formulas.CompoundInterest(a.num(0), a.num(1), a.num(2), 12)
		},
	},
	SimpleInterest: {
		family:      FamilyInterest,
		description: "simple interest",
		operands:    []Operand{number("principal"), number("rate"), number("years")},
		eval: func(a args) formulas.Result {
			return formulas.SimpleInterest(a.num(0), a.num(1), a.num(2))
		},
	},
	LoanPayment: {
		family:      FamilyLoan,
		description: "monthly payment of an amortizing loan",
		operands:    []Operand{number("principal"), number("rate"), number("years")},
		eval: func(a args) formulas.Result {
			return formulas.LoanPayment(a.num(0), a.num(1), a.num(2))
		},
	},
	LoanTotalInterest: {
		family:      FamilyLoan,
		description: "total interest paid over the life of a loan",
		operands:    []Operand{number("principal"), number("rate"), number("years")},
		eval: func(a args) formulas.Result {
			return formulas.LoanTotalInterest(a.num(0), a.num(1), a.num(2))
		},
	},
	ROI: {
		family:      FamilyROI,
		description: "return on investment",
		operands:    []Operand{number("initial"), number("final")},
		eval:        func(a args) formulas.Result { return formulas.ROI(a.num(0), a.num(1)) },
	},
	AnnualizedROI: {
		family:      FamilyROI,
		description: "annualized return on investment",
		operands:    []Operand{number("initial"), number("final"), number("years")},
		eval: func(a args) formulas.Result {
			return formulas.AnnualizedROI(a.num(0), a.num(1), a.num(2))
		},
	},
	Commission: {
		family:      FamilyCommission,
		description: "commission earned on a sale",
		operands:    []Operand{number("sale"), number("rate")},
		eval:        func(a args) formulas.Result { return formulas.Commission(a.num(0), a.num(1)) },
	},
	SalesForCommission: {
		family:      FamilyCommission,
		description: "sales needed to earn a target commission",
		operands:    []Operand{number("target"), number("rate")},
		eval:        func(a args) formulas.Result { return formulas.SalesForCommission(a.num(0), a.num(1)) },
	},
	RentalYield: {
		family:      FamilyRental,
		description: "gross rental yield",
		operands:    []Operand{number("monthlyRent"), number("propertyValue")},
		eval:        func(a args) formulas.Result { return formulas.RentalYield(a.num(0), a.num(1)) },
	},
	NetRentalYield: {
		family:      FamilyRental,
		description: "net rental yield after annual costs",
		operands:    []Operand{number("monthlyRent"), number("propertyValue"), optional("annualCosts", "0")},
		eval: func(a args) formulas.Result {
			return formulas.NetRentalYield(a.num(0), a.num(1), a.num(2))
		},
	},
	GradeWeightedAverage: {
		family:      FamilyGrade,
		description: "weighted average of scored assessments",
		operands: []Operand{
			{Name: "scores", Type: NumberList},
			{Name: "maxScores", Type: NumberList},
			{Name: "weights", Type: NumberList},
		},
		eval: func(a args) formulas.Result {
			return formulas.GradeWeightedAverageLists(a.list(0), a.list(1), a.list(2))
		},
	},
	GPA: {
		family:      FamilyGrade,
		description: "grade point average on the 4.0 scale",
		operands: []Operand{
			{Name: "credits", Type: NumberList},
			{Name: "grades", Type: LetterList},
		},
		eval: func(a args) formulas.Result { return formulas.GPALists(a.list(0), a.words(1)) },
	},
	HourlyRate: {
		family:      FamilyFreelance,
		description: "hourly rate covering expenses, profit and tax",
		operands: []Operand{
			number("annualExpenses"), number("desiredProfit"), number("taxRate"), number("billableHours"),
		},
		eval: func(a args) formulas.Result {
			return formulas.HourlyRate(a.num(0), a.num(1), a.num(2), a.num(3))
		},
	},
	ProjectPrice: {
		family:      FamilyFreelance,
		description: "project price with a contingency margin",
		operands:    []Operand{number("rate"), number("hours"), optional("contingency", "0")},
		eval: func(a args) formulas.Result {
			return formulas.ProjectPrice(a.num(0), a.num(1), a.num(2))
		},
	},
}

// mustDefinition panics for a kind outside the table; every declared kind has
// a definition, so reaching the panic is a programming error.
func mustDefinition(k Kind) definition {
	def, ok := definitions[k]
	if !ok {
		panic(fmt.Sprintf("calculator: no definition for %s", k))
	}
	return def
}

// Describe returns the public description of kind.
func Describe(k Kind) Spec {
	def := mustDefinition(k)
	return Spec{
		Kind:        k,
		Family:      def.family,
		Description: def.description,
		Operands:    append([]Operand{}, def.operands...),
	}
}

// Catalog describes every kind in declaration order.
func Catalog() []Spec {
	specs := make([]Spec, 0, kindCount)
	for _, k := range Kinds() {
		specs = append(specs, Describe(k))
	}
	return specs
}

// KindsOf returns the kinds belonging to family.
func KindsOf(f Family) []Kind {
	var kinds []Kind
	for _, k := range Kinds() {
		if mustDefinition(k).family == f {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// parseOperands validates raw against the kind's operands. It returns the
// parsed values and the effective raw strings, with defaults filled in.
// Operands beyond the kind's arity are ignored.
func (def definition) parseOperands(raw []string) (args, []string, error) {
	parsed := make(args, len(def.operands))
	effective := make([]string, len(def.operands))

	for i, operand := range def.operands {
		value := ""
		if i < len(raw) {
			value = raw[i]
		}
		if operand.Optional && strings.TrimSpace(value) == "" {
			value = operand.Default
		}

		var err error
		switch operand.Type {
		case NumberList:
			parsed[i], err = validation.ParseList(operand.Name, value)
		case LetterList:
			parsed[i], err = validation.ParseWords(operand.Name, value)
		default:
			parsed[i], err = validation.ParseOperand(operand.Name, value)
		}
		if err != nil {
			return nil, nil, err
		}
		effective[i] = strings.TrimSpace(value)
	}
	return parsed, effective, nil
}
