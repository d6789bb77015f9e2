package calculator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned when a slug does not name a calculation kind.
	ErrUnknownKind = errors.New("unknown calculation kind")

	// ErrUnknownFamily is returned when a slug does not name a calculator family.
	ErrUnknownFamily = errors.New("unknown calculator family")
)

// Family groups related kinds. Each family owns one history.
type Family uint8

const (
	FamilyPercentage Family = iota
	FamilyInterest
	FamilyLoan
	FamilyROI
	FamilyCommission
	FamilyRental
	FamilyGrade
	FamilyFreelance
	familyCount
)

var familyNames = [familyCount]string{
	FamilyPercentage: "percentage",
	FamilyInterest:   "interest",
	FamilyLoan:       "loan",
	FamilyROI:        "roi",
	FamilyCommission: "commission",
	FamilyRental:     "rental",
	FamilyGrade:      "grade",
	FamilyFreelance:  "freelance",
}

func (f Family) String() string {
	if f >= familyCount {
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
	return familyNames[f]
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	if f >= familyCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	parsed, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFamily resolves a family slug such as "loan".
func ParseFamily(s string) (Family, error) {
	slug := strings.ToLower(strings.TrimSpace(s))
	for i, name := range familyNames {
		if name == slug {
			return Family(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// Families returns every family in declaration order.
func Families() []Family {
	families := make([]Family, familyCount)
	for i := range families {
		families[i] = Family(i)
	}
	return families
}

// Kind is a calculation kind.
type Kind uint8

const (
	PercentOf Kind = iota
	WhatPercentOf
	PercentChange
	Markup
	Markdown
	ReversePercent
	CompoundInterest
	CompoundInterestMonthly
	SimpleInterest
	LoanPayment
	LoanTotalInterest
	ROI
	AnnualizedROI
	Commission
	SalesForCommission
	RentalYield
	NetRentalYield
	GradeWeightedAverage
	GPA
	HourlyRate
	ProjectPrice
	kindCount
)

var kindNames = [kindCount]string{
	PercentOf:               "percent-of",
	WhatPercentOf:           "what-percent-of",
	PercentChange:           "percent-change",
	Markup:                  "markup",
	Markdown:                "markdown",
	ReversePercent:          "reverse-percent",
	CompoundInterest:        "compound-interest",
	CompoundInterestMonthly: "compound-interest-monthly",
	SimpleInterest:          "simple-interest",
	LoanPayment:             "loan-payment",
	LoanTotalInterest:       "loan-total-interest",
	ROI:                     "roi",
	AnnualizedROI:           "annualized-roi",
	Commission:              "commission",
	SalesForCommission:      "sales-for-commission",
	RentalYield:             "rental-yield",
	NetRentalYield:          "net-rental-yield",
	GradeWeightedAverage:    "grade-weighted-average",
	GPA:                     "gpa",
	HourlyRate:              "hourly-rate",
	ProjectPrice:            "project-price",
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k >= kindCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind resolves a kind slug such as "loan-payment".
func ParseKind(s string) (Kind, error) {
	slug := strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == slug {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Family returns the family the kind belongs to.
func (k Kind) Family() Family {
	return mustDefinition(k).family
}
