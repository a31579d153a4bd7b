package core

import "github.com/shopspring/decimal"

// ComputeNet derives net pay. A deduction larger than gross yields a negative
// net; callers reject negative inputs, nothing is clamped here.
func ComputeNet(gross, deduction decimal.Decimal) decimal.Decimal {
	return gross.Sub(deduction)
}

// ResolveNet merges the amounts in patch over the stored record and returns
// the resulting gross, deduction and recomputed net. Amounts missing from the
// patch keep their stored values.
func ResolveNet(stored Salary, patch SalaryPatch) (gross, deduction, net decimal.Decimal) {
	gross = stored.GrossSalary
	deduction = stored.TotalDeduction
	if patch.GrossSalary != nil {
		gross = *patch.GrossSalary
	}
	if patch.TotalDeduction != nil {
		deduction = *patch.TotalDeduction
	}
	return gross, deduction, ComputeNet(gross, deduction)
}
