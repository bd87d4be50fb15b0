package service

import (
	"strconv"
	"time"

	"github.com/shopidream/aorit-sub000/pkg/apperr"
)

// PartyInfo is one contracting party's data bag.
type PartyInfo struct {
	Name           string `json:"name"`
	Representative string `json:"representative"`
	Address        string `json:"address"`
	Email          string `json:"email"`
}

// ProjectData carries the project facts substituted into clause placeholders.
// Installment amounts are optional; nil resolves to an empty string, which is
// distinct from a required-field failure.
type ProjectData struct {
	Name          string    `json:"name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	ContractDate  time.Time `json:"contract_date"`
	TotalAmount   int64     `json:"total_amount"`
	DepositAmount *int64    `json:"deposit_amount"`
	MiddleAmount  *int64    `json:"middle_amount"`
	FinalAmount   *int64    `json:"final_amount"`
}

// ResolveVariables maps project and party data to the flat variable table
// used by composition. Pure: same inputs, same table. Required fields fail
// with a missing-party-field error naming the field; a required field never
// silently becomes an empty string.
func ResolveVariables(jurisdiction string, project ProjectData, client, provider PartyInfo) (map[string]string, error) {
	switch {
	case client.Name == "":
		return nil, apperr.MissingPartyField("client_name")
	case provider.Name == "":
		return nil, apperr.MissingPartyField("provider_name")
	case project.Name == "":
		return nil, apperr.MissingPartyField("project_name")
	case project.StartDate.IsZero():
		return nil, apperr.MissingPartyField("start_date")
	case project.EndDate.IsZero():
		return nil, apperr.MissingPartyField("end_date")
	case project.TotalAmount <= 0:
		return nil, apperr.MissingPartyField("total_amount")
	}

	contractDate := project.ContractDate
	if contractDate.IsZero() {
		contractDate = project.StartDate
	}

	vars := map[string]string{
		"client_name":             client.Name,
		"client_representative":   client.Representative,
		"client_address":          client.Address,
		"client_email":            client.Email,
		"provider_name":           provider.Name,
		"provider_representative": provider.Representative,
		"provider_address":        provider.Address,
		"provider_email":          provider.Email,
		"project_name":            project.Name,
		"start_date":              formatDate(jurisdiction, project.StartDate),
		"end_date":                formatDate(jurisdiction, project.EndDate),
		"contract_date":           formatDate(jurisdiction, contractDate),
		"total_amount":            formatCurrency(jurisdiction, project.TotalAmount),
		"deposit_amount":          formatOptionalCurrency(jurisdiction, project.DepositAmount),
		"middle_amount":           formatOptionalCurrency(jurisdiction, project.MiddleAmount),
		"final_amount":            formatOptionalCurrency(jurisdiction, project.FinalAmount),
	}

	return vars, nil
}

// formatDate renders a date per jurisdiction convention.
func formatDate(jurisdiction string, t time.Time) string {
	if jurisdiction == "KR" {
		return strconv.Itoa(t.Year()) + "년 " + strconv.Itoa(int(t.Month())) + "월 " + strconv.Itoa(t.Day()) + "일"
	}
	return t.Format("2006-01-02")
}

// formatCurrency groups digits and appends the jurisdiction's unit.
func formatCurrency(jurisdiction string, amount int64) string {
	grouped := groupDigits(amount)
	if jurisdiction == "KR" {
		return grouped + "원"
	}
	return grouped
}

// formatOptionalCurrency resolves nil to an empty string. This is documented
// behavior for optional installments, not a validation gap.
func formatOptionalCurrency(jurisdiction string, amount *int64) string {
	if amount == nil {
		return ""
	}
	return formatCurrency(jurisdiction, *amount)
}

func groupDigits(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	if negative {
		return "-" + string(out)
	}
	return string(out)
}
