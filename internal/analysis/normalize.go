package analysis

import (
	"strconv"
	"strings"
)

const (
	defaultBillType = "Bill"
	defaultSummary  = "Analysis complete"
)

// normalizeAnalysis builds the canonical Analysis from a loosely-typed model
// response. The function is total: every field is defensively defaulted, so a
// partially-populated response never fails here.
func normalizeAnalysis(data map[string]any, id, date, fileName string) Analysis {
	issues := sequenceField(data, "potentialIssues")
	savings := sequenceField(data, "savingsOpportunities")

	return Analysis{
		ID:                   id,
		Date:                 date,
		FileName:             fileName,
		BillType:             stringField(data, "billType", defaultBillType),
		TotalAmount:          format2(numberValue(data["totalAmount"])),
		Summary:              stringField(data, "summary", defaultSummary),
		KeyCharges:           sequenceField(data, "keyCharges"),
		PotentialIssues:      issues,
		SavingsOpportunities: savings,
		NextActions:          sequenceField(data, "nextActions"),
		PotentialSavings:     format2(sumSavings(savings)),
		IssuesCount:          len(issues),
	}
}

// sumSavings totals the savings field of each opportunity record. Non-record
// elements and non-numeric savings contribute zero.
func sumSavings(opportunities []any) float64 {
	total := 0.0
	for _, raw := range opportunities {
		record, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		total += numberValue(record["savings"])
	}
	return total
}

func stringField(data map[string]any, key, def string) string {
	if s, ok := data[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

func sequenceField(data map[string]any, key string) []any {
	if seq, ok := data[key].([]any); ok {
		return seq
	}
	return []any{}
}

// numberValue coerces loosely-typed JSON values to a float, treating anything
// non-numeric as zero.
func numberValue(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed
		}
	}
	return 0
}

func format2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
