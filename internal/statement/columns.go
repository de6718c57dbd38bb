package statement

import "strings"

// Role identifies the canonical meaning assigned to a source column.
type Role int

const (
	RoleDate Role = iota
	RoleAmount
	RoleDebit
	RoleCredit
	RoleType
	RoleBalance
	RoleDescription
)

// roleKeywords maps each role to its ordered keyword list. Keywords are
// pre-normalized (lower case, alphanumerics only) and matched as substrings
// of the normalized header; the first hit wins. This is configuration data:
// the resolution algorithm below never special-cases a role.
var roleKeywords = map[Role][]string{
	RoleDate:        {"date", "valuedate", "postdate", "txndate", "transactiondate"},
	RoleBalance:     {"balance", "runningbalance", "availablebalance", "closingbalance", "runningbal", "closingbal", "availbal", "bal"},
	RoleType:        {"drcr", "debitcredit", "transtype", "type"},
	RoleDescription: {"description", "narration", "remarks", "details", "particular", "merchant", "note"},
	RoleDebit:       {"debit", "withdraw", "dramount", "dr"},
	RoleCredit:      {"credit", "deposit", "cramount", "cr"},
	RoleAmount:      {"amount", "txnamount", "transactionamount", "amt"},
}

// RoleMap records which source column, if any, was resolved for each role.
// A missing entry means the role stayed unresolved.
type RoleMap map[Role]int

// Has reports whether the role resolved to a source column.
func (m RoleMap) Has(r Role) bool {
	_, ok := m[r]
	return ok
}

// Col returns the resolved column index, or -1.
func (m RoleMap) Col(r Role) int {
	if idx, ok := m[r]; ok {
		return idx
	}
	return -1
}

// normalizeHeader lowers the header and strips everything that is not a
// letter or digit, so "Txn Date", "TXN_DATE" and " txn date " all compare equal.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveColumns assigns source columns to canonical roles by keyword
// priority. When no explicit amount, debit or credit column is found, the
// column with the highest numeric-coercion rate (outside date and balance)
// is drafted as the amount, provided at least 30% of its values coerce.
func resolveColumns(t RawTable) RoleMap {
	normalized := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		normalized[i] = normalizeHeader(h)
	}

	roles := make(RoleMap)
	for role, keywords := range roleKeywords {
		for _, kw := range keywords {
			found := false
			for i, norm := range normalized {
				if strings.Contains(norm, kw) {
					roles[role] = i
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}

	if !roles.Has(RoleAmount) && !roles.Has(RoleDebit) && !roles.Has(RoleCredit) {
		if idx, ok := bestNumericColumn(t, roles.Col(RoleDate), roles.Col(RoleBalance)); ok {
			roles[RoleAmount] = idx
		}
	}
	return roles
}

// bestNumericColumn scores every candidate column by the fraction of its
// values that coerce to a number and returns the best one when it clears the
// 30% floor.
func bestNumericColumn(t RawTable, excludeA, excludeB int) (int, bool) {
	bestIdx := -1
	bestScore := -1.0
	for col := range t.Headers {
		if col == excludeA || col == excludeB {
			continue
		}
		hits := 0
		for row := range t.Rows {
			if _, ok := normalizeNumeric(t.Cell(row, col)); ok {
				hits++
			}
		}
		score := 0.0
		if len(t.Rows) > 0 {
			score = float64(hits) / float64(len(t.Rows))
		}
		if score > bestScore {
			bestScore = score
			bestIdx = col
		}
	}
	if bestScore < 0.3 {
		return -1, false
	}
	return bestIdx, true
}
