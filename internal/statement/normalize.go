package statement

import (
	"math"
	"strings"
	"time"
)

// TxType is the canonical direction of a transaction.
type TxType string

const (
	TxCredit TxType = "credit"
	TxDebit  TxType = "debit"
)

// Transaction is a normalized statement row. Amount is always non-negative;
// the sign lives in Type. Balance and Date stay nil when the source never
// carried them.
type Transaction struct {
	Date        *time.Time
	Amount      float64
	Type        TxType
	Balance     *float64
	Description string
}

// Markers recognized inside an explicit type column ("DR"/"CR" and friends).
var (
	typeColCreditMarkers = []string{"cr", "credit", "dep", "salary", "refund"}
	typeColDebitMarkers  = []string{"dr", "debit", "with", "pay", "purchase"}
)

// Markers recognized inside free-form descriptions.
var (
	descCreditMarkers = []string{"credit", "salary", "deposit", "refund", "received"}
	descDebitMarkers  = []string{"debit", "withdraw", "payment", "purchase", "spent"}
)

// normalizeTable converts a raw table into canonical transactions using the
// resolved role map. Type classification is a four-tier, first-match
// procedure:
//
//  1. separate debit and credit columns;
//  2. an explicit type column;
//  3. keywords in the description;
//  4. the sign of the raw amount.
//
// Rows whose amount cannot be resolved are dropped. In every tier the stored
// amount is absolute and any ambiguity defaults to debit.
func normalizeTable(t RawTable, roles RoleMap) []Transaction {
	txns := make([]Transaction, 0, len(t.Rows))
	dualColumns := roles.Has(RoleDebit) && roles.Has(RoleCredit)

	for r := range t.Rows {
		var tx Transaction

		if roles.Has(RoleDate) {
			if d, ok := parseDate(t.Cell(r, roles.Col(RoleDate))); ok {
				tx.Date = &d
			}
		}
		if roles.Has(RoleBalance) {
			if v, ok := normalizeNumeric(t.Cell(r, roles.Col(RoleBalance))); ok {
				bal := v
				tx.Balance = &bal
			}
		}
		if roles.Has(RoleDescription) {
			tx.Description = strings.TrimSpace(t.Cell(r, roles.Col(RoleDescription)))
		}

		if dualColumns {
			debit, _ := normalizeNumeric(t.Cell(r, roles.Col(RoleDebit)))
			credit, _ := normalizeNumeric(t.Cell(r, roles.Col(RoleCredit)))
			debit, credit = math.Abs(debit), math.Abs(credit)
			if credit > 0 {
				tx.Amount = credit
				tx.Type = TxCredit
			} else {
				tx.Amount = debit
				tx.Type = TxDebit
			}
			txns = append(txns, tx)
			continue
		}

		if !roles.Has(RoleAmount) {
			continue
		}
		raw, ok := normalizeNumeric(t.Cell(r, roles.Col(RoleAmount)))
		if !ok {
			continue
		}
		tx.Amount = math.Abs(raw)

		switch {
		case roles.Has(RoleType):
			tx.Type = classifyMarker(t.Cell(r, roles.Col(RoleType)), typeColCreditMarkers, typeColDebitMarkers)
		case roles.Has(RoleDescription):
			tx.Type = classifyMarker(tx.Description, descCreditMarkers, descDebitMarkers)
		default:
			// Sign fallback kept from an earlier representation where
			// amounts could still arrive signed: a negative raw value marks
			// a debit. Anything else is ambiguous and takes the debit
			// default rather than being promoted to credit on no evidence.
			tx.Type = TxDebit
		}
		txns = append(txns, tx)
	}
	return txns
}

// classifyMarker checks credit markers before debit markers and falls back
// to debit when neither set matches.
func classifyMarker(value string, creditMarkers, debitMarkers []string) TxType {
	lower := strings.ToLower(strings.TrimSpace(value))
	for _, m := range creditMarkers {
		if strings.Contains(lower, m) {
			return TxCredit
		}
	}
	for _, m := range debitMarkers {
		if strings.Contains(lower, m) {
			return TxDebit
		}
	}
	return TxDebit
}
