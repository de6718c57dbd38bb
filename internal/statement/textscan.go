package statement

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Patterns for reconstructing transactions out of free text: dd-mm-yyyy or
// yyyy-mm-dd dates (slash or dash) and loosely formatted amounts.
var (
	textDateRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	textAmountRe = regexp.MustCompile(`[-+]?\d[\d,]*\.?\d*`)
)

// Keyword signals used when a line has to be classified from its own words.
var (
	textCreditWords = []string{"credit", "cr", "salary", "deposit", "refund", "received"}
	textDebitWords  = []string{"debit", "dr", "withdraw", "spent", "purchase", "payment"}
)

var textHeaders = []string{"date", "description", "amount", "balance", "type"}

// extractTextTransactions scans arbitrary text for lines that look like
// transactions. The first numeric token becomes the amount, the last one the
// balance when two or more are present, and the whole line is kept as the
// description. Lines with no numeric content are skipped.
func extractTextTransactions(text string) RawTable {
	table := RawTable{Headers: textHeaders, Source: "text"}
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if len(line) < 5 {
			continue
		}
		tokens := textAmountRe.FindAllString(line, -1)
		if len(tokens) == 0 {
			continue
		}
		values := make([]float64, 0, len(tokens))
		for _, tok := range tokens {
			v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}

		amount := math.Abs(values[0])
		balance := ""
		if len(values) >= 2 {
			balance = strconv.FormatFloat(math.Abs(values[len(values)-1]), 'f', -1, 64)
		}
		date := textDateRe.FindString(line)
		txType := classifyByWords(strings.ToLower(line))

		table.Rows = append(table.Rows, []string{
			date,
			line,
			strconv.FormatFloat(amount, 'f', -1, 64),
			balance,
			txType,
		})
	}
	return table
}

func classifyByWords(lower string) string {
	for _, w := range textCreditWords {
		if strings.Contains(lower, w) {
			return "credit"
		}
	}
	for _, w := range textDebitWords {
		if strings.Contains(lower, w) {
			return "debit"
		}
	}
	return "debit"
}
