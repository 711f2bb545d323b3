package parser

import (
	"regexp"
	"strconv"
	"strings"

	"momo-insights/pkg"
)

// MoMo SMS bodies are semi-structured natural language, not a fixed schema.
// Classification is keyword-driven and ordered: the first matching rule wins.

type rule struct {
	txType       pkg.TransactionType
	direction    pkg.Direction
	match        *regexp.Regexp
	counterparty *regexp.Regexp // optional; first capture group
}

var rules = []rule{
	{pkg.TxTypeDeposit, pkg.DirectionCredit,
		regexp.MustCompile(`(?i)bank deposit of`),
		regexp.MustCompile(`(?i)deposit of\s+[\d,.]+\s*RWF\s+(?:from\s+)?([^.(]+?)(?:\s+has|\.|$)`)},
	{pkg.TxTypeDeposit, pkg.DirectionCredit,
		regexp.MustCompile(`(?i)you have received`),
		regexp.MustCompile(`(?i)received\s+[\d,.]+\s*RWF\s+from\s+([^.(]+?)\s*(?:\(|\.|,|$)`)},
	{pkg.TxTypePayment, pkg.DirectionDebit,
		regexp.MustCompile(`(?i)(?:your\s+)?payment of\s+[\d,.]+\s*RWF\s+to`),
		regexp.MustCompile(`(?i)payment of\s+[\d,.]+\s*RWF\s+to\s+([^.(\d]+)`)},
	{pkg.TxTypeWithdrawal, pkg.DirectionDebit,
		regexp.MustCompile(`(?i)withdrawn`),
		regexp.MustCompile(`(?i)via agent:?\s*([^.(]+?)\s*(?:\(|,|\.|$)`)},
	{pkg.TxTypeTransfer, pkg.DirectionDebit,
		regexp.MustCompile(`(?i)RWF transferred to`),
		regexp.MustCompile(`(?i)transferred to\s+([^.(\d]+)`)},
	{pkg.TxTypeAirtime, pkg.DirectionDebit,
		regexp.MustCompile(`(?i)airtime`), nil},
}

func (r rule) counterpartyFrom(body string) string {
	if r.counterparty == nil {
		return ""
	}
	m := r.counterparty.FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

type ruleMatch struct {
	txType    pkg.TransactionType
	direction pkg.Direction
	rule      rule
}

func (m ruleMatch) counterparty(body string) string {
	return m.rule.counterpartyFrom(body)
}

// classify matches the body against the known MoMo patterns. OTP and
// promotional messages fall through and are skipped by the caller.
func classify(body string) (ruleMatch, bool) {
	if body == "" {
		return ruleMatch{}, false
	}
	for _, r := range rules {
		if r.match.MatchString(body) {
			return ruleMatch{txType: r.txType, direction: r.direction, rule: r}, true
		}
	}
	return ruleMatch{}, false
}

var (
	// Amounts read "27,000 RWF" or "123.45 RWF"; commas are thousands
	// separators, at most two decimals.
	amountRWFRe = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)\s*RWF`)
	// Fallback for bodies where the currency trails elsewhere.
	amountPhraseRe = regexp.MustCompile(`(?i)(?:received|payment of|deposit of|transferred|withdrawn)\s*:?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)`)
)

// extractAmount parses the transaction amount from the body. Amounts are
// RWF values; negative amounts never occur, direction carries the sign.
func extractAmount(body string) (float64, bool) {
	for _, re := range []*regexp.Regexp{amountRWFRe, amountPhraseRe} {
		m := re.FindStringSubmatch(body)
		if len(m) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil || v < 0 {
			continue
		}
		return v, true
	}
	return 0, false
}
