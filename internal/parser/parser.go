// Package parser turns an SMS-backup XML export into typed transaction
// records. Decoding failures are fatal for the whole document; a single
// message that matches no known MoMo pattern is skipped, not an error.
package parser

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"momo-insights/pkg"
)

// SMS represents a single message element from the XML backup.
type SMS struct {
	Protocol      string `xml:"protocol,attr"`
	Address       string `xml:"address,attr"`
	Date          string `xml:"date,attr"` // epoch milliseconds
	Type          string `xml:"type,attr"` // '1' received, '2' sent
	Body          string `xml:"body,attr"`
	ServiceCenter string `xml:"service_center,attr"`
	ReadableDate  string `xml:"readable_date,attr"`
	ContactName   string `xml:"contact_name,attr"`
}

// Backup represents the root of the XML document.
type Backup struct {
	XMLName xml.Name `xml:"smses"`
	Count   string   `xml:"count,attr"`
	SMS     []SMS    `xml:"sms"`
}

// Record is one candidate transaction extracted from a message body.
type Record struct {
	TxType       pkg.TransactionType
	Direction    pkg.Direction
	Amount       float64
	Counterparty string
	OccurredAt   time.Time
	Body         string
}

// Parse decodes the raw bytes of an SMS backup. A document that is not
// well-formed XML, or whose root is not <smses>, rejects the whole upload.
func Parse(data []byte) ([]SMS, error) {
	var backup Backup
	if err := xml.Unmarshal(data, &backup); err != nil {
		return nil, pkg.NewAppError(pkg.ErrParseCode, "could not parse SMS backup", fmt.Errorf("decoding backup XML: %w", err))
	}
	return backup.SMS, nil
}

// Extract classifies a message body and pulls out amount, counterparty and
// timestamp. The second return value is false when the message matches no
// known transaction pattern and should be excluded from output.
func Extract(sms SMS) (Record, bool) {
	match, ok := classify(sms.Body)
	if !ok {
		return Record{}, false
	}

	amount, ok := extractAmount(sms.Body)
	if !ok {
		return Record{}, false
	}

	occurredAt, ok := extractTimestamp(sms)
	if !ok {
		return Record{}, false
	}

	counterparty := match.counterparty(sms.Body)
	if counterparty == "" {
		counterparty = sms.ContactName
	}

	return Record{
		TxType:       match.txType,
		Direction:    match.direction,
		Amount:       amount,
		Counterparty: counterparty,
		OccurredAt:   occurredAt,
		Body:         sms.Body,
	}, true
}

// extractTimestamp prefers the epoch-millis date attribute and falls back to
// the human readable_date.
func extractTimestamp(sms SMS) (time.Time, bool) {
	if ms, err := strconv.ParseInt(sms.Date, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC(), true
	}
	for _, layout := range []string{"2 Jan 2006 3:04:05 PM", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, sms.ReadableDate); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
