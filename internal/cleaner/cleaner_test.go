package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"momo-insights/internal/parser"
	"momo-insights/pkg"
)

func record(body string, amount float64, at time.Time) parser.Record {
	return parser.Record{
		TxType:     pkg.TxTypeDeposit,
		Direction:  pkg.DirectionCredit,
		Amount:     amount,
		OccurredAt: at,
		Body:       body,
	}
}

func TestClean_NeverGrowsTheBatch(t *testing.T) {
	at := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	in := []parser.Record{
		record("a", 100, at),
		record("b", 200, at),
		record("b", 200, at),
	}
	out := Clean(in)
	assert.LessOrEqual(t, len(out), len(in))
}

func TestClean_DropsDuplicatesWithinBatch(t *testing.T) {
	at := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	in := []parser.Record{
		record("You have received 2,000 RWF from Jane Smith.", 2000, at),
		record("You have received 2,000 RWF from Jane Smith.", 2000, at),
		record("You have received 2,000 RWF from Jane Smith.", 2000, at.Add(time.Minute)),
	}
	out := Clean(in)
	assert.Len(t, out, 2, "same body at a different timestamp is a distinct record")
}

func TestClean_DropsInvalidRecords(t *testing.T) {
	at := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	in := []parser.Record{
		record("zero amount", 0, at),
		record("negative amount", -5, at),
		record("zero timestamp", 100, time.Time{}),
		record("keeper", 100, at),
	}
	out := Clean(in)
	assert.Len(t, out, 1)
	assert.Equal(t, "keeper", out[0].Body)
}

func TestClean_NormalizesCounterparty(t *testing.T) {
	at := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

	r := record("body", 100, at)
	r.Counterparty = "  Jane   Smith  "
	out := Clean([]parser.Record{r})
	assert.Equal(t, "Jane Smith", out[0].Counterparty)

	r = record("body", 100, at)
	r.Counterparty = "null"
	out = Clean([]parser.Record{r})
	assert.Equal(t, "", out[0].Counterparty)
}

func TestClean_EmptyInput(t *testing.T) {
	assert.Empty(t, Clean(nil))
	assert.Empty(t, Clean([]parser.Record{}))
}
