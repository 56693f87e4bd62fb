package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func bankLine(d int, credit int64) BankStatementLine {
	return BankStatementLine{
		ID:       uuid.New(),
		PostDate: day(d),
		Credit:   decimal.NewFromInt(credit),
		Debit:    decimal.Zero,
	}
}

func TestSortRowsIsStable(t *testing.T) {
	r0 := UnreconciledBankRow{Bank: bankLine(2, 10)}
	r1 := UnreconciledInternalRow{Internal: InternalTransaction{ID: uuid.New(), Kind: KindReceipt, Date: day(1)}}
	r2 := UnreconciledBankRow{Bank: bankLine(1, 20)}
	r3 := ReconciledRow{ID: uuid.New(), Bank: bankLine(3, 30), Internal: InternalTransaction{ID: uuid.New(), Kind: KindReceipt, Date: day(1)}}

	rows := []Row{r0, r1, r2, r3}
	SortRows(rows)

	require.Len(t, rows, 4)
	assert.Equal(t, r1, rows[0])
	assert.Equal(t, r2, rows[1])
	assert.Equal(t, r0, rows[2])
	assert.Equal(t, r3, rows[3])
}

func TestEffectiveDatePrefersBankLine(t *testing.T) {
	r := ReconciledRow{Bank: bankLine(5, 1), Internal: InternalTransaction{Date: day(2), Kind: KindReceipt}}
	assert.Equal(t, day(5), r.EffectiveDate())
}

func TestRowPayloadRoundTrip(t *testing.T) {
	rows := []Row{
		ReconciledRow{ID: uuid.New(), Bank: bankLine(1, 100), Internal: InternalTransaction{ID: uuid.New(), Kind: KindReceipt, Date: day(1), Amount: decimal.NewFromInt(100)}},
		UnreconciledBankRow{Bank: bankLine(2, 50)},
		UnreconciledInternalRow{Internal: InternalTransaction{ID: uuid.New(), Kind: KindExpenditure, Date: day(3), Amount: decimal.NewFromInt(7)}},
	}

	data, err := json.Marshal(EncodeRows(rows))
	require.NoError(t, err)

	var payloads []RowPayload
	require.NoError(t, json.Unmarshal(data, &payloads))

	decoded, err := DecodeRows(payloads)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	rec, ok := decoded[0].(ReconciledRow)
	require.True(t, ok)
	assert.Equal(t, rows[0].(ReconciledRow).ID, rec.ID)
	assert.True(t, rec.Bank.Credit.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, StatusUnreconciledBank, decoded[1].Status())
	assert.Equal(t, KindExpenditure, decoded[2].(UnreconciledInternalRow).Internal.Kind)
}

func TestDecodeRejectsImpossibleRows(t *testing.T) {
	bank := bankLine(1, 1)
	internal := InternalTransaction{ID: uuid.New(), Kind: KindReceipt}
	id := uuid.New()

	cases := map[string]RowPayload{
		"reconciled without internal":    {Status: StatusReconciled, ID: &id, BankStatement: &bank},
		"reconciled without id":          {Status: StatusReconciled, BankStatement: &bank, InternalTransaction: &internal},
		"bank row carrying internal":     {Status: StatusUnreconciledBank, BankStatement: &bank, InternalTransaction: &internal},
		"internal row without internal":  {Status: StatusUnreconciledInternal},
		"internal row with unknown kind": {Status: StatusUnreconciledInternal, InternalTransaction: &InternalTransaction{Kind: "TRANSFER"}},
		"unknown status":                 {Status: "MATCHED"},
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Decode()
			assert.Error(t, err)
		})
	}
}

func TestBankLineKind(t *testing.T) {
	credit := bankLine(1, 10)
	assert.Equal(t, KindReceipt, credit.Kind())
	assert.True(t, credit.Amount().Equal(decimal.NewFromInt(10)))

	debit := BankStatementLine{Debit: decimal.NewFromInt(4), Credit: decimal.Zero}
	assert.Equal(t, KindExpenditure, debit.Kind())
	assert.True(t, debit.Amount().Equal(decimal.NewFromInt(4)))
}
