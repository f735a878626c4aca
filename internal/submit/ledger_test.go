package submit

import (
	"testing"

	"github.com/taxbill/hometax-submitter/internal/batch"
)

func TestItemTitle(t *testing.T) {
	tests := []struct {
		name  string
		lines []batch.TransactionLine
		want  string
	}{
		{
			name:  "single line uses the item name alone",
			lines: []batch.TransactionLine{{ItemName: "철근"}},
			want:  "철근",
		},
		{
			name: "multi line counts the rest",
			lines: []batch.TransactionLine{
				{ItemName: "철근"}, {ItemName: "시멘트"}, {ItemName: "모래"},
			},
			want: "철근 외 2개 품목",
		},
		{
			name:  "blank first name falls back",
			lines: []batch.TransactionLine{{}, {ItemName: "시멘트"}},
			want:  "품목 외 1개 품목",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := itemTitle(tt.lines); got != tt.want {
				t.Errorf("itemTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPeriodDescriptor(t *testing.T) {
	tests := []struct {
		name  string
		lines []batch.TransactionLine
		want  string
	}{
		{
			name:  "single line is an ISO date",
			lines: []batch.TransactionLine{{DocumentDate: "20250810"}},
			want:  "2025-08-10",
		},
		{
			name: "distinct dates render a range",
			lines: []batch.TransactionLine{
				{DocumentDate: "20250801"},
				{DocumentDate: "20250810"},
				{DocumentDate: "20250820"},
			},
			want: "250801-250820 3건",
		},
		{
			name: "same date collapses",
			lines: []batch.TransactionLine{
				{DocumentDate: "20250810"},
				{DocumentDate: "20250810"},
			},
			want: "250810 2건",
		},
		{
			name: "unparseable dates fall back to the count",
			lines: []batch.TransactionLine{
				{DocumentDate: ""},
				{DocumentDate: ""},
			},
			want: "2건",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := periodDescriptor(tt.lines); got != tt.want {
				t.Errorf("periodDescriptor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLedgerEntrySums(t *testing.T) {
	b := batch.Batch{
		PartyID: "1234567890",
		Lines: []batch.TransactionLine{
			{ItemName: "철근", Spec: "D10", Quantity: "5", DocumentDate: "20250801", SupplyAmount: 100000, TaxAmount: 10000},
			{ItemName: "시멘트", DocumentDate: "20250815", SupplyAmount: 200000, TaxAmount: 20000},
		},
	}

	e := ledgerEntry(b, "테스트상사", "20250815", 330000)

	if e.SupplyAmount != 300000 || e.TaxAmount != 30000 {
		t.Errorf("sums = %d/%d, want 300000/30000", e.SupplyAmount, e.TaxAmount)
	}
	if e.TotalAmount != 330000 {
		t.Errorf("total = %d, want the remote figure 330000", e.TotalAmount)
	}
	if e.Spec != "D10" || e.Quantity != "5" {
		t.Errorf("spec/qty = %q/%q, want the first line's D10/5", e.Spec, e.Quantity)
	}
	if e.CompanyName != "테스트상사" || e.PartyID != "1234567890" {
		t.Errorf("identity fields = %q/%q", e.CompanyName, e.PartyID)
	}
	if e.Period != "250801-250815 2건" {
		t.Errorf("period = %q", e.Period)
	}
}
