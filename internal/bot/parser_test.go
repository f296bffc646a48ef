package bot

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/ledger-bot/internal/models"
	"golang.org/x/text/unicode/norm"
)

const (
	breakfastParserTest = "ăn sáng"
	salaryParserTest    = "tiền lương"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain integer", input: "15000", want: "15000"},
		{name: "lowercase k", input: "15k", want: "15000"},
		{name: "uppercase K", input: "15K", want: "15000"},
		{name: "k with comma grouping", input: "1,500k", want: "1500000"},
		{name: "k with decimal point", input: "1.5k", want: "1500"},
		{name: "k with dot grouping", input: "1.500k", want: "1500000"},
		{name: "million word", input: "7 triệu", want: "7000000"},
		{name: "million word uppercase", input: "7 TRIỆU", want: "7000000"},
		{name: "million word attached", input: "2triệu", want: "2000000"},
		{name: "dot grouping", input: "200.000", want: "200000"},
		{name: "multi dot grouping", input: "1.500.000", want: "1500000"},
		{name: "comma grouping", input: "1,500,000", want: "1500000"},
		{name: "decimal point", input: "12.5", want: "12.5"},
		{name: "trailing dot", input: "5.", want: "5"},
		{name: "surrounding whitespace", input: "  30k  ", want: "30000"},
		{name: "zero", input: "0", want: "0"},
		{name: "k checked before million", input: "1triệuk", want: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseAmount(tt.input)
			require.True(t, got.Valid, "expected a number for %q", tt.input)
			require.Equal(t, tt.want, got.Value.String())
		})
	}
}

func TestParseAmountWithoutDigits(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "k", "triệu", ",", ".", "abc", "  "} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			got := ParseAmount(input)
			require.False(t, got.Valid)
			require.Equal(t, "NaN", got.String())
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	expense := func(raw, note string) models.Command {
		return models.Command{
			Kind:      models.CommandTransaction,
			Direction: models.DirectionExpense,
			RawAmount: raw,
			Note:      note,
		}
	}
	income := func(raw, note string) models.Command {
		return models.Command{
			Kind:      models.CommandTransaction,
			Direction: models.DirectionIncome,
			RawAmount: raw,
			Note:      note,
		}
	}
	summary := func(kind models.SummaryKind) models.Command {
		return models.Command{Kind: models.CommandSummary, Summary: kind}
	}
	invalid := models.Command{Kind: models.CommandInvalid}

	tests := []struct {
		name  string
		input string
		want  models.Command
	}{
		{name: "expense with k", input: "15k ăn sáng", want: expense("15k", breakfastParserTest)},
		{name: "expense with grouping", input: "200.000 tiền điện", want: expense("200.000", "tiền điện")},
		{name: "expense note keeps inner spacing", input: "50k  cà phê  sữa", want: expense("50k", "cà phê  sữa")},
		{name: "expense note spans lines", input: "15k ăn sáng\nvới bạn", want: expense("15k", "ăn sáng\nvới bạn")},
		{name: "expense note with tab", input: "15k ăn\tsáng", want: expense("15k", "ăn\tsáng")},
		{name: "income note spans lines", input: "+7triệu lương\ntháng 10", want: income("7triệu", "lương\ntháng 10")},
		{name: "amount on its own line", input: "15k\năn sáng", want: expense("15k", breakfastParserTest)},
		{name: "income", input: "+500k " + salaryParserTest, want: income("500k", salaryParserTest)},
		{name: "income with spaced million", input: "+7 triệu " + salaryParserTest, want: income("7", "triệu "+salaryParserTest)},
		{name: "income with attached million", input: "+7triệu " + salaryParserTest, want: income("7triệu", salaryParserTest)},
		{name: "total expense", input: "tổng chi", want: summary(models.SummaryTotalExpense)},
		{name: "total expense mixed case", input: "Tổng Chi", want: summary(models.SummaryTotalExpense)},
		{name: "total income uppercase", input: "TỔNG THU", want: summary(models.SummaryTotalIncome)},
		{name: "total remaining", input: "tổng còn lại", want: summary(models.SummaryTotalRemaining)},
		{name: "summary with surrounding space", input: "  tổng thu  ", want: summary(models.SummaryTotalIncome)},
		{name: "amount without note", input: "15k", want: invalid},
		{name: "income without note", input: "+15k", want: invalid},
		{name: "note first", input: "ăn sáng 15k", want: invalid},
		{name: "greeting", input: "xin chào", want: invalid},
		{name: "empty", input: "", want: invalid},
		{name: "summary with trailing words", input: "tổng chi tháng này", want: invalid},
		{name: "negative amount", input: "-15k ăn sáng", want: invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestClassifyDecomposedDiacritics(t *testing.T) {
	t.Parallel()

	decomposed := norm.NFD.String("tổng còn lại")
	require.NotEqual(t, "tổng còn lại", decomposed)

	got := Classify(decomposed)
	require.Equal(t, models.CommandSummary, got.Kind)
	require.Equal(t, models.SummaryTotalRemaining, got.Summary)
}

func TestClassifyNormalizesNote(t *testing.T) {
	t.Parallel()

	got := Classify("15k " + norm.NFD.String(breakfastParserTest))
	require.Equal(t, models.CommandTransaction, got.Kind)
	require.Equal(t, breakfastParserTest, got.Note)
	require.True(t, norm.NFC.IsNormalString(got.Note))
}

func TestClassifyThenParse(t *testing.T) {
	t.Parallel()

	cmd := Classify("15k ăn sáng")
	require.Equal(t, models.CommandTransaction, cmd.Kind)
	require.Equal(t, "15000", ParseAmount(cmd.RawAmount).String())

	cmd = Classify("+7 triệu tiền lương")
	require.Equal(t, models.DirectionIncome, cmd.Direction)
	require.Equal(t, "7", ParseAmount(cmd.RawAmount).String())
}
