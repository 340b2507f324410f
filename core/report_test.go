package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"golang.org/x/text/language"
)

func TestPositionalName(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			check.Equal(t, tt.expected, positionalName(tt.index))
		})
	}
}

func TestBidderName(t *testing.T) {
	check.Equal(t, "Acme", bidderName("Acme", 3))
	check.Equal(t, "D", bidderName("", 3))
}

func TestPrependWarning(t *testing.T) {
	payload := ResultPayload{
		Title:   "t",
		Columns: []string{"x", "y"},
		Rows:    []Row{{"x": "1", "y": "2"}},
	}

	got := prependWarning(payload, "warn", "careful")

	check.Equal(t, []string{"warn", "x", "y"}, got.Columns)
	check.Equal(t, 2, len(got.Rows))
	check.Equal(t, []string{"careful", "", ""}, got.Rows[0].Values(got.Columns))
	check.Equal(t, []string{"", "1", "2"}, got.Rows[1].Values(got.Columns))
	check.Equal(t, []string{"careful"}, got.Warnings)

	// The original payload is left as it was
	check.Equal(t, []string{"x", "y"}, payload.Columns)
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		integer  string
		twoPlace string
	}{
		{"whole", 100000, "100000", "100000"},
		{"half rounds away from zero", 69.5, "70", "69.5"},
		{"below half", 57.416, "57", "57.42"},
		{"two place tie", 86.005, "86", "86.01"},
		{"negative half", -2.5, "-3", "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.integer, formatInteger(toDecimal(tt.value)))
			check.Equal(t, tt.twoPlace, formatScore(toDecimal(tt.value)))
		})
	}
}

func TestLabelsFor(t *testing.T) {
	tests := []struct {
		input    string
		expected *Labels
	}{
		{"", arabicLabels},
		{"ar", arabicLabels},
		{"ar-SA", arabicLabels},
		{"en", englishLabels},
		{"en-GB", englishLabels},
		{"not a tag!", arabicLabels},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			check.Equal(t, tt.expected.Lang.String(), LabelsFor(ParseLanguage(tt.input)).Lang.String())
		})
	}
}

func TestLabels_ColumnCounts(t *testing.T) {
	for _, l := range []*Labels{arabicLabels, englishLabels} {
		t.Run(l.Lang.String(), func(t *testing.T) {
			check.Equal(t, 8, len(l.SMEColumns.list()))
			check.Equal(t, 14, len(l.NationalColumns.list()))
			check.Equal(t, 6, len(l.HighValueColumns.list()))
		})
	}
	check.Equal(t, "en", NewEvaluator(language.English).Labels().Lang.String())
	check.Equal(t, "ar", Evaluator{}.Labels().Lang.String())
}
