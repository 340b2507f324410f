package core

import (
	"fmt"

	"golang.org/x/text/language"
)

// Labels is the text catalogue used to assemble result payloads.
// Format strings take the arguments noted next to them.
type Labels struct {
	Lang language.Tag

	StatusColumn  string
	WarningColumn string
	NoWinner      string
	Yes           string
	No            string
	BelowMinimum  string // threshold

	SMETitle               string
	SMENoPassingBidder     string
	SMEWinner              string // bidder, composite
	SMETopScorerIneligible string
	SMEWeightSumWarning    string // weight sum
	SMEColumns             smeColumns

	NationalTitle               string
	NationalWeightSumError      string // weight sum
	NationalNoEligibleBidder    string
	NationalWinner              string // bidder, award price
	NationalStatusEligible      string
	NationalStatusNotCommitted  string
	NationalStatusTechnical     string
	NationalStatusExcluded      string
	NationalReasonEligible      string
	NationalReasonNotCommitted  string // mandatory item count
	NationalReasonMandatoryOver string
	NationalColumns             nationalColumns

	HighValueTitle            string
	HighValueResultTitle      string
	HighValueNoEligibleBidder string
	HighValueWinner           string // bidder, final score
	HighValueNoWinner         string
	HighValueReasonLocal      string
	HighValueColumns          highValueColumns
}

type smeColumns struct {
	Bidder, Price, Technical, SMECertified, EffectivePrice, FinancialScore, TechnicalScore, Composite string
}

func (c smeColumns) list() []string {
	return []string{c.Bidder, c.Price, c.Technical, c.SMECertified, c.EffectivePrice, c.FinancialScore, c.TechnicalScore, c.Composite}
}

type nationalColumns struct {
	Bidder, Status, Reason, Price, Technical, Mandatory, Foreign, National, NationalShare,
	EffectivePrice, AwardPrice, FinancialScore, TechnicalScore, Composite string
}

func (c nationalColumns) list() []string {
	return []string{
		c.Bidder, c.Status, c.Reason, c.Price, c.Technical, c.Mandatory, c.Foreign, c.National,
		c.NationalShare, c.EffectivePrice, c.AwardPrice, c.FinancialScore, c.TechnicalScore, c.Composite,
	}
}

type highValueColumns struct {
	Bidder, Price, TechnicalAverage, TechnicalScore, FinancialScore, FinalScore string
}

func (c highValueColumns) list() []string {
	return []string{c.Bidder, c.Price, c.TechnicalAverage, c.TechnicalScore, c.FinancialScore, c.FinalScore}
}

var arabicLabels = &Labels{
	Lang:          language.Arabic,
	StatusColumn:  "الحالة",
	WarningColumn: "تنبيه",
	NoWinner:      "لا يوجد فائز",
	Yes:           "نعم",
	No:            "لا",
	BelowMinimum:  "أقل من %s%%",

	SMETitle:               "نظام التقييم الموزون مع تفضيل المنشآت الصغيرة والمتوسطة",
	SMENoPassingBidder:     "⚠ لا يوجد أي منافس اجتاز الحد الأدنى الفني، لا يمكن إكمال التقييم.",
	SMEWinner:              "🎯 الفائز هو المنافس %s بمجموع نهائي = %s",
	SMETopScorerIneligible: "⚠ أعلى نتيجة لمنافس غير مجتاز للحد الفني، راجعي البيانات/الشروط.",
	SMEWeightSumWarning:    "⚠ تنبيه: مجموع الأوزان = %s٪ (يفترض أن يكون 100٪)",
	SMEColumns: smeColumns{
		Bidder:         "المتنافس",
		Price:          "السعر المقدم",
		Technical:      "متوسط التقييمات الفنية (100%)",
		SMECertified:   "شهادة المنشآت الصغيرة والمتوسطة (نسبة الاجتياز 70%)",
		EffectivePrice: "سعر العرض المالي المعدل",
		FinancialScore: "درجة التقييم المالي",
		TechnicalScore: "درجة التقييم الفني",
		Composite:      "النسبة الموزونة النهائية",
	},

	NationalTitle:               "معادلة التفضيل السعري للمنتجات الوطنية",
	NationalWeightSumError:      "❌ مجموع الأوزان = %s%%، يجب أن يساوي 100%%",
	NationalNoEligibleBidder:    "⚠ لا يوجد أي منافس مؤهل.",
	NationalWinner:              "🏆 الفائز هو المنافس %s لأنه الأقل في سعر الترسية النهائي = %s",
	NationalStatusEligible:      "مؤهل",
	NationalStatusNotCommitted:  "مستبعد (غير قابل للتجزئة)",
	NationalStatusTechnical:     "مستبعد (لم يجتز فنيًا)",
	NationalStatusExcluded:      "مستبعد",
	NationalReasonEligible:      "مؤهل",
	NationalReasonNotCommitted:  "عدم الالتزام بالبنود الإلزامية (%d)",
	NationalReasonMandatoryOver: "قيمة البنود الإلزامية أكبر من السعر المقدم",
	NationalColumns: nationalColumns{
		Bidder:         "المتنافس",
		Status:         "الحالة",
		Reason:         "سبب الاستبعاد/القبول",
		Price:          "السعر المقدم",
		Technical:      "التقييم الفني",
		Mandatory:      "قيمة البنود الإلزامية",
		Foreign:        "سعر المنتجات الأجنبية",
		National:       "سعر المنتجات الوطنية",
		NationalShare:  "حصة الوطنية (%)",
		EffectivePrice: "السعر المالي المعدل",
		AwardPrice:     "سعر الترسية النهائي",
		FinancialScore: "درجة التقييم المالي",
		TechnicalScore: "درجة التقييم الفني",
		Composite:      "النسبة الموزونة النهائية",
	},

	HighValueTitle:            "معادلة المشاريع عالية القيمة",
	HighValueResultTitle:      "معادلة المشاريع عالية القيمة ومواءمتها مع المعادلة الموزونة",
	HighValueNoEligibleBidder: "❌ لا يوجد أي منافس مؤهل.",
	HighValueWinner:           "🏆 الفائز هو المنافس %s بنسبة موزونة = %s%%",
	HighValueNoWinner:         "❌ لا يوجد فائز (كل المنافسين مستبعدين).",
	HighValueReasonLocal:      "لا يوجد مستهدف للمحتوى المحلي",
	HighValueColumns: highValueColumns{
		Bidder:           "المنافس",
		Price:            "السعر المقدم",
		TechnicalAverage: "متوسط التقييم الفني",
		TechnicalScore:   "درجة التقييم الفني",
		FinancialScore:   "درجة التقييم المالي",
		FinalScore:       "النسبة الموزونة النهائية",
	},
}

var englishLabels = &Labels{
	Lang:          language.English,
	StatusColumn:  "Status",
	WarningColumn: "Warning",
	NoWinner:      "No winner",
	Yes:           "Yes",
	No:            "No",
	BelowMinimum:  "Below %s%%",

	SMETitle:               "Weighted evaluation with SME preference",
	SMENoPassingBidder:     "⚠ No bidder passed the minimum technical score; the evaluation cannot be completed.",
	SMEWinner:              "🎯 The winner is bidder %s with a final score of %s",
	SMETopScorerIneligible: "⚠ The top score belongs to a bidder that failed the technical threshold; review the inputs.",
	SMEWeightSumWarning:    "⚠ Warning: weights sum to %s%% (expected 100%%)",
	SMEColumns: smeColumns{
		Bidder:         "Bidder",
		Price:          "Submitted price",
		Technical:      "Average technical score (100%)",
		SMECertified:   "SME certified (pass mark 70%)",
		EffectivePrice: "Adjusted financial price",
		FinancialScore: "Financial score",
		TechnicalScore: "Technical score",
		Composite:      "Final weighted score",
	},

	NationalTitle:               "National product price preference",
	NationalWeightSumError:      "❌ Weights sum to %s%%; they must equal 100%%",
	NationalNoEligibleBidder:    "⚠ No eligible bidder.",
	NationalWinner:              "🏆 The winner is bidder %s with the lowest final award price = %s",
	NationalStatusEligible:      "Eligible",
	NationalStatusNotCommitted:  "Excluded (not divisible)",
	NationalStatusTechnical:     "Excluded (failed technical)",
	NationalStatusExcluded:      "Excluded",
	NationalReasonEligible:      "Eligible",
	NationalReasonNotCommitted:  "Not committed to the mandatory items (%d)",
	NationalReasonMandatoryOver: "Mandatory items value exceeds the submitted price",
	NationalColumns: nationalColumns{
		Bidder:         "Bidder",
		Status:         "Status",
		Reason:         "Exclusion/acceptance reason",
		Price:          "Submitted price",
		Technical:      "Technical score",
		Mandatory:      "Mandatory items value",
		Foreign:        "Foreign products value",
		National:       "National products value",
		NationalShare:  "National share (%)",
		EffectivePrice: "Adjusted financial price",
		AwardPrice:     "Final award price",
		FinancialScore: "Financial score",
		TechnicalScore: "Technical score",
		Composite:      "Final weighted score",
	},

	HighValueTitle:            "High-value project preference",
	HighValueResultTitle:      "High-value project preference aligned with the weighted formula",
	HighValueNoEligibleBidder: "❌ No eligible bidder.",
	HighValueWinner:           "🏆 The winner is bidder %s with a weighted score of %s%%",
	HighValueNoWinner:         "❌ No winner (every bidder was excluded).",
	HighValueReasonLocal:      "No local content target",
	HighValueColumns: highValueColumns{
		Bidder:           "Bidder",
		Price:            "Submitted price",
		TechnicalAverage: "Average technical score",
		TechnicalScore:   "Technical score",
		FinancialScore:   "Financial score",
		FinalScore:       "Final weighted score",
	},
}

func (l *Labels) technicalReason(threshold float64) string {
	return fmt.Sprintf(l.BelowMinimum, formatPercentSum(threshold))
}

var labelMatcher = language.NewMatcher([]language.Tag{language.Arabic, language.English})

// LabelsFor returns the catalogue that best matches tag. Arabic is the fallback.
func LabelsFor(tag language.Tag) *Labels {
	_, index, confidence := labelMatcher.Match(tag)
	if confidence == language.No {
		return arabicLabels
	}
	if index == 1 {
		return englishLabels
	}
	return arabicLabels
}

// ParseLanguage parses a BCP 47 tag such as "ar", "en-GB" or "ar-SA".
// Unparsable or empty input yields Arabic.
func ParseLanguage(s string) language.Tag {
	if s == "" {
		return language.Arabic
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Arabic
	}
	return tag
}
