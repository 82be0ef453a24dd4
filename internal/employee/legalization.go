// internal/employee/legalization.go
package employee

// Legalization is an employee's stage in the work-authorization process.
type Legalization string

const (
	LegalizationNone                 Legalization = "none"
	LegalizationVisa                 Legalization = "visa"
	LegalizationResidenceCardPL      Legalization = "residence-card-pl"
	LegalizationResidenceCardOther   Legalization = "residence-card-other"
	LegalizationDecisionReceived     Legalization = "decision-received"
	LegalizationSubmittedLocal       Legalization = "application-submitted-local"
	LegalizationSubmittedOtherOffice Legalization = "application-submitted-other-office"
	LegalizationFingerprints         Legalization = "fingerprints-submitted"
	LegalizationDocsForwarded        Legalization = "documents-forwarded"
)

// StatusColors is presentation metadata for a legalization status.
type StatusColors struct {
	Status    Legalization `json:"status"`
	Color     string       `json:"color"`
	Highlight string       `json:"highlight"`
}

// FallbackColors is returned for any status string outside the known set.
// Unknown values degrade to the neutral palette, never to an error.
var FallbackColors = StatusColors{Status: "unknown", Color: "#9e9e9e", Highlight: "#f5f5f5"}

var legalizationPalette = map[Legalization]StatusColors{
	LegalizationNone:                 {LegalizationNone, "#607d8b", "#eceff1"},
	LegalizationVisa:                 {LegalizationVisa, "#2196f3", "#e3f2fd"},
	LegalizationResidenceCardPL:      {LegalizationResidenceCardPL, "#4caf50", "#e8f5e9"},
	LegalizationResidenceCardOther:   {LegalizationResidenceCardOther, "#8bc34a", "#f1f8e9"},
	LegalizationDecisionReceived:     {LegalizationDecisionReceived, "#009688", "#e0f2f1"},
	LegalizationSubmittedLocal:       {LegalizationSubmittedLocal, "#ff9800", "#fff3e0"},
	LegalizationSubmittedOtherOffice: {LegalizationSubmittedOtherOffice, "#ff5722", "#fbe9e7"},
	LegalizationFingerprints:         {LegalizationFingerprints, "#9c27b0", "#f3e5f5"},
	LegalizationDocsForwarded:        {LegalizationDocsForwarded, "#3f51b5", "#e8eaf6"},
}

// legalizationOrder keeps listings stable for the UI.
var legalizationOrder = []Legalization{
	LegalizationNone,
	LegalizationVisa,
	LegalizationResidenceCardPL,
	LegalizationResidenceCardOther,
	LegalizationDecisionReceived,
	LegalizationSubmittedLocal,
	LegalizationSubmittedOtherOffice,
	LegalizationFingerprints,
	LegalizationDocsForwarded,
}

// PaletteFor resolves display colors for a status string, falling back to
// FallbackColors for anything outside the enumerated set.
func PaletteFor(status string) StatusColors {
	if colors, ok := legalizationPalette[Legalization(status)]; ok {
		return colors
	}
	return FallbackColors
}

// KnownLegalizations returns the enumerated set with colors, in UI order.
func KnownLegalizations() []StatusColors {
	out := make([]StatusColors, 0, len(legalizationOrder))
	for _, s := range legalizationOrder {
		out = append(out, legalizationPalette[s])
	}
	return out
}

// IsKnownLegalization reports whether s is in the enumerated set.
func IsKnownLegalization(s string) bool {
	_, ok := legalizationPalette[Legalization(s)]
	return ok
}
