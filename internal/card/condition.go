package card

import "strings"

// Condition grades the physical wear of an owned card. The symbol is the
// short tag used in tappedout-style list lines, where mint carries no tag
// at all.
type Condition struct {
	Name   string
	Symbol string
}

var (
	Mint         = Condition{Name: "MINT/NEAR MINT", Symbol: ""}
	SlightlyUsed = Condition{Name: "SLIGHTLY USED", Symbol: "SL"}
	MediumUsed   = Condition{Name: "MEDIUM USED", Symbol: "ME"}
	HeavyUsed    = Condition{Name: "HEAVY USED", Symbol: "HE"}
)

func (c Condition) String() string {
	return c.Name
}

// ConditionFromSymbol resolves a condition tag, with or without the
// surrounding asterisks. Anything unrecognized grades as mint.
func ConditionFromSymbol(symbol string) Condition {
	switch strings.Trim(symbol, "*") {
	case SlightlyUsed.Symbol:
		return SlightlyUsed
	case MediumUsed.Symbol:
		return MediumUsed
	case HeavyUsed.Symbol:
		return HeavyUsed
	}
	return Mint
}
