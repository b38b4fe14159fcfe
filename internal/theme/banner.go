package theme

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/osse101/ReelSpin_Go/internal/domain"
)

// Banner renders the win/lose line for a finalized outcome in the skin's
// locale. A fallback has zero payout and shows as an ordinary loss.
func (s Skin) Banner(o domain.Outcome) string {
	if !o.Won {
		return s.Copy.Lose
	}
	p := message.NewPrinter(s.Tag())
	amount, _ := o.Payout.Float64()
	return p.Sprintf(s.Copy.Win, number.Decimal(amount, number.Scale(BannerAmountScale)))
}

// Tag parses the skin locale, defaulting to English
func (s Skin) Tag() language.Tag {
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
