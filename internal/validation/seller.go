package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const (
	minStoreNameLen = 2
	minSellerBioLen = 10
	minAddressLen   = 5
	maxTaxIDLen     = 50
)

// ValidateSellerApplication проверяет заявку продавца перед отправкой
func ValidateSellerApplication(a pkgapi.SellerApplication) error {
	errs := FieldErrors{}

	if runeLen(a.StoreName) < minStoreNameLen {
		errs.Add("store_name", fmt.Sprintf("store name must be at least %d characters", minStoreNameLen))
	}
	if runeLen(a.SellerBio) < minSellerBioLen {
		errs.Add("seller_bio", fmt.Sprintf("bio must be at least %d characters", minSellerBioLen))
	}
	if runeLen(a.SellerAddress) < minAddressLen {
		errs.Add("seller_address", fmt.Sprintf("address must be at least %d characters", minAddressLen))
	}
	if a.SellerTaxID != nil && runeLen(*a.SellerTaxID) > maxTaxIDLen {
		errs.Add("seller_tax_id", fmt.Sprintf("tax id must not exceed %d characters", maxTaxIDLen))
	}
	if !a.TermsAccepted {
		errs.Add("terms_accepted", "you must accept the terms and conditions")
	}

	return errs.Err()
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
