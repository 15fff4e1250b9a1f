package fulfillment

import (
	"fmt"
	"slices"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// SourceType says who physically ships the goods.
type SourceType string

const (
	SourceWarehouse SourceType = "warehouse"
	SourceMerchant  SourceType = "merchant"
	SourceSupplier  SourceType = "supplier"
	SourceDropship  SourceType = "dropship"
	SourceStore     SourceType = "store"
)

func sourceTypes() []SourceType {
	return []SourceType{SourceWarehouse, SourceMerchant, SourceSupplier, SourceDropship, SourceStore}
}

func ParseSourceType(s string) (SourceType, error) {
	st := SourceType(strings.ToLower(strings.TrimSpace(s)))
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

func (s SourceType) Validate() error {
	if !slices.Contains(sourceTypes(), s) {
		return errs.NewValueIsInvalidErrorWithCause("source type", fmt.Errorf("%q is not a valid source type", string(s)))
	}
	return nil
}

func (s SourceType) String() string {
	return string(s)
}
