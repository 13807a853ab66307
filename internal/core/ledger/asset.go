// Package ledger defines the ledger entry types shared by the exchange core,
// the transaction layer and the storage layer: assets, prices, accounts,
// trustlines and offers.
package ledger

import "fmt"

// AssetType discriminates the native asset from issued credit assets.
type AssetType uint8

const (
	AssetTypeNative AssetType = iota
	AssetTypeCredit
)

// Asset identifies a fungible asset. The native asset has no code and no
// issuer; credit assets are identified by (code, issuer). Assets compare by
// equality only, there is no ordering between assets.
type Asset struct {
	Type   AssetType
	Code   string
	Issuer string
}

// NativeAsset returns the chain's native, reserve-bearing asset.
func NativeAsset() Asset {
	return Asset{Type: AssetTypeNative}
}

// CreditAsset returns an issued asset. Code and issuer must be non-empty.
func CreditAsset(code, issuer string) Asset {
	if code == "" || issuer == "" {
		panic("ledger: credit asset requires code and issuer")
	}
	return Asset{Type: AssetTypeCredit, Code: code, Issuer: issuer}
}

// IsNative reports whether a is the native asset.
func (a Asset) IsNative() bool {
	return a.Type == AssetTypeNative
}

// Equals reports whether a and b identify the same asset.
func (a Asset) Equals(b Asset) bool {
	return a.Type == b.Type && a.Code == b.Code && a.Issuer == b.Issuer
}

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return fmt.Sprintf("%s:%s", a.Code, a.Issuer)
}
