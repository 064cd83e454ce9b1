// Package propset names MS-WSP property sets and decodes the structures
// that reference properties: CFullPropSpec and CPropertyRestriction.
//
// The name table is presentation data only. Decoding never consults it;
// callers resolve names afterwards through a Table.
package propset
