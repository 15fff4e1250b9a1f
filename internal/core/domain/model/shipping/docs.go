// Package shipping holds the shipping catalog: zones that group destinations
// by location patterns, methods that describe delivery options, and rates
// that price a method inside a zone.
//
// All catalog entries are validated when written. In particular a rate's
// tier matrix must ascend without overlap, so pricing never meets an
// ambiguous table.
package shipping
