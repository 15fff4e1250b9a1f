// Package kernel holds the value objects shared by the fulfillment and
// shipping models.
//
// The package includes:
//   - UUID: opaque identifier of fulfillments, items, zones, methods and rates
//   - Money: a non-negative decimal amount tagged with an ISO 4217 currency
//   - Address: a postal address; only the two-letter country is mandatory
//
// All values are immutable. Constructors validate their input and the zero
// value of each type fails its Validate method, so a value that passed
// validation once stays valid wherever it is copied.
package kernel
