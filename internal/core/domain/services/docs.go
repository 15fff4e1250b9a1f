// Package services holds the stateless domain services of shipping pricing:
// ZoneResolver matches a destination to a zone and RateCalculator prices an
// order under a rate.
package services
