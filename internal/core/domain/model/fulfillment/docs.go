// Package fulfillment models the physical fulfillment of an order: the
// Fulfillment aggregate, its items, and the lifecycle state machine that
// moves it from pending through picking, packing and shipping to delivery.
//
// The lifecycle is expressed twice. TransitionTable lists which status may
// follow which; ActionMap names the operational requests (ship, deliver,
// cancel, ...) and the statuses each may be applied from. Every action's
// path is a sequence of legal transitions.
//
// Business rules:
//   - a fulfillment starts pending and owns at least one item
//   - shipping requires a tracking number
//   - a delivered fulfillment can only be returned, never cancelled
//   - items are picked only while picking and packed only while picked or packing
package fulfillment
