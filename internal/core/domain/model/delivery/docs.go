// Package delivery contains the Delivery aggregate root and its supporting
// value objects: the six-state lifecycle state machine, the priority tier,
// and the customer/item types.
//
// The aggregate enforces the dispatch invariants itself rather than relying
// on callers: a driver is attached exactly when the delivery leaves Pending,
// the actual delivery time is set exactly on reaching Delivered, and the
// version token increments on every successful mutation so that repositories
// can detect concurrent writes.
package delivery
