package service

import "errors"

var (
	// ErrInvalidEntityKind is returned when the entity kind is unknown.
	ErrInvalidEntityKind = errors.New("invalid entity kind")

	// ErrInvalidEntityID is returned when the entity ID is empty.
	ErrInvalidEntityID = errors.New("invalid entity id")

	// ErrInvalidStatus is returned when the requested status is empty or
	// not a state of the entity's lifecycle.
	ErrInvalidStatus = errors.New("invalid requested status")

	// ErrInvalidActor is returned when the actor context is missing.
	ErrInvalidActor = errors.New("invalid actor context")

	// ErrInvalidCustomerID is returned when the customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidRiderID is returned when the rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidOrderID is returned when the order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrNoLineItems is returned when an order is created without items.
	ErrNoLineItems = errors.New("order has no line items")

	// ErrInvalidCoupon is returned when a coupon code does not resolve to a
	// coupon usable today.
	ErrInvalidCoupon = errors.New("coupon is not valid")

	// ErrInvalidCouponPercentage is returned when a coupon's discount
	// percentage is outside 0-100.
	ErrInvalidCouponPercentage = errors.New("discount percentage must be between 0 and 100")

	// ErrInvalidCouponRange is returned when valid_until precedes valid_from.
	ErrInvalidCouponRange = errors.New("coupon validity range is inverted")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates are invalid.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")
)
