package domain

// Kind identifies the entity kind a lifecycle operates on.
type Kind string

const (
	KindOrder Kind = "ORDER"
	KindRide  Kind = "RIDE"
)

// Status represents the lifecycle state of an order or ride.
type Status string

const (
	// Order states.
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"

	// Ride states.
	StatusRequested Status = "REQUESTED"
	StatusOngoing   Status = "ONGOING"

	// Terminal states, shared by both kinds.
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Outcome is the result of checking a requested transition against a policy.
type Outcome int

const (
	// OutcomeLegal means the transition may proceed.
	OutcomeLegal Outcome = iota

	// OutcomeNoOp means the requested state equals the current state.
	// Callers decide whether to treat this as success; no write happens.
	OutcomeNoOp

	// OutcomeIllegal means the transition violates the policy.
	OutcomeIllegal
)

// RejectReason explains why a transition was refused.
type RejectReason string

const (
	ReasonEntityFinalized      RejectReason = "ENTITY_FINALIZED"
	ReasonTransitionNotAllowed RejectReason = "TRANSITION_NOT_ALLOWED"
	ReasonAlreadyClaimed       RejectReason = "ALREADY_CLAIMED"
	ReasonNotAuthorized        RejectReason = "NOT_AUTHORIZED"
)

// Decision is the outcome of a policy check, with a reason when illegal.
type Decision struct {
	Outcome Outcome
	Reason  RejectReason
}

// Policy holds the static transition table for one entity kind.
type Policy struct {
	kind        Kind
	initial     Status
	transitions map[Status][]Status
}

var orderPolicy = &Policy{
	kind:    KindOrder,
	initial: StatusPending,
	transitions: map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusCompleted, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {},
	},
}

var ridePolicy = &Policy{
	kind:    KindRide,
	initial: StatusRequested,
	transitions: map[Status][]Status{
		StatusRequested: {StatusOngoing, StatusCancelled},
		StatusOngoing:   {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	},
}

// PolicyFor returns the lifecycle policy for the given entity kind.
// Returns nil for an unknown kind.
func PolicyFor(kind Kind) *Policy {
	switch kind {
	case KindOrder:
		return orderPolicy
	case KindRide:
		return ridePolicy
	default:
		return nil
	}
}

// Kind returns the entity kind this policy governs.
func (p *Policy) Kind() Kind { return p.kind }

// Initial returns the state entities of this kind are created in.
func (p *Policy) Initial() Status { return p.initial }

// IsTerminal reports whether s allows no outgoing transitions.
func (p *Policy) IsTerminal(s Status) bool {
	next, ok := p.transitions[s]
	return ok && len(next) == 0
}

// Known reports whether s is a state of this policy at all.
func (p *Policy) Known(s Status) bool {
	_, ok := p.transitions[s]
	return ok
}

// Check evaluates whether moving from current to requested is legal right now.
// It is a pure function over the static table; it never mutates anything.
func (p *Policy) Check(current, requested Status) Decision {
	if requested == current {
		return Decision{Outcome: OutcomeNoOp}
	}

	if p.IsTerminal(current) {
		return Decision{Outcome: OutcomeIllegal, Reason: ReasonEntityFinalized}
	}

	for _, next := range p.transitions[current] {
		if next == requested {
			return Decision{Outcome: OutcomeLegal}
		}
	}

	return Decision{Outcome: OutcomeIllegal, Reason: ReasonTransitionNotAllowed}
}
