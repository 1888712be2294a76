package booking

type Kind string

const (
	KindIndividual Kind = "individual"
	KindBlock      Kind = "block"
	KindClass      Kind = "class"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindIndividual, KindBlock, KindClass:
		return true
	}
	return false
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type ResourceKind string

const (
	ResourceRoom  ResourceKind = "room"
	ResourceStaff ResourceKind = "staff"
	ResourcePass  ResourceKind = "credit_pass"
)

type RegistrationStatus string

const (
	RegistrationBooked    RegistrationStatus = "booked"
	RegistrationWaitlist  RegistrationStatus = "waitlist"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationNoShow    RegistrationStatus = "no_show"
	RegistrationAttended  RegistrationStatus = "attended"
)

// Active registrations hold a live claim on the occurrence: they count
// against capacity and are the only ones a client can still cancel. The
// one-per-client rule is wider and covers every non-cancelled status.
func (s RegistrationStatus) IsActive() bool {
	return s == RegistrationBooked || s == RegistrationWaitlist
}
