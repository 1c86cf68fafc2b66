package access

type AccessState string

const (
	AccessFull    AccessState = "full"
	AccessPastDue AccessState = "past_due"
	AccessLocked  AccessState = "locked"
)
