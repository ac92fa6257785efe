package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultMaxRangeDays        = 62
	DefaultTimezone            = "UTC"
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that hold a professional's time
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses statuses with no outgoing transitions
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

// AllStatuses every booking status in lifecycle order
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}
