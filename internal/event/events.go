package event

const (
	EventDayAdvanced   = "market.day"
	EventOptionQuoted  = "option.quoted"
	EventOptionSettled = "option.settled"
)
