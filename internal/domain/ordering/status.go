package ordering

// OrderStatus represents the processing status of a shop order
type OrderStatus string

const (
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// statusTransitions is the explicit transition table. The current business
// rule admits every transition between the four states; tightening the
// workflow later is a table edit, not a code change.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusReceived:   {OrderStatusReceived, OrderStatusProcessing, OrderStatusCompleted, OrderStatusDelivered},
	OrderStatusProcessing: {OrderStatusReceived, OrderStatusProcessing, OrderStatusCompleted, OrderStatusDelivered},
	OrderStatusCompleted:  {OrderStatusReceived, OrderStatusProcessing, OrderStatusCompleted, OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReceived, OrderStatusProcessing, OrderStatusCompleted, OrderStatusDelivered},
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks the transition table for an allowed move
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// PaymentStatus reflects how much of the order total the ledger covers
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}
