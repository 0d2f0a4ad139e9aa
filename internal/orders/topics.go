package orders

const (
	TopicOrderPlaced        = "store.order.placed"
	TopicOrderStatusChanged = "store.order.status"
	TopicInquiryReceived    = "store.inquiry.received"
)

// Partition key = order_id so every event for one order stays ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
