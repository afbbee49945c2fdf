package orders

const TopicOrderCreated = "order.created"

// Partition key = order id, so events of one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
