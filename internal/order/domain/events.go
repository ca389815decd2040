package domain

// SubmissionOccurred is published on the submission-occurred topic after the
// outbound WhatsApp dispatch has been triggered. The persistence listener is
// the single consumer.
type SubmissionOccurred struct {
	Data    CreateOrderData
	Message string
	URI     string
}

// SubmissionResult is published on the submission-result topic once the
// gateway call finishes, successfully or not. Error carries the failure
// reason when Success is false; Original echoes the triggering event.
type SubmissionResult struct {
	Success  bool
	Order    OrderRecord
	Error    string
	Original SubmissionOccurred
}
