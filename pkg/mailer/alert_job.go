package mailer

// AlertJob is the JSON payload put on the RabbitMQ queue when a product's
// quantity falls under the configured low-stock threshold.
type AlertJob struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	Threshold   int    `json:"threshold"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}
