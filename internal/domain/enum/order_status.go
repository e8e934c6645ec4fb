package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus int

const (
	OrderStatusQuotation               OrderStatus = 0
	OrderStatusPending                 OrderStatus = 1
	OrderStatusPreparing               OrderStatus = 2
	OrderStatusDelivered               OrderStatus = 3
	OrderStatusDeliveredPendingPayment OrderStatus = 4
	OrderStatusCompleted               OrderStatus = 5
	OrderStatusCancelled               OrderStatus = 6
)

var orderStatusNames = [...]string{
	"Quotation",
	"Pending",
	"Preparing",
	"Delivered",
	"DeliveredPendingPayment",
	"Completed",
	"Cancelled",
}

var orderStatusTranslations = [...]string{
	"Teklif",
	"Beklemede",
	"Hazırlanıyor",
	"Teslim Edildi",
	"Teslim Edildi (Ödeme Bekliyor)",
	"Tamamlandı",
	"İptal Edildi",
}

// OrderStatuses lists every status in display order
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusQuotation,
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusDelivered,
		OrderStatusDeliveredPendingPayment,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusQuotation && s <= OrderStatusCancelled
}

func (s OrderStatus) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
	return orderStatusNames[s]
}

// Translation returns the Turkish label shown to users
func (s OrderStatus) Translation() string {
	if !s.IsValid() {
		return s.String()
	}
	return orderStatusTranslations[s]
}

// ParseOrderStatus parses the canonical status name
func ParseOrderStatus(str string) (OrderStatus, error) {
	for i, name := range orderStatusNames {
		if name == str {
			return OrderStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown order status %q", str)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !OrderStatus(i).IsValid() {
			return fmt.Errorf("unknown order status %d", i)
		}
		*s = OrderStatus(i)
		return nil
	}
	parsed, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusQuotation
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int32:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	case []byte:
		var i int
		if _, err := fmt.Sscan(string(v), &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}
	return nil
}
