package entity

import "fmt"

type TxType string

const (
	TxTypeSend    TxType = "send"
	TxTypeReceive TxType = "receive"
)

func ParseTxType(s string) (TxType, error) {
	switch t := TxType(s); t {
	case TxTypeSend, TxTypeReceive:
		return t, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusCompleted TxStatus = "completed"
	TxStatusFailed    TxStatus = "failed"
)

func ParseTxStatus(s string) (TxStatus, error) {
	switch st := TxStatus(s); st {
	case TxStatusPending, TxStatusCompleted, TxStatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

type Category string

const (
	CategoryPersonal  Category = "Personal"
	CategoryShopping  Category = "Shopping"
	CategoryFood      Category = "Food"
	CategoryUtilities Category = "Utilities"
	CategoryTransport Category = "Transport"
)

// ParseCategory accepts a category name exactly as it is serialized.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryPersonal, CategoryShopping, CategoryFood, CategoryUtilities, CategoryTransport:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// View is one of the five navigable screens.
type View string

const (
	ViewDashboard   View = "DASHBOARD"
	ViewScan        View = "SCAN"
	ViewReceive     View = "RECEIVE"
	ViewInsights    View = "INSIGHTS"
	ViewAIAssistant View = "AI_ASSISTANT"
)

// Views lists every view in navigation-bar order.
func Views() []View {
	return []View{ViewDashboard, ViewScan, ViewReceive, ViewInsights, ViewAIAssistant}
}

// ParseView accepts a view name exactly as it is serialized.
func ParseView(s string) (View, error) {
	for _, v := range Views() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Label is the navigation-bar caption of the view.
func (v View) Label() string {
	switch v {
	case ViewDashboard:
		return "Home"
	case ViewScan:
		return "Pay"
	case ViewReceive:
		return "Receive"
	case ViewInsights:
		return "Insights"
	case ViewAIAssistant:
		return "Kora AI"
	default:
		return string(v)
	}
}

type PaymentStatus string

const (
	PaymentStatusIdle       PaymentStatus = "idle"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSuccess    PaymentStatus = "success"
)
