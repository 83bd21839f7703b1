package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
	"github.com/shandysiswandi/kora/internal/wallet/usecase"
)

type ScanRequest struct {
	Peer string `json:"peer"`
}

type PayAmountRequest struct {
	Amount string `json:"amount"`
}

type AdviceRequest struct {
	Query string `json:"query"`
}

type Transaction struct {
	ID        string          `json:"id"`
	Type      entity.TxType   `json:"type"`
	Amount    string          `json:"amount"`
	PeerName  string          `json:"peer_name"`
	PeerID    string          `json:"peer_id"`
	Timestamp time.Time       `json:"timestamp"`
	Status    entity.TxStatus `json:"status"`
	Category  entity.Category `json:"category"`
}

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Balance    string `json:"balance"`
	QRCodeData string `json:"qr_code_data"`
}

type StateResponse struct {
	Version       uint64               `json:"version"`
	ActiveView    entity.View          `json:"active_view"`
	User          User                 `json:"user"`
	Transactions  []Transaction        `json:"transactions"`
	AIResponse    string               `json:"ai_response"`
	IsAILoading   bool                 `json:"is_ai_loading"`
	SpendingTips  []string             `json:"spending_tips"`
	TipsLoading   bool                 `json:"tips_loading"`
	ScanResult    *string              `json:"scan_result"`
	PayAmount     string               `json:"pay_amount"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	ReceiptID     string               `json:"receipt_id,omitempty"`
	CameraActive  bool                 `json:"camera_active"`
}

// AcceptedResponse acknowledges work that finishes in the background.
type AcceptedResponse struct {
	Version       uint64               `json:"version"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	IsAILoading   bool                 `json:"is_ai_loading"`
	message       string
}

func (AcceptedResponse) StatusCode() int {
	return http.StatusAccepted
}

func (r AcceptedResponse) Message() string {
	return r.message
}

type NavItem struct {
	View   entity.View `json:"view"`
	Label  string      `json:"label"`
	Active bool        `json:"active"`
}

type ScreenResponse struct {
	Version uint64    `json:"version"`
	Nav     []NavItem `json:"nav"`
	Screen  any       `json:"screen"`
}

type DashboardScreen struct {
	Kind     entity.View   `json:"kind"`
	UserName string        `json:"user_name"`
	Avatar   string        `json:"avatar"`
	Balance  string        `json:"balance"`
	Recent   []Transaction `json:"recent"`
}

type ScanScreen struct {
	Kind          entity.View          `json:"kind"`
	CameraActive  bool                 `json:"camera_active"`
	ScanResult    *string              `json:"scan_result"`
	PayAmount     string               `json:"pay_amount"`
	CanConfirm    bool                 `json:"can_confirm"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	ReceiptID     string               `json:"receipt_id,omitempty"`
	DemoTargets   []string             `json:"demo_targets"`
}

type ReceiveScreen struct {
	Kind       entity.View `json:"kind"`
	UserID     string      `json:"user_id"`
	QRCodeData string      `json:"qr_code_data"`
	Grid       [][]bool    `json:"grid"`
}

type ChartBar struct {
	Name  string        `json:"name"`
	Value string        `json:"value"`
	Type  entity.TxType `json:"type"`
}

type InsightsScreen struct {
	Kind    entity.View `json:"kind"`
	Bars    []ChartBar  `json:"bars"`
	Tips    []string    `json:"tips"`
	Loading bool        `json:"loading"`
}

type AIAssistantScreen struct {
	Kind             entity.View `json:"kind"`
	TransactionCount int         `json:"transaction_count"`
	Response         string      `json:"response"`
	Loading          bool        `json:"loading"`
}

func toHTTPTransactions(txs []entity.Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Transaction{
			ID:        tx.ID,
			Type:      tx.Type,
			Amount:    tx.Amount.StringFixed(2),
			PeerName:  tx.PeerName,
			PeerID:    tx.PeerID,
			Timestamp: tx.Timestamp,
			Status:    tx.Status,
			Category:  tx.Category,
		})
	}
	return out
}

func toStateResponse(s usecase.State) StateResponse {
	tips := s.SpendingTips
	if tips == nil {
		tips = []string{}
	}

	return StateResponse{
		Version:    s.Version,
		ActiveView: s.ActiveView,
		User: User{
			ID:         s.User.ID,
			Name:       s.User.Name,
			Email:      s.User.Email,
			Avatar:     s.User.Avatar,
			Balance:    s.User.Balance.StringFixed(2),
			QRCodeData: s.User.QRCodeData,
		},
		Transactions:  toHTTPTransactions(s.Transactions),
		AIResponse:    s.AIResponse,
		IsAILoading:   s.IsAILoading,
		SpendingTips:  tips,
		TipsLoading:   s.TipsLoading,
		ScanResult:    s.ScanResult,
		PayAmount:     s.PayAmount,
		PaymentStatus: s.PaymentStatus,
		ReceiptID:     s.ReceiptID,
		CameraActive:  s.CameraActive,
	}
}

func toScreenResponse(f usecase.Frame) ScreenResponse {
	nav := make([]NavItem, 0, len(f.Nav))
	for _, item := range f.Nav {
		nav = append(nav, NavItem{View: item.View, Label: item.Label, Active: item.Active})
	}

	return ScreenResponse{
		Version: f.Version,
		Nav:     nav,
		Screen:  toHTTPScreen(f.Screen),
	}
}

func toHTTPScreen(screen usecase.Screen) any {
	switch s := screen.(type) {
	case usecase.DashboardScreen:
		return DashboardScreen{
			Kind:     s.View(),
			UserName: s.UserName,
			Avatar:   s.Avatar,
			Balance:  s.Balance.StringFixed(2),
			Recent:   toHTTPTransactions(s.Recent),
		}
	case usecase.ScanScreen:
		return ScanScreen{
			Kind:          s.View(),
			CameraActive:  s.CameraActive,
			ScanResult:    s.ScanResult,
			PayAmount:     s.PayAmount,
			CanConfirm:    s.CanConfirm,
			PaymentStatus: s.PaymentStatus,
			ReceiptID:     s.ReceiptID,
			DemoTargets:   s.DemoTargets,
		}
	case usecase.ReceiveScreen:
		grid := make([][]bool, 0, len(s.Grid))
		for _, row := range s.Grid {
			grid = append(grid, append([]bool(nil), row[:]...))
		}
		return ReceiveScreen{
			Kind:       s.View(),
			UserID:     s.UserID,
			QRCodeData: s.QRCodeData,
			Grid:       grid,
		}
	case usecase.InsightsScreen:
		bars := make([]ChartBar, 0, len(s.Bars))
		for _, b := range s.Bars {
			bars = append(bars, ChartBar{Name: b.Name, Value: b.Value.StringFixed(2), Type: b.Type})
		}
		tips := s.Tips
		if tips == nil {
			tips = []string{}
		}
		return InsightsScreen{
			Kind:    s.View(),
			Bars:    bars,
			Tips:    tips,
			Loading: s.Loading,
		}
	case usecase.AIAssistantScreen:
		return AIAssistantScreen{
			Kind:             s.View(),
			TransactionCount: s.TransactionCount,
			Response:         s.Response,
			Loading:          s.Loading,
		}
	default:
		return nil
	}
}
