package usecase

import (
	"fmt"
	"hash/fnv"

	"github.com/shopspring/decimal"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

const (
	recentLimit = 5
	gridSize    = 5
)

// DemoScanTargets are the peers the scan screen offers instead of a real decoder.
var DemoScanTargets = []string{"Emma Watson", "Startup Corp"}

// Screen describes what the active view shows. Exactly one type exists per view.
type Screen interface {
	View() entity.View
	screen()
}

type DashboardScreen struct {
	UserName string
	Avatar   string
	Balance  decimal.Decimal
	Recent   []entity.Transaction
}

type ScanScreen struct {
	CameraActive  bool
	ScanResult    *string
	PayAmount     string
	CanConfirm    bool
	PaymentStatus entity.PaymentStatus
	ReceiptID     string
	DemoTargets   []string
}

type ReceiveScreen struct {
	UserID     string
	QRCodeData string
	Grid       [gridSize][gridSize]bool
}

type ChartBar struct {
	Name  string
	Value decimal.Decimal
	Type  entity.TxType
}

type InsightsScreen struct {
	Bars    []ChartBar
	Tips    []string
	Loading bool
}

type AIAssistantScreen struct {
	TransactionCount int
	Response         string
	Loading          bool
}

func (DashboardScreen) View() entity.View   { return entity.ViewDashboard }
func (ScanScreen) View() entity.View        { return entity.ViewScan }
func (ReceiveScreen) View() entity.View     { return entity.ViewReceive }
func (InsightsScreen) View() entity.View    { return entity.ViewInsights }
func (AIAssistantScreen) View() entity.View { return entity.ViewAIAssistant }

func (DashboardScreen) screen()   {}
func (ScanScreen) screen()        {}
func (ReceiveScreen) screen()     {}
func (InsightsScreen) screen()    {}
func (AIAssistantScreen) screen() {}

type NavItem struct {
	View   entity.View
	Label  string
	Active bool
}

// Frame is a full render: the navigation bar plus the active screen.
type Frame struct {
	Version uint64
	Nav     []NavItem
	Screen  Screen
}

var screenBuilders = map[entity.View]func(State) Screen{
	entity.ViewDashboard:   dashboardScreen,
	entity.ViewScan:        scanScreen,
	entity.ViewReceive:     receiveScreen,
	entity.ViewInsights:    insightsScreen,
	entity.ViewAIAssistant: aiAssistantScreen,
}

// Screen renders the current state.
func (c *Controller) Screen() Frame {
	return Render(c.Snapshot())
}

func Render(s State) Frame {
	views := entity.Views()
	nav := make([]NavItem, 0, len(views))
	for _, v := range views {
		nav = append(nav, NavItem{View: v, Label: v.Label(), Active: v == s.ActiveView})
	}

	build, ok := screenBuilders[s.ActiveView]
	if !ok {
		build = dashboardScreen
	}

	return Frame{Version: s.Version, Nav: nav, Screen: build(s)}
}

func dashboardScreen(s State) Screen {
	recent := s.Transactions
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return DashboardScreen{
		UserName: s.User.Name,
		Avatar:   s.User.Avatar,
		Balance:  s.User.Balance,
		Recent:   recent,
	}
}

func scanScreen(s State) Screen {
	return ScanScreen{
		CameraActive:  s.CameraActive,
		ScanResult:    s.ScanResult,
		PayAmount:     s.PayAmount,
		CanConfirm:    s.CanConfirm(),
		PaymentStatus: s.PaymentStatus,
		ReceiptID:     s.ReceiptID,
		DemoTargets:   append([]string(nil), DemoScanTargets...),
	}
}

func receiveScreen(s State) Screen {
	return ReceiveScreen{
		UserID:     s.User.ID,
		QRCodeData: s.User.QRCodeData,
		Grid:       qrGrid(s.User.QRCodeData),
	}
}

// qrGrid is a decorative placeholder: about 60% of cells are filled, always
// the same ones for the same data.
func qrGrid(data string) [gridSize][gridSize]bool {
	var grid [gridSize][gridSize]bool
	for i := range gridSize * gridSize {
		h := fnv.New32a()
		fmt.Fprintf(h, "%s/%d", data, i)
		grid[i/gridSize][i%gridSize] = h.Sum32()%10 >= 4
	}
	return grid
}

// insightsScreen charts oldest first.
func insightsScreen(s State) Screen {
	bars := make([]ChartBar, 0, len(s.Transactions))
	for i := len(s.Transactions) - 1; i >= 0; i-- {
		tx := s.Transactions[i]
		bars = append(bars, ChartBar{
			Name:  fmt.Sprintf("T%d", len(bars)+1),
			Value: tx.Amount,
			Type:  tx.Type,
		})
	}

	return InsightsScreen{
		Bars:    bars,
		Tips:    s.SpendingTips,
		Loading: s.TipsLoading,
	}
}

func aiAssistantScreen(s State) Screen {
	return AIAssistantScreen{
		TransactionCount: len(s.Transactions),
		Response:         s.AIResponse,
		Loading:          s.IsAILoading,
	}
}
