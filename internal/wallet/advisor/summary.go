package advisor

import (
	"encoding/json"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

type adviceItem struct {
	Type     entity.TxType   `json:"type"`
	Amount   json.Number     `json:"amount"`
	Category entity.Category `json:"category"`
	Peer     string          `json:"peer"`
	Date     string          `json:"date"`
}

type tipsItem struct {
	Amount   json.Number     `json:"amount"`
	Category entity.Category `json:"category"`
	Type     entity.TxType   `json:"type"`
}

func adviceSummary(txs []entity.Transaction) string {
	items := make([]adviceItem, 0, len(txs))
	for _, tx := range txs {
		items = append(items, adviceItem{
			Type:     tx.Type,
			Amount:   json.Number(tx.Amount.String()),
			Category: tx.Category,
			Peer:     tx.PeerName,
			Date:     tx.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	return mustJSON(items)
}

func tipsSummary(txs []entity.Transaction) string {
	items := make([]tipsItem, 0, len(txs))
	for _, tx := range txs {
		items = append(items, tipsItem{
			Amount:   json.Number(tx.Amount.String()),
			Category: tx.Category,
			Type:     tx.Type,
		})
	}
	return mustJSON(items)
}

// mustJSON only sees plain strings and numbers, so Marshal cannot fail.
func mustJSON(v any) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}

func advicePrompt(txs []entity.Transaction) string {
	return "You are Kora AI, a friendly financial assistant for the Kora Digital Wallet.\n" +
		"You have access to the user's recent transactions: " + adviceSummary(txs) + ".\n" +
		"Provide concise, helpful advice or answer queries about their spending.\n" +
		"Keep it modern, sleek, and encouraging. Use markdown formatting."
}

func tipsPrompt(txs []entity.Transaction) string {
	return "Analyze the user's transactions: " + tipsSummary(txs) +
		". Provide output as a JSON object with a 'tips' array of strings."
}

const tipsQuery = "Analyze this spending data and provide three short, actionable bullet points to save money."
